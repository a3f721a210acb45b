package analytics

import (
	"google.golang.org/api/analytics/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// AccountMapper converts between analytics.Account and domain.AnalyticsAccount.
var AccountMapper google.Mapper[*analytics.Account, domain.AnalyticsAccount] = google.MapperFuncs[*analytics.Account, domain.AnalyticsAccount]{
	ToLocal: func(a *analytics.Account) *domain.AnalyticsAccount {
		return &domain.AnalyticsAccount{
			ID:      a.Id,
			Name:    a.Name,
			Created: google.ParseTime(a.Created),
			Updated: google.ParseTime(a.Updated),
		}
	},
	ToRemote: func(a *domain.AnalyticsAccount) *analytics.Account {
		return &analytics.Account{Id: a.ID, Name: a.Name}
	},
}

// WebPropertyMapper converts between analytics.Webproperty and
// domain.WebProperty. Timestamps are server-assigned and not sent.
var WebPropertyMapper google.Mapper[*analytics.Webproperty, domain.WebProperty] = google.MapperFuncs[*analytics.Webproperty, domain.WebProperty]{
	ToLocal: func(p *analytics.Webproperty) *domain.WebProperty {
		return &domain.WebProperty{
			ID:               p.Id,
			AccountID:        p.AccountId,
			Name:             p.Name,
			WebsiteURL:       p.WebsiteUrl,
			IndustryVertical: p.IndustryVertical,
			Created:          google.ParseTime(p.Created),
			Updated:          google.ParseTime(p.Updated),
		}
	},
	ToRemote: func(p *domain.WebProperty) *analytics.Webproperty {
		return &analytics.Webproperty{
			Id:               p.ID,
			AccountId:        p.AccountID,
			Name:             p.Name,
			WebsiteUrl:       p.WebsiteURL,
			IndustryVertical: p.IndustryVertical,
		}
	},
}
