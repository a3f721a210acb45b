// Package analytics wraps the Google Analytics v3 management API.
//
// Analytics pages by 1-based start index rather than opaque tokens; the
// facade exposes the start index of the next page as its page token.
package analytics

import (
	"context"
	"fmt"
	"strconv"

	"google.golang.org/api/analytics/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Substitute record kinds.
const (
	KindAccounts      = "analytics/accounts"
	KindWebProperties = "analytics/webproperties"
)

// Facade exposes Analytics management resources.
type Facade struct {
	deps google.Deps
	svc  *analytics.Service
}

// New creates the Analytics facade.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	svc, err := google.NewAnalyticsService(ctx, deps)
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

// Service returns the generated client, nil when substituted.
func (f *Facade) Service() *analytics.Service {
	return f.svc
}

var accountIdentity = google.Identity[domain.AnalyticsAccount]{
	Get: func(a *domain.AnalyticsAccount) string { return a.ID },
	Set: func(a *domain.AnalyticsAccount, id string) { a.ID = id },
}

var webPropertyIdentity = google.Identity[domain.WebProperty]{
	Get: func(p *domain.WebProperty) string { return p.ID },
	Set: func(p *domain.WebProperty, id string) { p.ID = id },
}

// Accounts returns the accounts visible to the caller. Only List is
// supported remotely.
func (f *Facade) Accounts() google.Resource[domain.AnalyticsAccount] {
	return google.Resolve(f.deps, KindAccounts, accountIdentity, f.remoteAccounts)
}

// WebProperties returns the web properties of one account.
func (f *Facade) WebProperties(accountID string) google.Resource[domain.WebProperty] {
	kind := KindWebProperties + "/" + accountID
	return google.Resolve(f.deps, kind, webPropertyIdentity, func() google.Resource[domain.WebProperty] {
		return f.remoteWebProperties(accountID)
	})
}

func (f *Facade) remoteAccounts() google.Resource[domain.AnalyticsAccount] {
	accounts := f.svc.Management.Accounts
	ops := google.Operations[*analytics.Account]{
		List: func(ctx context.Context, req google.ListRequest) ([]*analytics.Account, string, error) {
			start, err := startIndex(req.PageToken)
			if err != nil {
				return nil, "", err
			}
			call := accounts.List().StartIndex(start).Context(ctx)
			if req.PageSize > 0 {
				call = call.MaxResults(req.PageSize)
			}
			resp, err := call.Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			return resp.Items, nextToken(start, int64(len(resp.Items)), resp.TotalResults), nil
		},
	}
	return google.NewResourceAdapter(KindAccounts, accounts, ops, AccountMapper)
}

func (f *Facade) remoteWebProperties(accountID string) google.Resource[domain.WebProperty] {
	props := f.svc.Management.Webproperties
	ops := google.Operations[*analytics.Webproperty]{
		Get: func(ctx context.Context, id string, req google.Request) (*analytics.Webproperty, error) {
			return props.Get(accountID, id).Context(ctx).Do(req.CallOptions()...)
		},
		Insert: func(ctx context.Context, item *analytics.Webproperty, req google.Request) (*analytics.Webproperty, error) {
			item.Id = ""
			return props.Insert(accountID, item).Context(ctx).Do(req.CallOptions()...)
		},
		Update: func(ctx context.Context, id string, item *analytics.Webproperty, req google.Request) (*analytics.Webproperty, error) {
			item.Id = id
			return props.Update(accountID, id, item).Context(ctx).Do(req.CallOptions()...)
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*analytics.Webproperty, string, error) {
			start, err := startIndex(req.PageToken)
			if err != nil {
				return nil, "", err
			}
			call := props.List(accountID).StartIndex(start).Context(ctx)
			if req.PageSize > 0 {
				call = call.MaxResults(req.PageSize)
			}
			resp, err := call.Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			return resp.Items, nextToken(start, int64(len(resp.Items)), resp.TotalResults), nil
		},
	}
	return google.NewResourceAdapter(KindWebProperties+"/"+accountID, props, ops, WebPropertyMapper)
}

// startIndex parses a page token. The empty token is the first item.
func startIndex(token string) (int64, error) {
	if token == "" {
		return 1, nil
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: page token %q is not a start index", domain.ErrInvalidInput, token)
	}
	return n, nil
}

// nextToken returns the start index of the following page, or "" when the
// page was the last one.
func nextToken(start, count, total int64) string {
	next := start + count
	if count == 0 || next > total {
		return ""
	}
	return strconv.FormatInt(next, 10)
}
