package identitytoolkit

import (
	"time"

	"google.golang.org/api/identitytoolkit/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// account carries the write-only password and the optional flags alongside
// the wire user, which has no field for the password and plain bools for
// the flags.
type account struct {
	info          *identitytoolkit.UserInfo
	password      string
	emailVerified *bool
	disabled      *bool
}

// UserMapper converts between relying party users and domain.IdentityUser.
// Passwords are sent on insert and update but never read back.
var UserMapper google.Mapper[*account, domain.IdentityUser] = google.MapperFuncs[*account, domain.IdentityUser]{
	ToLocal: func(a *account) *domain.IdentityUser {
		u := a.info
		if u == nil {
			return &domain.IdentityUser{}
		}
		return &domain.IdentityUser{
			ID:            u.LocalId,
			Email:         u.Email,
			EmailVerified: domain.Flag(u.EmailVerified),
			DisplayName:   u.DisplayName,
			PhotoURL:      u.PhotoUrl,
			PhoneNumber:   u.PhoneNumber,
			Disabled:      domain.Flag(u.Disabled),
			CreatedAt:     fromMillis(u.CreatedAt),
			LastLoginAt:   fromMillis(u.LastLoginAt),
		}
	},
	ToRemote: func(u *domain.IdentityUser) *account {
		return &account{
			info: &identitytoolkit.UserInfo{
				LocalId:       u.ID,
				Email:         u.Email,
				EmailVerified: domain.FlagValue(u.EmailVerified),
				DisplayName:   u.DisplayName,
				PhotoUrl:      u.PhotoURL,
				PhoneNumber:   u.PhoneNumber,
				Disabled:      domain.FlagValue(u.Disabled),
			},
			password:      u.Password,
			emailVerified: u.EmailVerified,
			disabled:      u.Disabled,
		}
	},
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
