package firebase

import (
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// user is either a record read from Firebase or a local user on its way
// out; the SDK uses distinct builder types for writes.
type user struct {
	record *auth.UserRecord
	local  *domain.IdentityUser
}

// UserMapper converts between Firebase user records and domain.IdentityUser.
var UserMapper google.Mapper[*user, domain.IdentityUser] = google.MapperFuncs[*user, domain.IdentityUser]{
	ToLocal: func(u *user) *domain.IdentityUser {
		if u.record == nil {
			if u.local != nil {
				out := *u.local
				out.Password = ""
				return &out
			}
			return &domain.IdentityUser{}
		}
		return toLocalUser(u.record)
	},
	ToRemote: func(u *domain.IdentityUser) *user {
		return &user{local: u}
	},
}

func toLocalUser(r *auth.UserRecord) *domain.IdentityUser {
	out := &domain.IdentityUser{
		EmailVerified: domain.Flag(r.EmailVerified),
		Disabled:      domain.Flag(r.Disabled),
	}
	if r.UserInfo != nil {
		out.ID = r.UID
		out.Email = r.Email
		out.DisplayName = r.DisplayName
		out.PhotoURL = r.PhotoURL
		out.PhoneNumber = r.PhoneNumber
	}
	if m := r.UserMetadata; m != nil {
		out.CreatedAt = fromMillis(m.CreationTimestamp)
		out.LastLoginAt = fromMillis(m.LastLogInTimestamp)
	}
	return out
}

// toCreate builds the create request. Empty optional fields are left unset
// because the SDK rejects empty strings.
func (u *user) toCreate() *auth.UserToCreate {
	l := u.local
	params := &auth.UserToCreate{}
	if l.EmailVerified != nil {
		params = params.EmailVerified(*l.EmailVerified)
	}
	if l.Disabled != nil {
		params = params.Disabled(*l.Disabled)
	}
	if l.ID != "" {
		params = params.UID(l.ID)
	}
	if l.Email != "" {
		params = params.Email(l.Email)
	}
	if l.Password != "" {
		params = params.Password(l.Password)
	}
	if l.DisplayName != "" {
		params = params.DisplayName(l.DisplayName)
	}
	if l.PhotoURL != "" {
		params = params.PhotoURL(l.PhotoURL)
	}
	if l.PhoneNumber != "" {
		params = params.PhoneNumber(l.PhoneNumber)
	}
	return params
}

// toUpdate builds the update request. Empty strings and nil flags leave a
// field unchanged.
func (u *user) toUpdate() *auth.UserToUpdate {
	l := u.local
	params := &auth.UserToUpdate{}
	if l.EmailVerified != nil {
		params = params.EmailVerified(*l.EmailVerified)
	}
	if l.Disabled != nil {
		params = params.Disabled(*l.Disabled)
	}
	if l.Email != "" {
		params = params.Email(l.Email)
	}
	if l.Password != "" {
		params = params.Password(l.Password)
	}
	if l.DisplayName != "" {
		params = params.DisplayName(l.DisplayName)
	}
	if l.PhotoURL != "" {
		params = params.PhotoURL(l.PhotoURL)
	}
	if l.PhoneNumber != "" {
		params = params.PhoneNumber(l.PhoneNumber)
	}
	return params
}

func toTokenClaims(t *auth.Token) *domain.TokenClaims {
	out := &domain.TokenClaims{
		UserID:     t.UID,
		ProviderID: t.Firebase.SignInProvider,
		Issuer:     t.Issuer,
		Audience:   t.Audience,
		IssuedAt:   time.Unix(t.IssuedAt, 0).UTC(),
		ExpiresAt:  time.Unix(t.Expires, 0).UTC(),
	}
	extra := make(map[string]any, len(t.Claims))
	for k, v := range t.Claims {
		switch k {
		case "email":
			if s, ok := v.(string); ok {
				out.Email = s
				continue
			}
		case "iss", "aud", "sub", "iat", "exp", "auth_time", "user_id", "firebase":
			continue
		}
		extra[k] = v
	}
	if len(extra) > 0 {
		out.Extra = extra
	}
	return out
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
