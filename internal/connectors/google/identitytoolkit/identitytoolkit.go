// Package identitytoolkit wraps the Identity Toolkit v3 relying party API:
// user administration and verification of the gtoken session cookie.
package identitytoolkit

import (
	"context"

	"google.golang.org/api/identitytoolkit/v3"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// KindUsers is the substitute record kind for users.
const KindUsers = "identitytoolkit/users"

// Facade exposes Identity Toolkit resources.
type Facade struct {
	deps google.Deps
	svc  *identitytoolkit.Service
}

// New creates the Identity Toolkit facade.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	svc, err := google.NewIdentityToolkitService(ctx, deps)
	if err != nil {
		return nil, err
	}
	f.svc = svc
	return f, nil
}

// Service returns the generated client, nil when substituted.
func (f *Facade) Service() *identitytoolkit.Service {
	return f.svc
}

var userIdentity = google.Identity[domain.IdentityUser]{
	Get:      func(u *domain.IdentityUser) string { return u.ID },
	Set:      func(u *domain.IdentityUser, id string) { u.ID = id },
	Sanitize: (*domain.IdentityUser).ClearPassword,
}

// Users returns the user accounts of the project.
func (f *Facade) Users() google.Resource[domain.IdentityUser] {
	return google.Resolve(f.deps, KindUsers, userIdentity, f.remoteUsers)
}

// CookieParser returns a parser for gtoken cookies issued to audience,
// fetching signing keys through the relying party API.
func (f *Facade) CookieParser(audience string) (*CookieParser, error) {
	if f.svc == nil {
		return nil, google.Unsupported(KindUsers, "parse cookie")
	}
	rp := f.svc.Relyingparty
	return NewCookieParser(func(ctx context.Context) (map[string]string, error) {
		keys, err := rp.GetPublicKeys().Context(ctx).Do()
		if err != nil {
			return nil, google.WrapError(err)
		}
		return keys, nil
	}, audience), nil
}

func (f *Facade) targetProject() string {
	if f.deps.Settings == nil {
		return ""
	}
	return f.deps.Settings.ProjectID
}

func (f *Facade) remoteUsers() google.Resource[domain.IdentityUser] {
	rp := f.svc.Relyingparty
	get := func(ctx context.Context, id string, req google.Request) (*account, error) {
		resp, err := rp.GetAccountInfo(&identitytoolkit.IdentitytoolkitRelyingpartyGetAccountInfoRequest{
			LocalId: []string{id},
		}).Context(ctx).Do(req.CallOptions()...)
		if err != nil {
			return nil, err
		}
		if len(resp.Users) == 0 {
			return nil, nil
		}
		return &account{info: resp.Users[0]}, nil
	}
	ops := google.Operations[*account]{
		Get: get,
		Insert: func(ctx context.Context, item *account, req google.Request) (*account, error) {
			u := item.info
			resp, err := rp.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
				LocalId:       u.LocalId,
				Email:         u.Email,
				Password:      item.password,
				DisplayName:   u.DisplayName,
				PhotoUrl:      u.PhotoUrl,
				PhoneNumber:   u.PhoneNumber,
				EmailVerified: u.EmailVerified,
				Disabled:      u.Disabled,
			}).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			return get(ctx, resp.LocalId, google.Request{})
		},
		Update: func(ctx context.Context, id string, item *account, req google.Request) (*account, error) {
			u := item.info
			update := &identitytoolkit.IdentitytoolkitRelyingpartySetAccountInfoRequest{
				LocalId:     id,
				Email:       u.Email,
				Password:    item.password,
				DisplayName: u.DisplayName,
				PhotoUrl:    u.PhotoUrl,
				PhoneNumber: u.PhoneNumber,
			}
			// Only flags the caller set are sent; false must be forced.
			if item.emailVerified != nil {
				update.EmailVerified = *item.emailVerified
				update.ForceSendFields = append(update.ForceSendFields, "EmailVerified")
			}
			if item.disabled != nil {
				update.DisableUser = *item.disabled
				update.ForceSendFields = append(update.ForceSendFields, "DisableUser")
			}
			_, err := rp.SetAccountInfo(update).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, err
			}
			return get(ctx, id, google.Request{})
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			_, err := rp.DeleteAccount(&identitytoolkit.IdentitytoolkitRelyingpartyDeleteAccountRequest{
				LocalId: id,
			}).Context(ctx).Do(req.CallOptions()...)
			return err
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*account, string, error) {
			resp, err := rp.DownloadAccount(&identitytoolkit.IdentitytoolkitRelyingpartyDownloadAccountRequest{
				MaxResults:      req.PageSize,
				NextPageToken:   req.PageToken,
				TargetProjectId: f.targetProject(),
			}).Context(ctx).Do(req.CallOptions()...)
			if err != nil {
				return nil, "", err
			}
			out := make([]*account, 0, len(resp.Users))
			for _, u := range resp.Users {
				if u != nil {
					out = append(out, &account{info: u})
				}
			}
			return out, resp.NextPageToken, nil
		},
	}
	return google.NewResourceAdapter(KindUsers, rp, ops, UserMapper)
}
