// Package firebase exposes Firebase Auth user management and token
// verification through the admin SDK.
package firebase

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"
	"google.golang.org/api/iterator"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// KindUsers is the substitute record kind for users.
const KindUsers = "firebase/users"

// DefaultPageSize is used by List when no page size is given. It matches
// the admin SDK's batch size.
const DefaultPageSize = 1000

// Facade exposes Firebase Auth resources.
type Facade struct {
	deps   google.Deps
	client *auth.Client
}

// New creates the Firebase facade. The project id comes from the resolved
// settings; the SDK falls back to the ambient credentials when it is empty.
func New(ctx context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	conf := &firebase.Config{}
	if deps.Settings != nil {
		conf.ProjectID = deps.Settings.ProjectID
		conf.ServiceAccountID = deps.Settings.ServiceAccount
	}
	app, err := firebase.NewApp(ctx, conf, deps.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firebase auth client: %w", err)
	}
	f.client = client
	return f, nil
}

// Client returns the admin SDK client, nil when substituted.
func (f *Facade) Client() *auth.Client {
	return f.client
}

var userIdentity = google.Identity[domain.IdentityUser]{
	Get:      func(u *domain.IdentityUser) string { return u.ID },
	Set:      func(u *domain.IdentityUser, id string) { u.ID = id },
	Sanitize: (*domain.IdentityUser).ClearPassword,
}

// Users returns the Firebase Auth users of the project.
func (f *Facade) Users() google.Resource[domain.IdentityUser] {
	return google.Resolve(f.deps, KindUsers, userIdentity, f.remoteUsers)
}

func (f *Facade) remoteUsers() google.Resource[domain.IdentityUser] {
	c := f.client
	ops := google.Operations[*user]{
		Get: func(ctx context.Context, id string, _ google.Request) (*user, error) {
			rec, err := c.GetUser(ctx, id)
			if err != nil {
				return nil, wrapError(err)
			}
			return &user{record: rec}, nil
		},
		Insert: func(ctx context.Context, item *user, _ google.Request) (*user, error) {
			rec, err := c.CreateUser(ctx, item.toCreate())
			if err != nil {
				return nil, wrapError(err)
			}
			return &user{record: rec}, nil
		},
		Update: func(ctx context.Context, id string, item *user, _ google.Request) (*user, error) {
			rec, err := c.UpdateUser(ctx, id, item.toUpdate())
			if err != nil {
				return nil, wrapError(err)
			}
			return &user{record: rec}, nil
		},
		Delete: func(ctx context.Context, id string, _ google.Request) error {
			return wrapError(c.DeleteUser(ctx, id))
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*user, string, error) {
			size := int(req.PageSize)
			if size <= 0 {
				size = DefaultPageSize
			}
			var page []*auth.ExportedUserRecord
			next, err := iterator.NewPager(c.Users(ctx, ""), size, req.PageToken).NextPage(&page)
			if err != nil {
				return nil, "", wrapError(err)
			}
			out := make([]*user, 0, len(page))
			for _, rec := range page {
				if rec != nil && rec.UserRecord != nil {
					out = append(out, &user{record: rec.UserRecord})
				}
			}
			return out, next, nil
		},
	}
	return google.NewResourceAdapter(KindUsers, c, ops, UserMapper)
}

// VerifyIDToken verifies a Firebase ID token and returns its claims.
func (f *Facade) VerifyIDToken(ctx context.Context, idToken string) (*domain.TokenClaims, error) {
	if f.client == nil {
		return nil, google.Unsupported(KindUsers, "verify id token")
	}
	tok, err := f.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", wrapError(err))
	}
	return toTokenClaims(tok), nil
}

// VerifySessionCookie verifies a Firebase session cookie and returns its
// claims.
func (f *Facade) VerifySessionCookie(ctx context.Context, cookie string) (*domain.TokenClaims, error) {
	if f.client == nil {
		return nil, google.Unsupported(KindUsers, "verify session cookie")
	}
	tok, err := f.client.VerifySessionCookie(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("verify session cookie: %w", wrapError(err))
	}
	return toTokenClaims(tok), nil
}

// authError keeps the SDK error reachable while matching a domain sentinel.
type authError struct {
	sentinel error
	cause    error
}

func (e *authError) Error() string { return fmt.Sprintf("%s: %s", e.sentinel, e.cause) }

func (e *authError) Unwrap() []error { return []error{e.sentinel, e.cause} }

// SDKError returns the admin SDK error behind err, or nil when err did not
// come from the SDK. The auth.Is* predicates only match the unwrapped SDK
// error, so callers holding a facade error should match domain sentinels or
// pass it through SDKError first.
func SDKError(err error) error {
	var ae *authError
	if errors.As(err, &ae) {
		return ae.cause
	}
	return nil
}

// wrapError maps admin SDK errors onto domain sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var sentinel error
	switch {
	case auth.IsUserNotFound(err), errorutils.IsNotFound(err):
		sentinel = domain.ErrNotFound
	case auth.IsUIDAlreadyExists(err), auth.IsEmailAlreadyExists(err),
		auth.IsPhoneNumberAlreadyExists(err), errorutils.IsAlreadyExists(err):
		sentinel = domain.ErrAlreadyExists
	case auth.IsIDTokenInvalid(err), auth.IsSessionCookieInvalid(err), errorutils.IsUnauthenticated(err):
		sentinel = domain.ErrAuthInvalid
	case errorutils.IsPermissionDenied(err):
		sentinel = domain.ErrPermissionDenied
	case errorutils.IsInvalidArgument(err):
		sentinel = domain.ErrInvalidInput
	case errorutils.IsResourceExhausted(err):
		sentinel = domain.ErrRateLimited
	case errorutils.IsUnavailable(err), errorutils.IsInternal(err):
		sentinel = domain.ErrUnavailable
	default:
		return err
	}
	return &authError{sentinel: sentinel, cause: err}
}
