package auth

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
	"github.com/custodia-labs/gfacade/internal/logger"
)

// Factory creates TokenProviders from resolved credential settings.
type Factory struct {
	// TokenURL is the OAuth2 token endpoint for PKCS8 private key credentials.
	// JSON keys carry their own token_uri.
	TokenURL string
	// RefreshBuffer is how early cached tokens are replaced.
	RefreshBuffer time.Duration

	readFile    func(string) ([]byte, error)
	findDefault func(ctx context.Context, scopes ...string) (*google.Credentials, error)
}

// NewFactory creates a token provider factory.
func NewFactory() *Factory {
	return &Factory{
		TokenURL:      google.JWTTokenURL,
		RefreshBuffer: DefaultRefreshBuffer,
		readFile:      os.ReadFile,
		findDefault:   google.FindDefaultCredentials,
	}
}

// CreateTokenProvider builds the TokenProvider matching settings.Kind().
//
// ctx must outlive the provider: token refreshes are made with it. When the
// key material names a project and settings.ProjectID is empty, ProjectID is
// filled in from the key.
func (f *Factory) CreateTokenProvider(
	ctx context.Context,
	settings *domain.CredentialSettings,
) (driven.TokenProvider, error) {
	if settings == nil {
		return nil, fmt.Errorf("%w: nil settings", domain.ErrInvalidInput)
	}

	// Bound token exchanges so a stalled token endpoint cannot hang callers.
	if settings.ReadTimeout > 0 {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: settings.ReadTimeout})
	}

	kind := settings.Kind()
	logger.Debug("creating %s token provider for %s", kind, settings.Prefix)

	switch kind {
	case domain.CredentialJSONKey:
		return f.fromJSONKey(ctx, settings)
	case domain.CredentialPrivateKey:
		return f.fromPrivateKey(ctx, settings)
	case domain.CredentialAppIdentity:
		return f.fromAppIdentity(ctx, settings)
	default:
		return NewNullTokenProvider(), nil
	}
}

// fromJSONKey signs JWT assertions with a service account JSON key. Other
// credential JSON shapes (authorized_user, external_account) are accepted
// through google.CredentialsFromJSON.
func (f *Factory) fromJSONKey(ctx context.Context, settings *domain.CredentialSettings) (driven.TokenProvider, error) {
	data, err := f.readFile(settings.JSONKeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s.%s: %w", domain.ErrAuthInvalid, settings.Prefix, domain.PropJSONKeyFile, err)
	}

	meta, err := parseServiceAccountFile(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrAuthInvalid, settings.Prefix, err)
	}
	if settings.ProjectID == "" {
		settings.ProjectID = meta.ProjectID
	}

	if meta.Type != "service_account" {
		creds, err := google.CredentialsFromJSON(ctx, data, settings.Scopes...)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrAuthInvalid, settings.Prefix, err)
		}
		scopes := settings.Scopes
		return NewTokenSourceProvider(domain.CredentialJSONKey, "", credentialsSource(creds, func() (*google.Credentials, error) {
			return google.CredentialsFromJSON(ctx, data, scopes...)
		}), f.RefreshBuffer), nil
	}

	cfg, err := google.JWTConfigFromJSON(data, settings.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrAuthInvalid, settings.Prefix, err)
	}
	cfg.Subject = settings.Subject

	return NewTokenSourceProvider(domain.CredentialJSONKey, cfg.Email, jwtSource(ctx, cfg), f.RefreshBuffer), nil
}

// fromPrivateKey builds the JWT-bearer flow from a PEM key and an
// explicitly configured service account email.
func (f *Factory) fromPrivateKey(ctx context.Context, settings *domain.CredentialSettings) (driven.TokenProvider, error) {
	data, err := f.readFile(settings.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s.%s: %w", domain.ErrAuthInvalid, settings.Prefix, domain.PropPrivateKeyFile, err)
	}

	// Fail at construction rather than on the first request.
	if _, err := ParsePrivateKey(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrAuthInvalid, settings.Prefix, err)
	}

	tokenURL := f.TokenURL
	if tokenURL == "" {
		tokenURL = google.JWTTokenURL
	}

	cfg := &jwt.Config{
		Email:      settings.ServiceAccount,
		PrivateKey: data,
		Scopes:     settings.Scopes,
		TokenURL:   tokenURL,
		Subject:    settings.Subject,
	}

	return NewTokenSourceProvider(domain.CredentialPrivateKey, cfg.Email, jwtSource(ctx, cfg), f.RefreshBuffer), nil
}

// jwtSource mints a new assertion-backed source per refresh. The source
// returned by jwt.Config.TokenSource caches its token until expiry.
func jwtSource(ctx context.Context, cfg *jwt.Config) SourceFunc {
	return func() (oauth2.TokenSource, error) {
		return cfg.TokenSource(ctx), nil
	}
}

// fromAppIdentity uses the ambient credentials of the runtime: the metadata
// server on Google infrastructure, GOOGLE_APPLICATION_CREDENTIALS, or the
// gcloud user credentials.
func (f *Factory) fromAppIdentity(ctx context.Context, settings *domain.CredentialSettings) (driven.TokenProvider, error) {
	creds, err := f.findDefault(ctx, settings.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrAuthRequired, settings.Prefix, err)
	}
	if settings.ProjectID == "" {
		settings.ProjectID = creds.ProjectID
	}
	scopes := settings.Scopes
	return NewTokenSourceProvider(domain.CredentialAppIdentity, "", credentialsSource(creds, func() (*google.Credentials, error) {
		return f.findDefault(ctx, scopes...)
	}), f.RefreshBuffer), nil
}

// credentialsSource serves the first token from creds and derives new
// credentials for every later refresh, since google.Credentials caches its
// token until expiry. Calls are serialized by TokenSourceProvider.
func credentialsSource(creds *google.Credentials, lookup func() (*google.Credentials, error)) SourceFunc {
	first := creds.TokenSource
	return func() (oauth2.TokenSource, error) {
		if first != nil {
			src := first
			first = nil
			return src, nil
		}
		c, err := lookup()
		if err != nil {
			return nil, err
		}
		return c.TokenSource, nil
	}
}
