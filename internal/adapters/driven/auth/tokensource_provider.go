package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Ensure TokenSourceProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*TokenSourceProvider)(nil)

// DefaultRefreshBuffer is how long before expiry a cached token is replaced.
const DefaultRefreshBuffer = 5 * time.Minute

// SourceFunc builds a token source. Each call must return a source with no
// cached token of its own, so a refresh always reaches the token endpoint.
type SourceFunc func() (oauth2.TokenSource, error)

// TokenSourceProvider caches tokens minted by fresh token sources and
// replaces each one RefreshBuffer before its expiry.
type TokenSourceProvider struct {
	kind      domain.CredentialKind
	principal string
	newSource SourceFunc
	buffer    time.Duration
	now       func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenSourceProvider wraps a token source factory. A zero buffer uses
// DefaultRefreshBuffer.
func NewTokenSourceProvider(
	kind domain.CredentialKind,
	principal string,
	newSource SourceFunc,
	buffer time.Duration,
) *TokenSourceProvider {
	if buffer <= 0 {
		buffer = DefaultRefreshBuffer
	}
	return &TokenSourceProvider{
		kind:      kind,
		principal: principal,
		newSource: newSource,
		buffer:    buffer,
		now:       time.Now,
	}
}

// GetToken returns a valid access token, refreshing if necessary.
func (p *TokenSourceProvider) GetToken(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fresh(p.token) {
		return p.token.AccessToken, nil
	}

	src, err := p.newSource()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	tok, err := src.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", domain.ErrTokenRefreshFailed)
	}
	p.token = tok
	return tok.AccessToken, nil
}

// fresh reports whether tok can be served without a refresh. Tokens with no
// expiry never go stale.
func (p *TokenSourceProvider) fresh(tok *oauth2.Token) bool {
	if tok == nil || tok.AccessToken == "" {
		return false
	}
	if tok.Expiry.IsZero() {
		return true
	}
	return p.now().Add(p.buffer).Before(tok.Expiry)
}

// Principal returns the service account email, if known.
func (p *TokenSourceProvider) Principal() string {
	return p.principal
}

// Kind returns the credential kind the source was built from.
func (p *TokenSourceProvider) Kind() domain.CredentialKind {
	return p.kind
}

// InvalidateCache drops the cached token so the next call mints a new one.
func (p *TokenSourceProvider) InvalidateCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = nil
}
