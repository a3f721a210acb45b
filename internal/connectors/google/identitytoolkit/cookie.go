package identitytoolkit

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

const (
	// CookieName is the cookie the Identity Toolkit widget stores its token in.
	CookieName = "gtoken"
	// DefaultIssuer is the iss claim of gtoken cookies.
	DefaultIssuer = "https://identitytoolkit.google.com/"
	// DefaultKeyTTL is how long fetched signing keys are trusted.
	DefaultKeyTTL = time.Hour
	// DefaultLeeway tolerates clock skew on exp, iat and nbf.
	DefaultLeeway = 5 * time.Minute
)

// ErrInvalidToken indicates a cookie that failed parsing or verification.
// It wraps domain.ErrAuthInvalid.
var ErrInvalidToken = fmt.Errorf("identitytoolkit: invalid token: %w", domain.ErrAuthInvalid)

// KeyFetcher returns the current signing certificates, keyed by kid, as PEM.
type KeyFetcher func(ctx context.Context) (map[string]string, error)

// cookieClaims are the claims carried by a gtoken.
type cookieClaims struct {
	jwt.RegisteredClaims
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	Verified    bool   `json:"verified"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	ProviderID  string `json:"provider_id"`
}

// CookieParser verifies RS256 gtoken cookies against Identity Toolkit's
// published keys. It is safe for concurrent use.
type CookieParser struct {
	fetch    KeyFetcher
	audience string

	Issuer string
	KeyTTL time.Duration
	Leeway time.Duration
	now    func() time.Time

	mu      sync.Mutex
	keys    map[string]*rsa.PublicKey
	fetched time.Time
}

// NewCookieParser creates a parser accepting tokens issued to audience,
// usually the OAuth client id of the site.
func NewCookieParser(fetch KeyFetcher, audience string) *CookieParser {
	return &CookieParser{
		fetch:    fetch,
		audience: audience,
		Issuer:   DefaultIssuer,
		KeyTTL:   DefaultKeyTTL,
		Leeway:   DefaultLeeway,
		now:      time.Now,
	}
}

// Parse verifies token and returns its claims.
func (p *CookieParser) Parse(ctx context.Context, token string) (*domain.TokenClaims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}
	claims := &cookieClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(p.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(p.Leeway),
		jwt.WithTimeFunc(p.now),
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid header")
		}
		return p.key(ctx, kid)
	}, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return toTokenClaims(claims), nil
}

// ParseRequest verifies the gtoken cookie of r.
func (p *CookieParser) ParseRequest(r *http.Request) (*domain.TokenClaims, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, fmt.Errorf("%w: no %s cookie", domain.ErrAuthRequired, CookieName)
	}
	return p.Parse(r.Context(), c.Value)
}

// key returns the public key for kid. An unknown kid triggers one refetch so
// rotated keys are picked up before the TTL expires.
func (p *CookieParser) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stale := p.keys == nil || p.now().Sub(p.fetched) > p.KeyTTL
	if k, ok := p.keys[kid]; ok && !stale {
		return k, nil
	}
	if err := p.refresh(ctx); err != nil {
		return nil, err
	}
	k, ok := p.keys[kid]
	if !ok {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return k, nil
}

func (p *CookieParser) refresh(ctx context.Context) error {
	certs, err := p.fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch signing keys: %w", err)
	}
	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, pemData := range certs {
		k, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemData))
		if err != nil {
			return fmt.Errorf("signing key %s: %w", kid, err)
		}
		keys[kid] = k
	}
	p.keys = keys
	p.fetched = p.now()
	return nil
}

func toTokenClaims(c *cookieClaims) *domain.TokenClaims {
	out := &domain.TokenClaims{
		UserID:     c.UserID,
		Email:      c.Email,
		ProviderID: c.ProviderID,
		Issuer:     c.Issuer,
		Extra:      map[string]any{},
	}
	if out.UserID == "" {
		out.UserID = c.Subject
	}
	if len(c.Audience) > 0 {
		out.Audience = c.Audience[0]
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	if c.Verified {
		out.Extra["verified"] = true
	}
	if c.DisplayName != "" {
		out.Extra["display_name"] = c.DisplayName
	}
	if c.PhotoURL != "" {
		out.Extra["photo_url"] = c.PhotoURL
	}
	if len(out.Extra) == 0 {
		out.Extra = nil
	}
	return out
}
