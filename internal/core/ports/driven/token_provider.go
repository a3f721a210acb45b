package driven

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// TokenProvider provides access tokens for authenticated API calls.
// Implementations handle token refresh transparently.
type TokenProvider interface {
	// GetToken returns a valid access token.
	// If the current token is expired, it will be refreshed automatically.
	// Returns empty string for unauthenticated access.
	GetToken(ctx context.Context) (string, error)

	// Principal returns the identity the token is issued for, usually a
	// service account email. Empty when unknown or unauthenticated.
	Principal() string

	// Kind returns how tokens are obtained.
	Kind() domain.CredentialKind

	// InvalidateCache drops any cached token so the next call refreshes.
	InvalidateCache()
}
