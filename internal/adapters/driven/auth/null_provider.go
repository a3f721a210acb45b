package auth

import (
	"context"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Ensure NullTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*NullTokenProvider)(nil)

// NullTokenProvider is for APIs reached without credentials, such as
// emulators or substitute-backed APIs.
type NullTokenProvider struct{}

// NewNullTokenProvider creates a token provider for unauthenticated access.
func NewNullTokenProvider() *NullTokenProvider {
	return &NullTokenProvider{}
}

// GetToken returns an empty string since no authentication is needed.
func (p *NullTokenProvider) GetToken(_ context.Context) (string, error) {
	return "", nil
}

// Principal returns an empty string since there is no identity.
func (p *NullTokenProvider) Principal() string {
	return ""
}

// Kind returns CredentialNone.
func (p *NullTokenProvider) Kind() domain.CredentialKind {
	return domain.CredentialNone
}

// InvalidateCache is a no-op.
func (p *NullTokenProvider) InvalidateCache() {}
