package driving

import "github.com/custodia-labs/gfacade/internal/core/domain"

// CredentialsService exposes credential resolution to the CLI.
type CredentialsService interface {
	// Resolve returns the settings for a prefix after fallback and defaults.
	Resolve(prefix string) (*domain.CredentialSettings, error)

	// Prefixes returns the configuration prefixes that have at least one
	// property set, sorted.
	Prefixes() []string
}
