// Package domain defines the core entities for gfacade.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - APIName: A wrapped Google API and its default OAuth2 scopes
//   - CredentialSettings: Resolved per-prefix credential and transport settings
//   - Local models: File, Spreadsheet, Topic, IdentityUser, MigrationJob, ...
//   - RequestEvent: Published once per outgoing HTTP attempt
//   - SubstituteRecord: A locally stored stand-in for a remote resource
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
