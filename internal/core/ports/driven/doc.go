// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ConfigStore: Prefixed configuration properties (TOML/YAML files)
//   - TokenProvider: Access tokens for a resolved credential
//   - SubstituteStore: Local records served when an API is substituted
//   - EventPublisher: Receives one RequestEvent per outgoing HTTP attempt
//   - DynamicResource: A wrapped API collection with JSON-encoded items
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
