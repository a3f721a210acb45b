// Package driving defines the interfaces the CLI, MCP server and terminal
// browser call into. Implementations live in internal/core/services and
// internal/app.
package driving
