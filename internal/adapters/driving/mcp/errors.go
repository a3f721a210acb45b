// Package mcp serves the facade over the Model Context Protocol, so AI
// assistants can work with Google API resources through the same verbs as
// the CLI.
package mcp

import "errors"

// ErrMissingFacadeService is returned when the facade service is not provided.
var ErrMissingFacadeService = errors.New("mcp: facade service is required")
