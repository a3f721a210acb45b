// Package tui provides a terminal browser over the facade's resource
// collections.
package tui

import "errors"

// ErrMissingFacadeService is returned when the facade service is nil.
var ErrMissingFacadeService = errors.New("tui: facade service is required")
