package tui

import (
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

// Ports holds the driving ports the TUI depends on.
type Ports struct {
	Facade driving.FacadeService
}

// Validate checks that required ports are present.
func (p *Ports) Validate() error {
	if p == nil || p.Facade == nil {
		return ErrMissingFacadeService
	}
	return nil
}
