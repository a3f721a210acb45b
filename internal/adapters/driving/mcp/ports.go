package mcp

import (
	"github.com/custodia-labs/gfacade/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server uses.
type Ports struct {
	// Facade dispatches the resource verbs.
	Facade driving.FacadeService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Facade == nil {
		return ErrMissingFacadeService
	}
	return nil
}
