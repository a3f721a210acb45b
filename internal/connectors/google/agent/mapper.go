package agent

import (
	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// agent is the wire form of an agent.
type agent struct {
	ID           string `json:"id,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	Status       string `json:"status,omitempty"`
	Version      string `json:"version,omitempty"`
	LastSeenTime string `json:"lastSeenTime,omitempty"`
}

// migration is the wire form of a migration job.
type migration struct {
	ID         string  `json:"id,omitempty"`
	AgentID    string  `json:"agentId,omitempty"`
	Source     string  `json:"source,omitempty"`
	Target     string  `json:"target,omitempty"`
	State      string  `json:"state,omitempty"`
	Progress   float64 `json:"progress,omitempty"`
	CreateTime string  `json:"createTime,omitempty"`
	UpdateTime string  `json:"updateTime,omitempty"`
}

// AgentMapper converts between the wire agent and domain.Agent. Status and
// last-seen are reported by the agent and never written.
var AgentMapper google.Mapper[*agent, domain.Agent] = google.MapperFuncs[*agent, domain.Agent]{
	ToLocal: func(a *agent) *domain.Agent {
		status := domain.AgentStatus(a.Status)
		if status == "" {
			status = domain.AgentUnknown
		}
		return &domain.Agent{
			ID:       a.ID,
			Name:     a.DisplayName,
			Status:   status,
			Version:  a.Version,
			LastSeen: google.ParseTime(a.LastSeenTime),
		}
	},
	ToRemote: func(a *domain.Agent) *agent {
		return &agent{ID: a.ID, DisplayName: a.Name, Version: a.Version}
	},
}

// MigrationMapper converts between the wire migration and
// domain.MigrationJob.
var MigrationMapper google.Mapper[*migration, domain.MigrationJob] = google.MapperFuncs[*migration, domain.MigrationJob]{
	ToLocal: func(m *migration) *domain.MigrationJob {
		return &domain.MigrationJob{
			ID:        m.ID,
			AgentID:   m.AgentID,
			Source:    m.Source,
			Target:    m.Target,
			State:     domain.MigrationState(m.State),
			Progress:  m.Progress,
			CreatedAt: google.ParseTime(m.CreateTime),
			UpdatedAt: google.ParseTime(m.UpdateTime),
		}
	},
	ToRemote: func(m *domain.MigrationJob) *migration {
		return &migration{
			ID:      m.ID,
			AgentID: m.AgentID,
			Source:  m.Source,
			Target:  m.Target,
			State:   string(m.State),
		}
	},
}
