package domain

import "time"

// AgentStatus is the reported state of a migration agent.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "ONLINE"
	AgentOffline AgentStatus = "OFFLINE"
	AgentUnknown AgentStatus = "UNKNOWN"
)

// Agent is a migration agent registered with the agent API.
type Agent struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Status   AgentStatus `json:"status,omitempty"`
	Version  string      `json:"version,omitempty"`
	LastSeen time.Time   `json:"last_seen,omitzero"`
}

// MigrationState is the lifecycle state of a migration job.
type MigrationState string

const (
	MigrationPending   MigrationState = "PENDING"
	MigrationRunning   MigrationState = "RUNNING"
	MigrationSucceeded MigrationState = "SUCCEEDED"
	MigrationFailed    MigrationState = "FAILED"
	MigrationCancelled MigrationState = "CANCELLED"
)

// Terminal returns true if the job can no longer change state.
func (s MigrationState) Terminal() bool {
	switch s {
	case MigrationSucceeded, MigrationFailed, MigrationCancelled:
		return true
	default:
		return false
	}
}

// MigrationJob moves data from a source location to a target via an agent.
type MigrationJob struct {
	ID        string         `json:"id"`
	AgentID   string         `json:"agent_id,omitempty"`
	Source    string         `json:"source"`
	Target    string         `json:"target"`
	State     MigrationState `json:"state,omitempty"`
	Progress  float64        `json:"progress,omitempty"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
	UpdatedAt time.Time      `json:"updated_at,omitzero"`
}
