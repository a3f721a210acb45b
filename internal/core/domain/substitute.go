package domain

import "time"

// SubstituteRecord is a JSON document standing in for a remote resource
// while an API runs in substitute mode.
type SubstituteRecord struct {
	// Kind namespaces records, e.g. "drive/files".
	Kind string `json:"kind"`
	// ID is unique within Kind.
	ID string `json:"id"`
	// Data is the JSON encoding of the local model.
	Data []byte `json:"data"`
	// CreatedAt is when the record was first stored.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time `json:"updated_at"`
}
