// Package migrations holds the substitute store schema.
package migrations

import "embed"

// FS holds the NNN_name.{up,down}.sql files applied by the sqlite store.
//
//go:embed *.sql
var FS embed.FS
