// Package sqlite persists substitute records, the local stand-ins served
// when an API runs without credentials, in a single SQLite file.
//
// The driver is modernc.org/sqlite, so the binary stays CGO-free.
//
// Records are keyed by (kind, id) where kind names the collection, for
// example "drive/files" or "sheets/values/<spreadsheet>". Items are stored
// as their JSON encoding and listed in id order.
//
// Migrations live in migrations/ as NNN_name.up.sql files and are applied
// once, tracked in schema_migrations. The default database path is
// ~/.gfacade/data/substitutes.db, opened in WAL mode with a busy timeout so
// the CLI and a running MCP server can share it.
package sqlite
