package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// substituteStore implements driven.SubstituteStore.
type substituteStore struct {
	store *Store
}

var _ driven.SubstituteStore = (*substituteStore)(nil)

// Create inserts a new record. The primary key makes the existence check
// and the insert a single statement.
func (s *substituteStore) Create(ctx context.Context, record domain.SubstituteRecord) error {
	if record.Kind == "" || record.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.Data == nil {
		record.Data = []byte{}
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO substitutes (kind, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO NOTHING
	`, record.Kind, record.ID, record.Data, record.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("creating substitute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("creating substitute: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Put stores or replaces a record, keeping the original created_at.
func (s *substituteStore) Put(ctx context.Context, record domain.SubstituteRecord) error {
	if record.Kind == "" || record.ID == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.Data == nil {
		record.Data = []byte{}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO substitutes (kind, id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, record.Kind, record.ID, record.Data, record.CreatedAt, now)
	if err != nil {
		return fmt.Errorf("saving substitute: %w", err)
	}
	return nil
}

// Get retrieves a record by kind and ID.
func (s *substituteStore) Get(ctx context.Context, kind, id string) (*domain.SubstituteRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT kind, id, data, created_at, updated_at
		FROM substitutes WHERE kind = ? AND id = ?
	`, kind, id)

	var record domain.SubstituteRecord
	if err := row.Scan(&record.Kind, &record.ID, &record.Data, &record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning substitute: %w", err)
	}
	return &record, nil
}

// Delete removes a record.
func (s *substituteStore) Delete(ctx context.Context, kind, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM substitutes WHERE kind = ? AND id = ?", kind, id)
	if err != nil {
		return fmt.Errorf("deleting substitute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting substitute: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns all records of a kind ordered by ID.
func (s *substituteStore) List(ctx context.Context, kind string) ([]domain.SubstituteRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT kind, id, data, created_at, updated_at
		FROM substitutes WHERE kind = ? ORDER BY id
	`, kind)
	if err != nil {
		return nil, fmt.Errorf("listing substitutes: %w", err)
	}
	defer rows.Close()

	var records []domain.SubstituteRecord
	for rows.Next() {
		var record domain.SubstituteRecord
		if err := rows.Scan(&record.Kind, &record.ID, &record.Data, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning substitute: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
