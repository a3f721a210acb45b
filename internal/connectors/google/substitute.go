package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// DefaultSubstitutePageSize is used when a list call sets no page size.
const DefaultSubstitutePageSize = 100

// Identity reads and writes the id of a local model.
type Identity[T any] struct {
	Get func(*T) string
	Set func(*T, string)
	// Sanitize clears write-only fields, such as passwords, before an item
	// is stored or returned. Optional.
	Sanitize func(*T)
}

// SubstituteResource serves a Resource from a SubstituteStore. Items are
// stored as their JSON encoding under a kind such as "drive/files".
//
// List pages in id order; the page token is the offset of the next item.
// Filter keeps items whose JSON contains the filter text, ignoring case.
type SubstituteResource[T any] struct {
	store    driven.SubstituteStore
	kind     string
	identity Identity[T]
	now      func() time.Time
}

// NewSubstituteResource creates a local resource.
func NewSubstituteResource[T any](store driven.SubstituteStore, kind string, identity Identity[T]) *SubstituteResource[T] {
	return &SubstituteResource[T]{store: store, kind: kind, identity: identity, now: time.Now}
}

// Get implements Resource.
func (s *SubstituteResource[T]) Get(id string) *Call[*T] {
	return NewCall(func(ctx context.Context, _ Request) (*T, error) {
		if err := s.check(id, "get"); err != nil {
			return nil, err
		}
		rec, err := s.store.Get(ctx, s.kind, id)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.kind, id, err)
		}
		return s.decode(rec)
	})
}

// Insert implements Resource. An empty id is replaced with a UUID.
func (s *SubstituteResource[T]) Insert(item *T) *Call[*T] {
	return NewCall(func(ctx context.Context, _ Request) (*T, error) {
		if item == nil {
			return nil, fmt.Errorf("%w: %s insert: nil item", domain.ErrInvalidInput, s.kind)
		}
		if s.store == nil {
			return nil, s.noStore()
		}
		out := *item
		id := s.identity.Get(&out)
		if id == "" {
			id = uuid.NewString()
			s.identity.Set(&out, id)
		}

		rec, err := s.record(id, &out)
		if err != nil {
			return nil, err
		}
		if err := s.store.Create(ctx, rec); err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.kind, id, err)
		}
		return &out, nil
	})
}

// Update implements Resource. The stored item is replaced; its id is
// forced to id.
func (s *SubstituteResource[T]) Update(id string, item *T) *Call[*T] {
	return NewCall(func(ctx context.Context, _ Request) (*T, error) {
		if err := s.check(id, "update"); err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %s update: nil item", domain.ErrInvalidInput, s.kind)
		}
		if _, err := s.store.Get(ctx, s.kind, id); err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.kind, id, err)
		}

		out := *item
		s.identity.Set(&out, id)
		return s.put(ctx, id, &out)
	})
}

// Delete implements Resource.
func (s *SubstituteResource[T]) Delete(id string) *Call[Empty] {
	return NewCall(func(ctx context.Context, _ Request) (Empty, error) {
		if err := s.check(id, "delete"); err != nil {
			return Empty{}, err
		}
		if err := s.store.Delete(ctx, s.kind, id); err != nil {
			return Empty{}, fmt.Errorf("%s %s: %w", s.kind, id, err)
		}
		return Empty{}, nil
	})
}

// List implements Resource.
func (s *SubstituteResource[T]) List() *ListCall[*T] {
	return NewListCall(func(ctx context.Context, req ListRequest) (*Page[*T], error) {
		if s.store == nil {
			return nil, s.noStore()
		}
		offset := 0
		if req.PageToken != "" {
			n, err := strconv.Atoi(req.PageToken)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: %s page token %q", domain.ErrInvalidInput, s.kind, req.PageToken)
			}
			offset = n
		}
		size := int(req.PageSize)
		if size <= 0 {
			size = DefaultSubstitutePageSize
		}

		records, err := s.store.List(ctx, s.kind)
		if err != nil {
			return nil, fmt.Errorf("%s list: %w", s.kind, err)
		}
		if req.Filter != "" {
			needle := strings.ToLower(req.Filter)
			var kept []domain.SubstituteRecord
			for _, rec := range records {
				if strings.Contains(strings.ToLower(string(rec.Data)), needle) {
					kept = append(kept, rec)
				}
			}
			records = kept
		}

		page := &Page[*T]{}
		if offset >= len(records) {
			return page, nil
		}
		end := min(offset+size, len(records))
		for i := offset; i < end; i++ {
			item, err := s.decode(&records[i])
			if err != nil {
				return nil, err
			}
			page.Items = append(page.Items, item)
		}
		if end < len(records) {
			page.NextPageToken = strconv.Itoa(end)
		}
		return page, nil
	})
}

// Download implements Resource. The content is the stored JSON document.
func (s *SubstituteResource[T]) Download(id string) *DownloadCall {
	return NewDownloadCall(func(ctx context.Context, _ Request) (*Download, error) {
		if err := s.check(id, "download"); err != nil {
			return nil, err
		}
		rec, err := s.store.Get(ctx, s.kind, id)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", s.kind, id, err)
		}
		data := rec.Data
		if s.identity.Sanitize != nil {
			item, err := s.decode(rec)
			if err != nil {
				return nil, err
			}
			if data, err = json.Marshal(item); err != nil {
				return nil, fmt.Errorf("%s %s: encode: %w", s.kind, id, err)
			}
		}
		return &Download{
			Body:        io.NopCloser(bytes.NewReader(data)),
			ContentType: "application/json",
			Name:        id + ".json",
		}, nil
	})
}

// Underlying returns the SubstituteStore.
func (s *SubstituteResource[T]) Underlying() any {
	return s.store
}

func (s *SubstituteResource[T]) put(ctx context.Context, id string, item *T) (*T, error) {
	rec, err := s.record(id, item)
	if err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s %s: %w", s.kind, id, err)
	}
	return item, nil
}

// record sanitizes item in place and encodes it.
func (s *SubstituteResource[T]) record(id string, item *T) (domain.SubstituteRecord, error) {
	if s.identity.Sanitize != nil {
		s.identity.Sanitize(item)
	}
	data, err := json.Marshal(item)
	if err != nil {
		return domain.SubstituteRecord{}, fmt.Errorf("%s %s: encode: %w", s.kind, id, err)
	}
	now := s.now().UTC()
	return domain.SubstituteRecord{Kind: s.kind, ID: id, Data: data, CreatedAt: now, UpdatedAt: now}, nil
}

func (s *SubstituteResource[T]) decode(rec *domain.SubstituteRecord) (*T, error) {
	var item T
	if err := json.Unmarshal(rec.Data, &item); err != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", s.kind, rec.ID, err)
	}
	if s.identity.Sanitize != nil {
		s.identity.Sanitize(&item)
	}
	return &item, nil
}

func (s *SubstituteResource[T]) check(id, op string) error {
	if s.store == nil {
		return s.noStore()
	}
	if id == "" {
		return fmt.Errorf("%w: %s %s: empty id", domain.ErrInvalidInput, s.kind, op)
	}
	return nil
}

func (s *SubstituteResource[T]) noStore() error {
	return fmt.Errorf("%w: %s: no substitute store configured", domain.ErrUnavailable, s.kind)
}
