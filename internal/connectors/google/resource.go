package google

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"time"

	"google.golang.org/api/option"

	"github.com/custodia-labs/gfacade/internal/core/domain"
	"github.com/custodia-labs/gfacade/internal/core/ports/driven"
)

// Resource is the uniform request builder over one collection of a wrapped
// API. T is the local model type.
type Resource[T any] interface {
	Get(id string) *Call[*T]
	Insert(item *T) *Call[*T]
	Update(id string, item *T) *Call[*T]
	Delete(id string) *Call[Empty]
	List() *ListCall[*T]
	Download(id string) *DownloadCall

	// Underlying returns the wrapped client: the generated service call
	// group for remote resources, the SubstituteStore for local ones.
	Underlying() any
}

// Deps are the shared dependencies every API facade is built from.
type Deps struct {
	Settings   *domain.CredentialSettings
	HTTPClient *http.Client
	Store      driven.SubstituteStore
	// Local serves the API from Store instead of the remote service.
	Local bool
	// Options are appended to the generated client options.
	Options []option.ClientOption
}

// ClientOptions returns the options for generated API clients.
func (d Deps) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if d.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(d.HTTPClient))
	}
	if d.Settings != nil {
		if d.Settings.Endpoint != "" {
			opts = append(opts, option.WithEndpoint(d.Settings.Endpoint))
		}
		if d.Settings.ApplicationName != "" {
			opts = append(opts, option.WithUserAgent(d.Settings.ApplicationName))
		}
	}
	return append(opts, d.Options...)
}

// Operations are the remote calls behind a ResourceAdapter. A nil
// operation is reported as unsupported.
type Operations[R any] struct {
	Get      func(ctx context.Context, id string, req Request) (R, error)
	Insert   func(ctx context.Context, item R, req Request) (R, error)
	Update   func(ctx context.Context, id string, item R, req Request) (R, error)
	Delete   func(ctx context.Context, id string, req Request) error
	List     func(ctx context.Context, req ListRequest) ([]R, string, error)
	Download func(ctx context.Context, id string, req Request) (*Download, error)
}

// Mapper converts between the wire type R and the local model T.
type Mapper[R, T any] interface {
	Local(remote R) *T
	Remote(local *T) R
}

// MapperFuncs adapts a pair of functions to Mapper.
type MapperFuncs[R, T any] struct {
	ToLocal  func(R) *T
	ToRemote func(*T) R
}

// Local implements Mapper.
func (m MapperFuncs[R, T]) Local(remote R) *T { return m.ToLocal(remote) }

// Remote implements Mapper.
func (m MapperFuncs[R, T]) Remote(local *T) R { return m.ToRemote(local) }

// ParseTime parses an RFC 3339 timestamp, returning the zero time for empty
// or malformed input.
func ParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ResourceAdapter implements Resource over remote operations, mapping every
// item through Mapper and every error through WrapError.
type ResourceAdapter[R, T any] struct {
	name       string
	underlying any
	ops        Operations[R]
	mapper     Mapper[R, T]
}

// NewResourceAdapter creates a remote resource. name is used in errors,
// e.g. "drive/files".
func NewResourceAdapter[R, T any](name string, underlying any, ops Operations[R], mapper Mapper[R, T]) *ResourceAdapter[R, T] {
	return &ResourceAdapter[R, T]{name: name, underlying: underlying, ops: ops, mapper: mapper}
}

// Get implements Resource.
func (a *ResourceAdapter[R, T]) Get(id string) *Call[*T] {
	if a.ops.Get == nil {
		return FailedCall[*T](a.unsupported("get"))
	}
	if id == "" {
		return FailedCall[*T](a.missingID("get"))
	}
	return NewCall(func(ctx context.Context, req Request) (*T, error) {
		remote, err := a.ops.Get(ctx, id, req)
		return a.local(remote, err, id)
	})
}

// Insert implements Resource.
func (a *ResourceAdapter[R, T]) Insert(item *T) *Call[*T] {
	if a.ops.Insert == nil {
		return FailedCall[*T](a.unsupported("insert"))
	}
	if item == nil {
		return FailedCall[*T](fmt.Errorf("%w: %s insert: nil item", domain.ErrInvalidInput, a.name))
	}
	return NewCall(func(ctx context.Context, req Request) (*T, error) {
		remote, err := a.ops.Insert(ctx, a.mapper.Remote(item), req)
		return a.local(remote, err, "")
	})
}

// Update implements Resource.
func (a *ResourceAdapter[R, T]) Update(id string, item *T) *Call[*T] {
	if a.ops.Update == nil {
		return FailedCall[*T](a.unsupported("update"))
	}
	if id == "" {
		return FailedCall[*T](a.missingID("update"))
	}
	if item == nil {
		return FailedCall[*T](fmt.Errorf("%w: %s update: nil item", domain.ErrInvalidInput, a.name))
	}
	return NewCall(func(ctx context.Context, req Request) (*T, error) {
		remote, err := a.ops.Update(ctx, id, a.mapper.Remote(item), req)
		return a.local(remote, err, id)
	})
}

// Delete implements Resource.
func (a *ResourceAdapter[R, T]) Delete(id string) *Call[Empty] {
	if a.ops.Delete == nil {
		return FailedCall[Empty](a.unsupported("delete"))
	}
	if id == "" {
		return FailedCall[Empty](a.missingID("delete"))
	}
	return NewCall(func(ctx context.Context, req Request) (Empty, error) {
		if err := a.ops.Delete(ctx, id, req); err != nil {
			return Empty{}, fmt.Errorf("%s delete %s: %w", a.name, id, WrapError(err))
		}
		return Empty{}, nil
	})
}

// List implements Resource.
func (a *ResourceAdapter[R, T]) List() *ListCall[*T] {
	if a.ops.List == nil {
		return FailedListCall[*T](a.unsupported("list"))
	}
	return NewListCall(func(ctx context.Context, req ListRequest) (*Page[*T], error) {
		remotes, next, err := a.ops.List(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("%s list: %w", a.name, WrapError(err))
		}
		page := &Page[*T]{Items: make([]*T, 0, len(remotes)), NextPageToken: next}
		for _, r := range remotes {
			if isNil(r) {
				continue
			}
			page.Items = append(page.Items, a.mapper.Local(r))
		}
		return page, nil
	})
}

// Download implements Resource.
func (a *ResourceAdapter[R, T]) Download(id string) *DownloadCall {
	if a.ops.Download == nil {
		return FailedDownloadCall(a.unsupported("download"))
	}
	if id == "" {
		return FailedDownloadCall(a.missingID("download"))
	}
	return NewDownloadCall(func(ctx context.Context, req Request) (*Download, error) {
		d, err := a.ops.Download(ctx, id, req)
		if err != nil {
			return nil, fmt.Errorf("%s download %s: %w", a.name, id, WrapError(err))
		}
		return d, nil
	})
}

// Underlying implements Resource.
func (a *ResourceAdapter[R, T]) Underlying() any {
	return a.underlying
}

func (a *ResourceAdapter[R, T]) local(remote R, err error, id string) (*T, error) {
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", a.name, id, WrapError(err))
	}
	if isNil(remote) {
		return nil, fmt.Errorf("%s %s: %w", a.name, id, domain.ErrNotFound)
	}
	return a.mapper.Local(remote), nil
}

func (a *ResourceAdapter[R, T]) unsupported(op string) error {
	return Unsupported(a.name, op)
}

func (a *ResourceAdapter[R, T]) missingID(op string) error {
	return fmt.Errorf("%w: %s %s: empty id", domain.ErrInvalidInput, a.name, op)
}

// Unsupported reports an operation a resource has no equivalent for.
func Unsupported(name, op string) error {
	return fmt.Errorf("%w: %s on %s", domain.ErrUnsupportedOperation, op, name)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// Resolve picks between the local substitute and the remote resource.
// remote is only called when the API is not substituted.
func Resolve[T any](deps Deps, kind string, identity Identity[T], remote func() Resource[T]) Resource[T] {
	if deps.Local {
		return NewSubstituteResource(deps.Store, kind, identity)
	}
	return remote()
}
