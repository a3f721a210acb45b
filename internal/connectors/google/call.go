package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"

	"google.golang.org/api/googleapi"
)

// ErrPageTokenLoop is returned by Pages when the server hands back the token
// it was just given.
var ErrPageTokenLoop = errors.New("google: next page token repeats current token")

// Request carries per-call options into an operation.
type Request struct {
	// Params are extra query parameters.
	Params url.Values
	// Fields restricts the response to a partial projection.
	Fields []googleapi.Field
}

// CallOptions renders the request as googleapi call options, usable with
// the Do method of every generated client call.
func (r Request) CallOptions() []googleapi.CallOption {
	keys := make([]string, 0, len(r.Params))
	for k := range r.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	opts := make([]googleapi.CallOption, 0, len(keys)+1)
	for _, k := range keys {
		opts = append(opts, googleapi.QueryParameter(k, r.Params[k]...))
	}
	if len(r.Fields) > 0 {
		opts = append(opts, googleapi.QueryParameter("fields", string(googleapi.CombineFields(r.Fields))))
	}
	return opts
}

// Query renders the request as URL query values.
func (r Request) Query() url.Values {
	q := url.Values{}
	for k, vs := range r.Params {
		q[k] = append([]string(nil), vs...)
	}
	if len(r.Fields) > 0 {
		q.Set("fields", string(googleapi.CombineFields(r.Fields)))
	}
	return q
}

func (r Request) with(key, value string) Request {
	params := url.Values{}
	for k, vs := range r.Params {
		params[k] = vs
	}
	params.Add(key, value)
	r.Params = params
	return r
}

// Empty is the result of calls that return no content.
type Empty struct{}

// Call is a pending request for a single item. Nothing is sent until Do.
type Call[T any] struct {
	ctx context.Context
	req Request
	do  func(ctx context.Context, req Request) (T, error)
}

// NewCall creates a call that runs do.
func NewCall[T any](do func(ctx context.Context, req Request) (T, error)) *Call[T] {
	return &Call[T]{do: do}
}

// FailedCall creates a call whose Do returns err.
func FailedCall[T any](err error) *Call[T] {
	return NewCall(func(context.Context, Request) (T, error) {
		var zero T
		return zero, err
	})
}

// Context sets the context for the call.
func (c *Call[T]) Context(ctx context.Context) *Call[T] {
	c.ctx = ctx
	return c
}

// Param adds a query parameter.
func (c *Call[T]) Param(key, value string) *Call[T] {
	c.req = c.req.with(key, value)
	return c
}

// Fields requests a partial response.
func (c *Call[T]) Fields(fields ...googleapi.Field) *Call[T] {
	c.req.Fields = append(c.req.Fields, fields...)
	return c
}

// Do executes the call.
func (c *Call[T]) Do() (T, error) {
	return c.do(contextOrBackground(c.ctx), c.req)
}

// ListRequest carries paging options into a list operation.
type ListRequest struct {
	Request
	// PageSize is the maximum number of items. Zero uses the API default.
	PageSize int64
	// PageToken resumes from a previous page.
	PageToken string
	// Filter is passed through in the API's own query syntax.
	Filter string
}

// Page is one page of a list result.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

// ListCall is a pending list request.
type ListCall[T any] struct {
	ctx context.Context
	req ListRequest
	do  func(ctx context.Context, req ListRequest) (*Page[T], error)
}

// NewListCall creates a list call that runs do.
func NewListCall[T any](do func(ctx context.Context, req ListRequest) (*Page[T], error)) *ListCall[T] {
	return &ListCall[T]{do: do}
}

// FailedListCall creates a list call whose Do returns err.
func FailedListCall[T any](err error) *ListCall[T] {
	return NewListCall(func(context.Context, ListRequest) (*Page[T], error) {
		return nil, err
	})
}

// Context sets the context for the call.
func (c *ListCall[T]) Context(ctx context.Context) *ListCall[T] {
	c.ctx = ctx
	return c
}

// Param adds a query parameter.
func (c *ListCall[T]) Param(key, value string) *ListCall[T] {
	c.req.Request = c.req.with(key, value)
	return c
}

// Fields requests a partial response.
func (c *ListCall[T]) Fields(fields ...googleapi.Field) *ListCall[T] {
	c.req.Fields = append(c.req.Fields, fields...)
	return c
}

// PageSize sets the maximum number of items per page.
func (c *ListCall[T]) PageSize(n int64) *ListCall[T] {
	c.req.PageSize = n
	return c
}

// PageToken resumes listing from a previous page.
func (c *ListCall[T]) PageToken(token string) *ListCall[T] {
	c.req.PageToken = token
	return c
}

// Filter restricts the items returned.
func (c *ListCall[T]) Filter(filter string) *ListCall[T] {
	c.req.Filter = filter
	return c
}

// Do fetches a single page.
func (c *ListCall[T]) Do() (*Page[T], error) {
	return c.do(contextOrBackground(c.ctx), c.req)
}

// Pages calls fn for every page, starting at the configured page token.
// Returning an error from fn stops iteration with that error.
func (c *ListCall[T]) Pages(fn func(*Page[T]) error) error {
	ctx := contextOrBackground(c.ctx)
	req := c.req
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := c.do(ctx, req)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if page.NextPageToken == "" {
			return nil
		}
		if page.NextPageToken == req.PageToken {
			return fmt.Errorf("%w: %q", ErrPageTokenLoop, page.NextPageToken)
		}
		req.PageToken = page.NextPageToken
	}
}

// Download is the content of an item. The caller closes Body.
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Name        string
}

// DownloadCall is a pending content download.
type DownloadCall struct {
	ctx context.Context
	req Request
	do  func(ctx context.Context, req Request) (*Download, error)
}

// NewDownloadCall creates a download call that runs do.
func NewDownloadCall(do func(ctx context.Context, req Request) (*Download, error)) *DownloadCall {
	return &DownloadCall{do: do}
}

// FailedDownloadCall creates a download call whose Do returns err.
func FailedDownloadCall(err error) *DownloadCall {
	return NewDownloadCall(func(context.Context, Request) (*Download, error) {
		return nil, err
	})
}

// Context sets the context for the call.
func (c *DownloadCall) Context(ctx context.Context) *DownloadCall {
	c.ctx = ctx
	return c
}

// Param adds a query parameter.
func (c *DownloadCall) Param(key, value string) *DownloadCall {
	c.req = c.req.with(key, value)
	return c
}

// Do starts the download.
func (c *DownloadCall) Do() (*Download, error) {
	return c.do(contextOrBackground(c.ctx), c.req)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
