// Package agent is the client for the migration agent API, a JSON REST
// service reached through the same authorized transport as the Google APIs.
package agent

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/custodia-labs/gfacade/internal/connectors/google"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

// Substitute record kinds.
const (
	KindAgents     = "agent/agents"
	KindMigrations = "agent/migrations"
)

// Facade exposes the agent API resources.
type Facade struct {
	deps   google.Deps
	client *restClient
}

// New creates the agent facade. The remote API has no public default
// endpoint, so <prefix>.endpoint must be set unless substituted.
func New(_ context.Context, deps google.Deps) (*Facade, error) {
	f := &Facade{deps: deps}
	if deps.Local {
		return f, nil
	}
	var endpoint, userAgent string
	if deps.Settings != nil {
		endpoint = deps.Settings.Endpoint
		userAgent = deps.Settings.ApplicationName
	}
	client, err := newRESTClient(endpoint, deps.HTTPClient, userAgent)
	if err != nil {
		return nil, err
	}
	f.client = client
	return f, nil
}

var agentIdentity = google.Identity[domain.Agent]{
	Get: func(a *domain.Agent) string { return a.ID },
	Set: func(a *domain.Agent, id string) { a.ID = id },
}

var migrationIdentity = google.Identity[domain.MigrationJob]{
	Get: func(m *domain.MigrationJob) string { return m.ID },
	Set: func(m *domain.MigrationJob, id string) { m.ID = id },
}

// Agents returns the registered agents. Agents register themselves, so
// Insert is unsupported.
func (f *Facade) Agents() google.Resource[domain.Agent] {
	return google.Resolve(f.deps, KindAgents, agentIdentity, f.remoteAgents)
}

// Migrations returns the migration jobs.
func (f *Facade) Migrations() google.Resource[domain.MigrationJob] {
	return google.Resolve(f.deps, KindMigrations, migrationIdentity, f.remoteMigrations)
}

// Cancel stops a running migration and returns its final state.
func (f *Facade) Cancel(ctx context.Context, id string) (*domain.MigrationJob, error) {
	if f.client == nil {
		return nil, google.Unsupported(KindMigrations, "cancel")
	}
	if id == "" {
		return nil, fmt.Errorf("%w: %s cancel: empty id", domain.ErrInvalidInput, KindMigrations)
	}
	var out migration
	if err := f.client.do(ctx, http.MethodPost, "v1/migrations/"+url.PathEscape(id)+":cancel", nil, struct{}{}, &out); err != nil {
		return nil, fmt.Errorf("%s cancel %s: %w", KindMigrations, id, google.WrapError(err))
	}
	return MigrationMapper.Local(&out), nil
}

func (f *Facade) remoteAgents() google.Resource[domain.Agent] {
	c := f.client
	ops := google.Operations[*agent]{
		Get: func(ctx context.Context, id string, req google.Request) (*agent, error) {
			return call[agent](ctx, c, http.MethodGet, agentPath(id), req.Query(), nil)
		},
		Update: func(ctx context.Context, id string, item *agent, req google.Request) (*agent, error) {
			item.ID = ""
			return call[agent](ctx, c, http.MethodPatch, agentPath(id), req.Query(), item)
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			return c.do(ctx, http.MethodDelete, agentPath(id), req.Query(), nil, nil)
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*agent, string, error) {
			var out struct {
				Agents        []*agent `json:"agents"`
				NextPageToken string   `json:"nextPageToken"`
			}
			if err := c.do(ctx, http.MethodGet, "v1/agents", listQuery(req), nil, &out); err != nil {
				return nil, "", err
			}
			return out.Agents, out.NextPageToken, nil
		},
	}
	return google.NewResourceAdapter(KindAgents, c.http, ops, AgentMapper)
}

func (f *Facade) remoteMigrations() google.Resource[domain.MigrationJob] {
	c := f.client
	ops := google.Operations[*migration]{
		Get: func(ctx context.Context, id string, req google.Request) (*migration, error) {
			return call[migration](ctx, c, http.MethodGet, migrationPath(id), req.Query(), nil)
		},
		Insert: func(ctx context.Context, item *migration, req google.Request) (*migration, error) {
			return call[migration](ctx, c, http.MethodPost, "v1/migrations", req.Query(), item)
		},
		Update: func(ctx context.Context, id string, item *migration, req google.Request) (*migration, error) {
			item.ID = ""
			return call[migration](ctx, c, http.MethodPatch, migrationPath(id), req.Query(), item)
		},
		Delete: func(ctx context.Context, id string, req google.Request) error {
			return c.do(ctx, http.MethodDelete, migrationPath(id), req.Query(), nil, nil)
		},
		List: func(ctx context.Context, req google.ListRequest) ([]*migration, string, error) {
			var out struct {
				Migrations    []*migration `json:"migrations"`
				NextPageToken string       `json:"nextPageToken"`
			}
			if err := c.do(ctx, http.MethodGet, "v1/migrations", listQuery(req), nil, &out); err != nil {
				return nil, "", err
			}
			return out.Migrations, out.NextPageToken, nil
		},
		Download: func(ctx context.Context, id string, req google.Request) (*google.Download, error) {
			resp, err := c.send(ctx, http.MethodGet, migrationPath(id)+":report", req.Query(), nil)
			if err != nil {
				return nil, err
			}
			return &google.Download{
				Body:        resp.Body,
				ContentType: resp.Header.Get("Content-Type"),
				Name:        id + "-report",
			}, nil
		},
	}
	return google.NewResourceAdapter(KindMigrations, c.http, ops, MigrationMapper)
}

// call performs a JSON round trip decoding into a new T.
func call[T any](ctx context.Context, c *restClient, method, path string, query url.Values, in any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, query, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func agentPath(id string) string {
	return "v1/agents/" + url.PathEscape(id)
}

func migrationPath(id string) string {
	return "v1/migrations/" + url.PathEscape(id)
}

func listQuery(req google.ListRequest) url.Values {
	q := req.Query()
	if req.PageSize > 0 {
		q.Set("pageSize", strconv.FormatInt(req.PageSize, 10))
	}
	if req.PageToken != "" {
		q.Set("pageToken", req.PageToken)
	}
	if req.Filter != "" {
		q.Set("filter", req.Filter)
	}
	return q
}
