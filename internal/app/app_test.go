package app

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/gfacade/internal/core/domain"
)

func newApp(t *testing.T, values map[string]any) *App {
	t.Helper()
	a, err := New(Options{Config: memory.NewConfigStoreFrom(values)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_Resources(t *testing.T) {
	a := newApp(t, nil)

	var keys []string
	for _, info := range a.Facade.Resources() {
		keys = append(keys, info.Ref.Key())
	}

	assert.Equal(t, []string{
		"agent/agents",
		"agent/migrations",
		"analytics/accounts",
		"analytics/webproperties",
		"drive/files",
		"firebase/users",
		"identitytoolkit/users",
		"pubsub/subscriptions",
		"pubsub/topics",
		"sheets/spreadsheets",
		"sheets/values",
	}, keys)
}

func TestApp_SubstituteWithoutCredentials(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()
	files := domain.ResourceRef{API: domain.APIDrive, Resource: "files"}

	created, err := a.Facade.Insert(ctx, files, json.RawMessage(`{"id":"f1","name":"notes.txt"}`))
	require.NoError(t, err)
	assert.Contains(t, string(created), `"notes.txt"`)

	got, err := a.Facade.Get(ctx, files, "f1")
	require.NoError(t, err)
	assert.JSONEq(t, string(created), string(got))

	page, err := a.Facade.List(ctx, files, domain.ListOptions{All: true})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	var buf bytes.Buffer
	contentType, err := a.Facade.Download(ctx, files, "f1", &buf)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	require.NoError(t, a.Facade.Delete(ctx, files, "f1"))
	_, err = a.Facade.Get(ctx, files, "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_ParentScopesSubstitute(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()
	values := domain.ResourceRef{API: domain.APISheets, Resource: "values"}

	_, err := a.Facade.Get(ctx, values, "A1:B2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	values.Parent = "s1"
	_, err = a.Facade.Insert(ctx, values, json.RawMessage(`{"range":"A1:B2","values":[["a","b"]]}`))
	require.NoError(t, err)

	values.Parent = "s2"
	_, err = a.Facade.Get(ctx, values, "A1:B2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApp_UnknownResource(t *testing.T) {
	a := newApp(t, nil)

	_, err := a.Facade.Get(context.Background(), domain.ResourceRef{API: "drive", Resource: "nope"}, "x")

	assert.ErrorIs(t, err, domain.ErrUnknownAPI)
}

func TestApp_DataDirPersists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	topics := domain.ResourceRef{API: domain.APIPubSub, Resource: "topics"}

	a, err := New(Options{Config: memory.NewConfigStore(), DataDir: dir})
	require.NoError(t, err)
	_, err = a.Facade.Insert(ctx, topics, json.RawMessage(`{"id":"orders","labels":{"team":"billing"}}`))
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := New(Options{Config: memory.NewConfigStore(), DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	got, err := b.Facade.Get(ctx, topics, "orders")
	require.NoError(t, err)
	assert.Contains(t, string(got), `"billing"`)
}

func TestApp_RemoteThroughInterceptor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/agents/a1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a1","displayName":"edge","status":"ONLINE"}`))
	}))
	t.Cleanup(srv.Close)

	a := newApp(t, map[string]any{
		"agent.endpoint":   srv.URL + "/api",
		"agent.substitute": "off",
		"agent.retries":    int64(0),
	})

	got, err := a.Facade.Get(context.Background(), domain.ResourceRef{API: domain.APIAgent, Resource: "agents"}, "a1")

	require.NoError(t, err)
	assert.Contains(t, string(got), `"edge"`)
	requests, _, failures := a.Stats.Snapshot()
	assert.Equal(t, 1, requests)
	assert.Zero(t, failures)
}

func TestApp_FacadeCachedUntilReset(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()

	first, err := a.Drive(ctx)
	require.NoError(t, err)
	again, err := a.Drive(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)

	a.Reset()

	fresh, err := a.Drive(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
}

func TestApp_InvalidSettingsNotCached(t *testing.T) {
	cfg := memory.NewConfigStoreFrom(map[string]any{"pubsub.substitute": "sometimes"})
	a, err := New(Options{Config: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	ctx := context.Background()

	_, err = a.PubSub(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, cfg.Set("pubsub.substitute", "on"))
	f, err := a.PubSub(ctx)
	require.NoError(t, err)
	assert.NotNil(t, f)
}

func TestApp_WatchWithoutWatcher(t *testing.T) {
	a := newApp(t, nil)

	assert.NoError(t, a.Watch(context.Background()))
}

func TestApp_MessagingNeedsRemote(t *testing.T) {
	a := newApp(t, nil)
	ctx := context.Background()

	_, err := a.Messaging().Publish(ctx, "orders", domain.Message{Data: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)

	_, err = a.Migrations().Cancel(ctx, "m1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestApp_WatchResetsFacades(t *testing.T) {
	dir := t.TempDir()
	a, err := New(Options{ConfigDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx) }()

	_, err = a.Drive(ctx)
	require.NoError(t, err)

	path := filepath.Join(dir, "config.toml")
	assert.Eventually(t, func() bool {
		// Rewrite until the watcher has been added.
		if err := os.WriteFile(path, []byte("[drive]\nsubstitute = \"on\"\n"), 0o600); err != nil {
			return false
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		return len(a.facades) == 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

// serviceAccountKey writes a JSON key whose token_uri points at a local
// token endpoint.
func serviceAccountKey(t *testing.T) string {
	t.Helper()
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"sa-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokens.Close)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	data, err := json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   "acme",
		"private_key":  string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})),
		"client_email": "agent@acme.iam.gserviceaccount.com",
		"token_uri":    tokens.URL,
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestApp_FacadeOutlivesFirstRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sa-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a1","displayName":"edge"}`))
	}))
	t.Cleanup(srv.Close)

	a := newApp(t, map[string]any{
		"agent.endpoint":      srv.URL,
		"agent.json_key_file": serviceAccountKey(t),
		"agent.retries":       int64(0),
	})
	agents := domain.ResourceRef{API: domain.APIAgent, Resource: "agents"}

	first, cancel := context.WithCancel(context.Background())
	_, err := a.Facade.Get(first, agents, "a1")
	require.NoError(t, err)
	cancel()

	got, err := a.Facade.Get(context.Background(), agents, "a1")

	require.NoError(t, err)
	assert.Contains(t, string(got), `"edge"`)
}

func TestApp_CancelledContextBeforeBuild(t *testing.T) {
	a := newApp(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Drive(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
