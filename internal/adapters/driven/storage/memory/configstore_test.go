package memory

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore(t *testing.T) {
	store := NewConfigStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.values)
	assert.Equal(t, ":memory:", store.Path())
}

func TestNewConfigStoreFrom(t *testing.T) {
	seed := map[string]any{"drive.project_id": "acme", "google.retries": int64(4)}
	store := NewConfigStoreFrom(seed)

	assert.Equal(t, "acme", store.GetString("drive.project_id"))
	retries, ok := store.Get("google.retries")
	assert.True(t, ok)
	assert.Equal(t, int64(4), retries)

	// Seed map is copied
	seed["drive.project_id"] = "changed"
	assert.Equal(t, "acme", store.GetString("drive.project_id"))
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("key1", "value1"))

	val, ok := store.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "value1", val)

	_, ok = store.Get("missing")
	assert.False(t, ok)
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"int": 7, "str": "x"})

	assert.Equal(t, "x", store.GetString("str"))
	assert.Equal(t, "", store.GetString("int"))
	assert.Equal(t, "", store.GetString("missing"))
}

func TestConfigStore_Keys(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"b.x": 1, "a.y": 2})

	keys := store.Keys()
	sort.Strings(keys)

	assert.Equal(t, []string{"a.y", "b.x"}, keys)
}

func TestConfigStore_SaveLoad_NoOp(t *testing.T) {
	store := NewConfigStoreFrom(map[string]any{"k": "v"})

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("shared", i)
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get("shared")
			_ = store.Keys()
		}()
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}
