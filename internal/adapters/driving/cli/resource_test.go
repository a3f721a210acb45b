package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "body.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestResourceCmds_Args(t *testing.T) {
	assert.Equal(t, "get <api> <resource> <id>", getCmd.Use)
	assert.Equal(t, "list <api> <resource>", listCmd.Use)

	_, _, err := run(t, "", "get", "drive", "files")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 3 arg(s)")
}

func TestResourceCmds_EveryCommandTakesParent(t *testing.T) {
	for _, c := range []string{"get", "delete", "list", "insert", "update", "download"} {
		cmd, _, err := rootCmd.Find([]string{c})
		require.NoError(t, err)
		assert.NotNil(t, cmd.Flags().Lookup("parent"), c)
	}
}

func TestInsertGetUpdateDelete(t *testing.T) {
	setupTestServices(t, nil)

	out, _, err := run(t, "", "insert", "drive", "files", "--file", writeFile(t, `{"id":"f1","name":"draft.txt"}`))
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "draft.txt"`)

	out, _, err = run(t, "", "get", "drive", "files", "f1")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "f1"`)

	out, _, err = run(t, "", "update", "drive", "files", "f1", "-f", writeFile(t, `{"name":"final.txt"}`))
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "final.txt"`)
	assert.Contains(t, out, `"id": "f1"`)

	out, _, err = run(t, "", "delete", "drive", "files", "f1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted drive/files f1")

	_, _, err = run(t, "", "get", "drive", "files", "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInsert_FromStdin(t *testing.T) {
	setupTestServices(t, nil)

	out, _, err := run(t, `{"id":"t1","labels":{"env":"dev"}}`, "insert", "pubsub", "topics", "--file", "-")

	require.NoError(t, err)
	assert.Contains(t, out, `"env": "dev"`)
}

func TestInsert_RequiresFile(t *testing.T) {
	setupTestServices(t, nil)

	_, _, err := run(t, "", "insert", "drive", "files")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"file" not set`)
}

func TestInsert_InvalidJSON(t *testing.T) {
	setupTestServices(t, nil)

	_, _, err := run(t, "{not json", "insert", "drive", "files", "--file", "-")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestList_PagesAndAll(t *testing.T) {
	setupTestServices(t, nil)
	for _, id := range []string{"a", "b", "c"} {
		_, _, err := run(t, `{"id":"`+id+`","name":"`+id+`"}`, "insert", "drive", "files", "-f", "-")
		require.NoError(t, err)
	}

	out, _, err := run(t, "", "list", "drive", "files", "--page-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"next_page_token": "2"`)

	out, _, err = run(t, "", "list", "drive", "files", "--page-size", "2", "--page-token", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "c"`)
	assert.NotContains(t, out, "next_page_token")

	out, _, err = run(t, "", "list", "drive", "files", "--page-size", "1", "--all")
	require.NoError(t, err)
	for _, id := range []string{"a", "b", "c"} {
		assert.Contains(t, out, `"id": "`+id+`"`)
	}
	assert.NotContains(t, out, "next_page_token")
}

func TestList_Filter(t *testing.T) {
	setupTestServices(t, nil)
	_, _, err := run(t, `{"id":"a","name":"Budget 2025"}`, "insert", "drive", "files", "-f", "-")
	require.NoError(t, err)
	_, _, err = run(t, `{"id":"b","name":"notes"}`, "insert", "drive", "files", "-f", "-")
	require.NoError(t, err)

	out, _, err := run(t, "", "list", "drive", "files", "--filter", "budget")

	require.NoError(t, err)
	assert.Contains(t, out, "Budget 2025")
	assert.NotContains(t, out, "notes")
}

func TestParent(t *testing.T) {
	setupTestServices(t, nil)

	_, _, err := run(t, `{"range":"A1:B1","values":[["x","y"]]}`, "insert", "sheets", "values", "-f", "-")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = run(t, `{"range":"A1:B1","values":[["x","y"]]}`, "insert", "sheets", "values", "--parent", "s1", "-f", "-")
	require.NoError(t, err)

	out, _, err := run(t, "", "get", "sheets", "values", "A1:B1", "--parent", "s1")
	require.NoError(t, err)
	assert.Contains(t, out, `"x"`)
}

func TestUnknownAPI(t *testing.T) {
	setupTestServices(t, nil)

	_, _, err := run(t, "", "get", "calendar", "events", "e1")
	assert.ErrorIs(t, err, domain.ErrUnknownAPI)

	_, _, err = run(t, "", "get", "drive", "folders", "e1")
	assert.ErrorIs(t, err, domain.ErrUnknownAPI)
}

func TestDownload(t *testing.T) {
	setupTestServices(t, nil)
	_, _, err := run(t, `{"id":"f1","name":"report"}`, "insert", "drive", "files", "-f", "-")
	require.NoError(t, err)

	out, _, err := run(t, "", "download", "drive", "files", "f1")
	require.NoError(t, err)
	assert.Contains(t, out, `"report"`)

	path := filepath.Join(t.TempDir(), "f1.json")
	out, _, err = run(t, "", "download", "drive", "files", "f1", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+path+" (application/json)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"report"`)
}

func TestResourcesCmd(t *testing.T) {
	setupTestServices(t, nil)

	out, _, err := run(t, "", "resources")

	require.NoError(t, err)
	assert.Contains(t, out, "drive/files")
	assert.Regexp(t, `sheets/values\s+--parent`, out)
	assert.Regexp(t, `analytics/webproperties\s+--parent`, out)
}
