package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/gfacade/internal/core/domain"
)

func TestCredentialsCmd_MasksKeyFiles(t *testing.T) {
	setupTestServices(t, map[string]any{
		"google.project_id":   "shared",
		"drive.json_key_file": "/secrets/drive.json",
	})

	out, _, err := run(t, "", "credentials", "drive")

	require.NoError(t, err)
	assert.Contains(t, out, `"project_id": "shared"`)
	assert.Contains(t, out, `"json_key_file": "(set)"`)
	assert.NotContains(t, out, "/secrets/drive.json")
	assert.Contains(t, out, "credential kind: json_key, substitute: false")
}

func TestCredentialsCmd_ListsPrefixes(t *testing.T) {
	setupTestServices(t, map[string]any{
		"google.project_id": "shared",
		"pubsub.retries":    int64(2),
	})

	out, _, err := run(t, "", "credentials")

	require.NoError(t, err)
	assert.Contains(t, out, "google\n")
	assert.Contains(t, out, "pubsub\n")
}

func TestCredentialsCmd_NoneConfigured(t *testing.T) {
	setupTestServices(t, nil)

	out, _, err := run(t, "", "credentials")

	require.NoError(t, err)
	assert.Contains(t, out, "No credentials configured.")
}

func TestCredentialsCmd_InvalidSettings(t *testing.T) {
	setupTestServices(t, map[string]any{"drive.service_account": "svc@example.com"})

	_, _, err := run(t, "", "credentials", "drive")

	assert.ErrorIs(t, err, domain.ErrMissingProperty)
}
