package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/services"
)

func TestConfigCmd_Show(t *testing.T) {
	path := writeConfig(t, "[router]\naddr = \":9090\"\n")

	out, err := execute(t, "config", "show", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "router.addr = :9090")
	assert.Contains(t, out, "router.upstream_timeout = 10s")
	assert.Contains(t, out, "content.requests_per_second = 0")
	assert.Contains(t, out, "log.format = text")
}

func TestConfigCmd_ShowIsDefault(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "config", "--config", path)

	require.NoError(t, err)
	assert.Contains(t, out, "search.addr = :8081")
}

func TestConfigCmd_Set(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "config", "set", "search.incremental_interval", "30s", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "search.incremental_interval = 30s\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[search]")

	out, err = execute(t, "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "search.incremental_interval = 30s")
}

func TestConfigCmd_SetInvalid(t *testing.T) {
	path := writeConfig(t, "")

	_, err := execute(t, "config", "set", "router.frontend_url", "not a url", "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "config", "set", "no.such.key", "1", "--config", path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigCmd_InvalidFile(t *testing.T) {
	path := writeConfig(t, "[log]\nformat = \"xml\"\n")

	_, err := execute(t, "config", "show", "--config", path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigCmd_Path(t *testing.T) {
	path := writeConfig(t, "")

	out, err := execute(t, "config", "path", "--config", path)

	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}

func TestConfigValues_CoversEveryKey(t *testing.T) {
	settings := services.NewSettingsService(memory.NewConfigStore())
	values := configValues(domain.DefaultConfig())

	assert.Len(t, values, len(settings.Keys()))
	for _, key := range settings.Keys() {
		assert.Contains(t, values, key)
	}
}
