package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
environment: test
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "builtin", c.Ephemeris.Provider)
	assert.Equal(t, "memory", c.Cache.Backend)
	assert.Equal(t, 24*time.Hour, c.Search.Step.Std())
	assert.Equal(t, 0.0001, c.Search.Tolerance)
	assert.Equal(t, 100, c.Search.MaxIterations)
	assert.Equal(t, 4, c.Search.Workers)
}

func TestLoadParsesDurations(t *testing.T) {
	c, err := Load(writeConfig(t, `
environment: test
server:
  read_timeout: 15s
search:
  step: 6h
  dedup_window: 5m
`))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout.Std())
	assert.Equal(t, 6*time.Hour, c.Search.Step.Std())
	assert.Equal(t, 5*time.Minute, c.Search.DedupWindow.Std())
}

func TestLoadRejectsMissingEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, `server: {port: 1}`))
	assert.Error(t, err)
}

func TestLoadRejectsSidecarWithoutURL(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
ephemeris:
  provider: sidecar
`))
	assert.Error(t, err)
}

func TestLoadRejectsEventsWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
events:
  enabled: true
  topic: transit-events
`))
	assert.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("EPHEMERIS_PROVIDER", "sidecar")
	t.Setenv("EPHEMERIS_SIDECAR_URL", "http://ephemeris:8000")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "sidecar", c.Ephemeris.Provider)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Events.Brokers)
}
