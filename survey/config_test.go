package survey

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DurationAcademic, cfg.DurationConvention)
	assert.Equal(t, 300, cfg.Source.RefreshSeconds)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadConfigYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sleepsurvey.yaml", `
durationConvention: sleep-pattern
tablesFile: tables.yaml
source:
  location: https://example.org/export.csv
  refreshSeconds: 60
server:
  port: 9090
  disableCors: true
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DurationSleepPattern, cfg.DurationConvention)
	assert.Equal(t, "tables.yaml", cfg.TablesFile)
	assert.Equal(t, "https://example.org/export.csv", cfg.Source.Location)
	assert.Equal(t, 60, cfg.Source.RefreshSeconds)
	assert.Equal(t, 30, cfg.Source.TimeoutSeconds)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.DisableCORS)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(writeFile(t, dir, "bad-convention.yaml", "durationConvention: weekly\n"))
	assert.ErrorContains(t, err, "unknown duration convention")

	_, err = LoadConfig(writeFile(t, dir, "bad-port.yaml", "server:\n  port: 70000\n"))
	assert.ErrorContains(t, err, "invalid server port")

	_, err = LoadConfig(writeFile(t, dir, "broken.yaml", "server: [\n"))
	assert.ErrorContains(t, err, "decode config")
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := Config{DurationConvention: DurationSleepPattern, TablesFile: "overrides.yaml"}
			cfg.Server.Port = 9000

			require.NoError(t, SaveConfig(path, cfg))
			assert.NoFileExists(t, path+".tmp")

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			cfg.ApplyDefaults()
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestConfigCloneIsIndependent(t *testing.T) {
	cfg := Config{TablesFile: "a.yaml"}
	cfg.ApplyDefaults()
	clone := cfg.Clone()
	clone.TablesFile = "b.yaml"
	clone.Server.Port = 1
	assert.Equal(t, "a.yaml", cfg.TablesFile)
	assert.Equal(t, 8080, cfg.Server.Port)
}
