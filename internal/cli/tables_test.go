package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablesInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")

	out, _, err := executeCommand("tables", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote default tables to "+path)
	assert.FileExists(t, path)

	out, _, err = executeCommand("tables", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestTablesShow(t *testing.T) {
	out, _, err := executeCommand("tables", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "SCALE frequency")
	assert.Contains(t, out, "Always (every night)")
	assert.Contains(t, out, "MIDPOINTS academic")
	assert.Contains(t, out, "LIFESTYLE FIELD")
	assert.Regexp(t, `StressLevel\s+Extremely\s+3\s+3`, out)
	assert.Regexp(t, `StressLevel\s+High\s+2\s+3`, out)
	assert.Regexp(t, `PhysicalActivity\s+Rarely\s+2\s+2`, out)

	overrides := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(overrides, []byte("frequency:\n  variants:\n    \"Every night\": 4\n"), 0o644))
	out, _, err = executeCommand("tables", "show", "--tables", overrides, "--output", "json")
	require.NoError(t, err)

	var doc struct {
		Frequency struct {
			Variants map[string]any `json:"variants"`
		} `json:"frequency"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 4.0, doc.Frequency.Variants["Every night"])
	assert.Equal(t, 3.0, doc.Frequency.Variants["Often"])
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleepsurvey.yaml")

	out, _, err := executeCommand("config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, _, err = executeCommand("config", "init", path)
	assert.ErrorContains(t, err, "already exists")
	_, _, err = executeCommand("config", "init", path, "--force")
	assert.NoError(t, err)

	out, _, err = executeCommand("config", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	broken := writeConfig(t, "tablesFile: "+filepath.Join(t.TempDir(), "nope.yaml")+"\n")
	_, _, err = executeCommand("config", "validate", broken)
	assert.ErrorContains(t, err, "read tables")
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := executeCommand("schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "sleepsurvey lookup tables", schema["title"])
}
