package transform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "oratopg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_MissingFileIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_ParsesAllKeys(t *testing.T) {
	path := writeConfig(t, `
do.all-schemas: false
do.only-test-schema: "HR, Sales"
default parse entry: function_body
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.DoAllSchemas)
	assert.Equal(t, "HR, Sales", cfg.OnlyTestSchema)
	assert.Equal(t, "function_body", cfg.DefaultParseEntry)
}

func TestConfig_ParseEntry_DefaultsToSelectStatement(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "select_statement", string(cfg.ParseEntry()))
}

func TestConfig_ResolveSchemas_AllSchemas(t *testing.T) {
	cfg := Config{DoAllSchemas: true}
	got := cfg.ResolveSchemas([]string{"hr", "sales"}, nil)
	assert.Equal(t, []string{"hr", "sales"}, got)
}

func TestConfig_ResolveSchemas_TrimsLowercasesAndDropsUnknown(t *testing.T) {
	cfg := Config{OnlyTestSchema: " HR , bogus ,sales"}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	got := cfg.ResolveSchemas([]string{"hr", "sales"}, logger)
	assert.Equal(t, []string{"hr", "sales"}, got)
}
