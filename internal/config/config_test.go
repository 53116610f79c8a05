package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/livetree/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, DefaultInspectAddr, cfg.Inspect.Addr)
	assert.Equal(t, time.Second, cfg.InspectInterval())
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace)
	assert.False(t, cfg.Reconcile.DisposeOnRemove)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "livetree.json", `{
  "log": {"level": "debug", "format": "json"},
  "reconcile": {"disposeOnRemove": true},
  "inspect": {"addr": "127.0.0.1:9000", "interval": "250ms"}
}`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Reconcile.DisposeOnRemove)
	assert.Equal(t, "127.0.0.1:9000", cfg.Inspect.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.InspectInterval())
	assert.Equal(t, DefaultNamespace, cfg.Metrics.Namespace)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, dir, cfg.Dir())
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "livetree.yaml", `
log:
  level: warn
events:
  include: [visibilitychange]
  exclude: [mousemove]
  passive: [scroll]
metrics:
  enabled: true
  namespace: app
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, []string{"visibilitychange"}, cfg.Events.Include)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "app", cfg.Metrics.Namespace)
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"missing", filepath.Join(dir, "nope.json"), "E201"},
		{"bad json", writeFile(t, dir, "bad.json", `{"log": `), "E202"},
		{"bad yaml", writeFile(t, dir, "bad.yaml", "log: [unclosed"), "E202"},
		{"bad level", writeFile(t, dir, "level.json", `{"log": {"level": "loud"}}`), "E203"},
		{"bad format", writeFile(t, dir, "format.json", `{"log": {"format": "xml"}}`), "E203"},
		{"bad interval", writeFile(t, dir, "interval.json", `{"inspect": {"interval": "-1s"}}`), "E203"},
		{"reserved event", writeFile(t, dir, "receive.json", `{"events": {"include": ["receive"]}}`), "E203"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(tt.path)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.Code(err))
		})
	}
}

func TestFindWalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, "", Find(nested))

	path := writeFile(t, root, "livetree.yml", "log:\n  level: error\n")
	assert.Equal(t, path, Find(nested))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestFindPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "livetree.json", `{}`)
	writeFile(t, dir, "livetree.yaml", "{}\n")

	assert.Equal(t, jsonPath, Find(dir))
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, New().Log, cfg.Log)
	assert.Equal(t, "", cfg.Path())
}

func TestSaveToRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.json", "out.yaml"} {
		cfg := New()
		cfg.Inspect.Addr = ":8081"
		cfg.Events.Exclude = []string{"wheel"}
		path := filepath.Join(dir, name)
		require.NoError(t, cfg.SaveTo(path))

		loaded, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, ":8081", loaded.Inspect.Addr, name)
		assert.Equal(t, []string{"wheel"}, loaded.Events.Exclude, name)
	}
}

func TestEventTable(t *testing.T) {
	cfg := New()
	cfg.Events.Include = []string{"visibilitychange", "click", "touchmove"}
	cfg.Events.Exclude = []string{"mousemove"}
	cfg.Events.Passive = []string{"scroll"}

	table := cfg.EventTable()
	byName := make(map[string]bool)
	counts := make(map[string]int)
	for _, spec := range table {
		byName[spec.Name] = spec.Passive
		counts[spec.Name]++
	}

	assert.Contains(t, byName, "visibilitychange")
	assert.NotContains(t, byName, "mousemove")
	assert.True(t, byName["scroll"])
	assert.True(t, byName["wheel"])
	assert.False(t, byName["click"])
	assert.Equal(t, 1, counts["click"])
	assert.Equal(t, 1, counts["touchmove"])
}

func TestGroupOptions(t *testing.T) {
	cfg := New()
	assert.Len(t, cfg.GroupOptions(), 1)

	cfg.Reconcile.DisposeOnRemove = true
	assert.Len(t, cfg.GroupOptions(), 2)
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := New()
	cfg.Log.Format = "json"
	cfg.Log.Level = "warn"

	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
