package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "routed.yaml", `
address: 127.0.0.1:9000
maxConnections: 8
readTimeout: 5
acceptRate: 50
acceptBurst: 10
log:
  level: debug
  format: json
metricsPath: /metrics
routes:
  - method: GET
    path: /hello/world
    text: hello
  - name: status
    method: GET
    path: /status
    json: {ok: true, count: 2}
  - method: POST
    path: /echo
    expr: 'method + " " + path'
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Address)
	assert.Equal(t, 8, cfg.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeoutDuration())
	assert.Equal(t, 30*time.Second, cfg.WriteTimeoutDuration(), "unset fields keep defaults")
	assert.Equal(t, 64<<10, cfg.MaxRequestBytes)
	assert.InDelta(t, 50.0, cfg.AcceptRate, 0)
	assert.Equal(t, 10, cfg.AcceptBurst)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, "/metrics", cfg.MetricsPath)

	require.Len(t, cfg.Routes, 3)
	assert.Equal(t, "text", cfg.Routes[0].BodyKind())
	assert.Equal(t, "hello", *cfg.Routes[0].Text)
	assert.Equal(t, "json", cfg.Routes[1].BodyKind())
	assert.Equal(t, map[string]any{"ok": true, "count": 2}, cfg.Routes[1].JSON)
	assert.Equal(t, "status", cfg.Routes[1].Name)
	assert.Equal(t, "expr", cfg.Routes[2].BodyKind())
	assert.Equal(t, path, cfg.Routes[2].Source)
}

func TestLoadFromFile_JSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "routed.json", `{
		"address": ":7000",
		"routes": [
			{"method": "DELETE", "path": "/items", "text": ""}
		]
	}`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Address)
	assert.Equal(t, "info", cfg.Log.Level)
	require.Len(t, cfg.Routes, 1)
	require.NotNil(t, cfg.Routes[0].Text)
	assert.Empty(t, *cfg.Routes[0].Text)
}

func TestLoadFromFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"invalid json", "bad.json", `{ invalid json }`, ErrInvalidJSON},
		{"invalid yaml", "bad.yaml", "routes: [unclosed", ErrInvalidYAML},
		{"unknown yaml field", "unknown.yaml", "adress: typo\n", ErrInvalidYAML},
		{"empty file", "empty.yaml", "", ErrEmptyFile},
		{"whitespace only", "blank.json", "  \n\t", ErrEmptyFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tmpDir, tt.file, tt.content)
			cfg, err := LoadFromFile(path)
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		cfg, err := LoadFromFile(filepath.Join(tmpDir, "nope.yaml"))
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := LoadFromFile(tmpDir)
		assert.ErrorContains(t, err, "directory")
	})

	t.Run("invalid route", func(t *testing.T) {
		path := writeFile(t, tmpDir, "route.yaml", "routes:\n  - {method: PATCH, path: /x, text: hi}\n")
		_, err := LoadFromFile(path)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "method", verr.Field)
		assert.ErrorContains(t, err, "routes[0]")
	})
}

func TestLoadFromFile_Includes(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "routes/b.yaml", `
- method: GET
  path: /b
  text: b
`)
	writeFile(t, tmpDir, "routes/a.yaml", `
routes:
  - method: GET
    path: /a
    text: a
`)
	writeFile(t, tmpDir, "routes/nested/deep/c.yaml", `
- method: PUT
  path: /c
  expr: '"c"'
`)
	path := writeFile(t, tmpDir, "routed.yaml", `
include:
  - routes/*.yaml
  - routes/**/deep/*.yaml
  - nothing/*.yaml
routes:
  - method: GET
    path: /inline
    text: inline
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	var paths []string
	for _, r := range cfg.Routes {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/inline", "/a", "/b", "/c"}, paths)
	assert.Equal(t, filepath.Join(tmpDir, "routes", "a.yaml"), cfg.Routes[1].Source)
}

func TestLoadFromFile_IncludeError(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "routes/broken.yaml", "- method: [GET\n")
	path := writeFile(t, tmpDir, "routed.yaml", "include: [routes/*.yaml]\n")

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
	assert.ErrorContains(t, err, "broken.yaml")
}

func TestLoadFromFile_IncludeUnknownField(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "routes/list.yaml", "- nmae: typo\n  method: GET\n  path: /a\n  text: a\n")
	writeFile(t, tmpDir, "other/mapping.yaml", "routes:\n  - method: GET\n    path: /b\n    txt: b\n")

	path := writeFile(t, tmpDir, "list.yaml", "include: [routes/*.yaml]\n")
	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
	assert.ErrorContains(t, err, "nmae")

	path = writeFile(t, tmpDir, "mapping.yaml", "include: [other/*.yaml]\n")
	_, err = LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalidYAML)
	assert.ErrorContains(t, err, "txt")
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ROUTED_TEST_PORT", "9100")

	assert.Equal(t, "127.0.0.1:9100", ExpandEnvVars("127.0.0.1:${ROUTED_TEST_PORT}"))
	assert.Equal(t, "fallback", ExpandEnvVars("${ROUTED_TEST_UNSET:-fallback}"))
	assert.Empty(t, ExpandEnvVars("${ROUTED_TEST_UNSET}"))
	assert.Equal(t, "$NOT_BRACED", ExpandEnvVars("$NOT_BRACED"))
}

func TestParseYAML_ExpandsEnv(t *testing.T) {
	t.Setenv("ROUTED_TEST_ADDR", "0.0.0.0:1234")

	cfg, err := ParseYAML([]byte("address: ${ROUTED_TEST_ADDR}\n"))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:1234", cfg.Address)
}

func TestToYAML_RoundTripsRoutes(t *testing.T) {
	hello := "hello"
	cfg := DefaultServerConfig()
	cfg.Routes = []RouteConfig{{Method: "GET", Path: "/hello", Text: &hello}}

	data, err := ToYAML(cfg)
	require.NoError(t, err)

	parsed, err := ParseYAML(data)
	require.NoError(t, err)
	require.Len(t, parsed.Routes, 1)
	assert.Equal(t, "hello", *parsed.Routes[0].Text)

	_, err = ToYAML(nil)
	assert.Error(t, err)
}
