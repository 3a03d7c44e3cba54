package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/routed/pkg/config"
)

const testConfig = `
address: 127.0.0.1:0
readTimeout: 5
log:
  level: error
metricsPath: /metrics
routes:
  - name: greeting
    method: GET
    path: /hello/world
    text: hello
  - method: GET
    path: /hello/world
    text: shadowed
  - method: POST
    path: /count
    expr: 'string(hits)'
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func parseServeFlags(t *testing.T, args ...string) (*serveFlags, *pflag.FlagSet) {
	t.Helper()
	var f serveFlags
	fs := pflag.NewFlagSet("serve", pflag.ContinueOnError)
	bindServeFlags(fs, &f)
	require.NoError(t, fs.Parse(args))
	return &f, fs
}

func TestResolveConfig_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, testConfig)

	cfg, err := resolveConfig(parseServeFlags(t,
		"--config", path,
		"--max-connections", "4",
		"--accept-rate", "100",
		"--log-format", "json",
	))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:0", cfg.Address, "unset flag keeps the file value")
	assert.Equal(t, 4, cfg.MaxConnections)
	assert.InDelta(t, 100.0, cfg.AcceptRate, 0)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 5, cfg.ReadTimeout)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Len(t, cfg.Routes, 3)
}

func TestResolveConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := resolveConfig(parseServeFlags(t, "--addr", ":9999", "--metrics-path", "/m"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Address)
	assert.Equal(t, "/m", cfg.MetricsPath)
	assert.Equal(t, 30, cfg.WriteTimeout)
	assert.Empty(t, cfg.Routes)
}

func TestResolveConfig_Errors(t *testing.T) {
	_, err := resolveConfig(parseServeFlags(t, "--read-timeout=-1"))
	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "readTimeout", verr.Field)

	_, err = resolveConfig(parseServeFlags(t, "--config", filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, err, config.ErrFileNotFound)
}

func TestServeCommand(t *testing.T) {
	path := writeConfig(t, testConfig)

	stdout, stdoutW := io.Pipe()
	root := NewRootCommand(BuildInfo{Version: "test"})
	root.SetArgs([]string{"serve", "--config", path})
	root.SetOut(stdoutW)
	root.SetErr(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	line, err := bufio.NewReader(stdout).ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "routed listening on "), line)
	addr := strings.Fields(strings.TrimPrefix(line, "routed listening on "))[0]

	assert.Equal(t, okResponse("hello"), dial(t, addr, "GET /hello/world HTTP/1.1\n\n"))
	assert.Equal(t, okResponse("1"), dial(t, addr, "POST /count HTTP/1.1\n\n"))
	assert.Equal(t, okResponse("2"), dial(t, addr, "POST /count HTTP/1.1\n\n"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancel")
	}
}

func TestServeCommand_PrintConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("- {method: PUT, path: /extra, json: {ok: true}}\n"), 0o644))
	path := filepath.Join(dir, "routed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig+"include: [extra.yaml]\n"), 0o644))

	var out bytes.Buffer
	root := NewRootCommand(BuildInfo{})
	root.SetArgs([]string{"serve", "--config", path, "--addr", "127.0.0.1:7000", "--print-config"})
	root.SetOut(&out)
	require.NoError(t, root.Execute())

	cfg, err := config.ParseYAML(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.Address)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Empty(t, cfg.Include)
	require.Len(t, cfg.Routes, 4)
	assert.Equal(t, "/extra", cfg.Routes[3].Path)
	assert.Equal(t, "json", cfg.Routes[3].BodyKind())
}

func TestServeCommand_BadConfig(t *testing.T) {
	path := writeConfig(t, "routes:\n  - {method: GET, path: /x}\n")

	root := NewRootCommand(BuildInfo{})
	root.SetArgs([]string{"serve", "--config", path})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)

	err := root.Execute()
	assert.ErrorContains(t, err, "exactly one of text, json or expr")
}

func dial(t *testing.T, addr, raw string) string {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)
	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(out)
}
