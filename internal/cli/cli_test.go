package cli

import (
	"bytes"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tansive/restadapter/internal/adapter"
	"github.com/tansive/restadapter/internal/mockapi"
)

// newTestEnv starts the mock API and writes a config file pointing at it.
func newTestEnv(t *testing.T, opts mockapi.Options) string {
	t.Helper()
	srv := httptest.NewServer(mockapi.New(opts))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	p, err := strconv.Atoi(port)
	require.NoError(t, err)

	cfg := fmt.Sprintf(`version: 1.0.0
log_level: error
connections:
  - identity: local
    host: %s
    port: %d
    pathname: %s
    collections:
      widgets:
        url: /widgets
`, host, p, opts.BasePath)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRecordCommands(t *testing.T) {
	cfg := newTestEnv(t, mockapi.Options{BasePath: "/api"})

	out, _, err := runCLI(t, "--config", cfg, "create", "widgets", "--data", `{"name":"sprocket","color":"red"}`, "-j")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "id").Int())

	out, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "name: sprocket")
	assert.Contains(t, out, "color: red")

	out, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--where", "color=red", "--limit", "10", "-j")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "#").Int())

	out, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--where", "color=blue", "--page", "0", "-j")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	out, _, err = runCLI(t, "--config", cfg, "update", "widgets", "1", "--data", `{"name":"cog"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "name: cog")
	assert.NotContains(t, out, "color")

	out, _, err = runCLI(t, "--config", cfg, "describe", "widgets", "-j")
	require.NoError(t, err)
	assert.Equal(t, "PUT", gjson.Get(out, "update_method").String())
	assert.Contains(t, gjson.Get(out, "resource_url").String(), "/api/widgets")

	out, _, err = runCLI(t, "--config", cfg, "collections")
	require.NoError(t, err)
	assert.Contains(t, out, "Resource Url")
	assert.Contains(t, out, "* local")

	_, stderr, err := runCLI(t, "--config", cfg, "destroy", "widgets", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "deleted widgets/1")

	_, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--id", "1")
	require.Error(t, err)
	assert.Equal(t, adapter.KindUnknown, adapter.KindOf(err))
}

func TestCreateFromFile(t *testing.T) {
	cfg := newTestEnv(t, mockapi.Options{LocationOnly: true})
	records := filepath.Join(t.TempDir(), "widgets.yaml")
	require.NoError(t, os.WriteFile(records, []byte("name: a\n---\nname: b\n"), 0600))

	out, stderr, err := runCLI(t, "--config", cfg, "create", "widgets", "-f", records)
	require.NoError(t, err)
	assert.Contains(t, out, "name: a")
	assert.Contains(t, out, "name: b")
	assert.Contains(t, out, "id: 2")
	assert.Contains(t, stderr, "created 2 record(s) in widgets")
}

func TestCommandErrors(t *testing.T) {
	cfg := newTestEnv(t, mockapi.Options{Required: map[string][]string{"widgets": {"name"}}})

	_, _, err := runCLI(t, "--config", cfg, "create", "widgets")
	assert.Error(t, err)

	_, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--limit", "0")
	assert.ErrorIs(t, err, adapter.ErrInvalidPagination)

	_, _, err = runCLI(t, "--config", cfg, "find", "gizmos", "--limit", "5")
	assert.ErrorIs(t, err, adapter.ErrUnknownCollection)

	_, _, err = runCLI(t, "--config", cfg, "--connection", "remote", "find", "widgets")
	assert.Error(t, err)

	_, _, err = runCLI(t, "--config", cfg, "find", "widgets", "--where", "novalue")
	assert.Error(t, err)

	_, _, err = runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "find", "widgets")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = runCLI(t, "--config", cfg, "create", "widgets", "--data", `{"color":"red"}`)
	require.Error(t, err)

	var buf bytes.Buffer
	(&app{}).printError(&buf, err)
	assert.Contains(t, buf.String(), "Error [E_VALIDATION]: HTTP 422: validation failed for widgets")
	assert.Contains(t, buf.String(), "field: name")

	buf.Reset()
	(&app{jsonOutput: true}).printError(&buf, err)
	assert.Equal(t, "E_VALIDATION", gjson.Get(buf.String(), "code").String())
	assert.Equal(t, int64(http.StatusUnprocessableEntity), gjson.Get(buf.String(), "status").Int())
	assert.Equal(t, "name", gjson.Get(buf.String(), "errors.0.field").String())
}

func TestVersionWithoutConfig(t *testing.T) {
	out, _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "version", "-j")
	require.NoError(t, err)
	assert.Equal(t, Version, gjson.Get(out, "version").String())
}

func TestParseWhere(t *testing.T) {
	where, err := parseWhere([]string{"color=red", "size=3", "active=true", "tags=[\"a\",\"b\"]", "expr=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"color":  "red",
		"size":   float64(3),
		"active": true,
		"tags":   []any{"a", "b"},
		"expr":   "a=b",
	}, where)

	_, err = parseWhere([]string{"=x"})
	assert.Error(t, err)
}

func TestServeMockOptions(t *testing.T) {
	o := &serveMockOptions{
		basePath: "/v1",
		required: []string{"widgets=name,size", "gadgets=id"},
		pageSize: 5,
	}
	mo, err := o.mockOptions()
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"widgets": {"name", "size"}, "gadgets": {"id"}}, mo.Required)
	assert.Equal(t, 5, mo.PageSize)

	o.required = []string{"widgets"}
	_, err = o.mockOptions()
	assert.Error(t, err)
}
