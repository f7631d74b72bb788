package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/echoes/internal/config"
	"github.com/llehouerou/echoes/internal/session"
)

const testToken = "secret"

type fakeServer struct {
	*httptest.Server
	reject atomic.Bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	r := mux.NewRouter()
	r.HandleFunc("/users/me", func(w http.ResponseWriter, req *http.Request) {
		if fs.reject.Load() || req.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       3,
			"username": "ana",
			"fullName": "Ana Reyes",
		})
	}).Methods(http.MethodGet)
	fs.Server = httptest.NewServer(r)
	t.Cleanup(fs.Close)
	return fs
}

// writeConfig points the CLI at apiURL with files under a temp dir.
func writeConfig(t *testing.T, apiURL string) (cfgPath, dbPath string) {
	t.Helper()
	t.Setenv(config.EnvAPIURL, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFile, "")

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "session.db")
	cfgPath = filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[api]
url = %q
max_retries = -1

[session]
db_path = %q

[log]
file = %q
`, apiURL, dbPath, filepath.Join(dir, "echoes.log"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath, dbPath
}

func runCLI(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	logCleanup()
	return out.String(), err
}

func storedToken(t *testing.T, dbPath string) string {
	t.Helper()
	store, err := session.Open(dbPath)
	require.NoError(t, err)
	defer store.Close()
	token, err := store.Token()
	require.NoError(t, err)
	return token
}

func TestWhoami_NotSignedIn(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, _ := writeConfig(t, srv.URL)

	_, err := runCLI(t, cfgPath, "whoami")

	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestTokenAndWhoami(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, dbPath := writeConfig(t, srv.URL)

	out, err := runCLI(t, cfgPath, "token", "set", testToken)
	require.NoError(t, err)
	assert.Contains(t, out, "Token saved.")
	assert.Equal(t, testToken, storedToken(t, dbPath))

	out, err = runCLI(t, cfgPath, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Ana Reyes (@ana, id 3)")

	// Offline falls back to the cached profile.
	srv.Close()
	out, err = runCLI(t, cfgPath, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Ana Reyes")
	assert.Contains(t, out, "cached")

	out, err = runCLI(t, cfgPath, "token", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.Empty(t, storedToken(t, dbPath))
}

func TestWhoami_RejectedTokenSignsOut(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, dbPath := writeConfig(t, srv.URL)

	_, err := runCLI(t, cfgPath, "token", "set", testToken)
	require.NoError(t, err)

	srv.reject.Store(true)
	_, err = runCLI(t, cfgPath, "whoami")

	assert.ErrorIs(t, err, errSessionExpired)
	assert.Empty(t, storedToken(t, dbPath))
}

func TestTokenSet_Empty(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, _ := writeConfig(t, srv.URL)

	_, err := runCLI(t, cfgPath, "token", "set", "  ")

	assert.Error(t, err)
}

func TestPlay_RequiresToken(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, _ := writeConfig(t, srv.URL)

	_, err := runCLI(t, cfgPath, "play", "42")

	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestPlay_InvalidID(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, _ := writeConfig(t, srv.URL)

	_, err := runCLI(t, cfgPath, "play", "abc")

	assert.ErrorContains(t, err, "invalid track id")
}

func TestVersion(t *testing.T) {
	srv := newFakeServer(t)
	cfgPath, _ := writeConfig(t, srv.URL)

	out, err := runCLI(t, cfgPath, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "echoes dev")
}
