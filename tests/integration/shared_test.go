package integration

import (
	"context"
	"net/http"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/config"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/server"
	"github.com/Praveenjayasiri/Simple-User-Management-System/tests/testutils"
)

// startConsole builds the full application for the given backend and serves
// it from an httptest server.
func startConsole(t *testing.T, backend config.StoreBackend) (*server.Server, *testutils.TestServer) {
	t.Helper()
	cfg := testutils.GetTestConfig()
	cfg.StoreBackend = backend
	if backend == config.BackendSQLite {
		cfg.SQLitePath = filepath.Join(t.TempDir(), "console.db")
	}

	srv, err := server.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := testutils.NewTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func loginForm(ts *testutils.TestServer, username, password string) *http.Response {
	return ts.PostForm("/login", url.Values{"username": {username}, "password": {password}})
}

var backends = []config.StoreBackend{config.BackendMemory, config.BackendSQLite}
