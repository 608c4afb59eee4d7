//go:build e2e

package e2e_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/bugtracker/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/bugtracker/internal/app"
	"github.com/heartmarshall/bugtracker/internal/client/api"
	"github.com/heartmarshall/bugtracker/internal/config"
	"github.com/heartmarshall/bugtracker/internal/domain"
	"github.com/heartmarshall/bugtracker/internal/faults"
)

// ---------------------------------------------------------------------------
// Test server: real postgres store, full middleware chain, HTTP client.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *api.Client
	Logger *slog.Logger
	HTTP   *http.Client
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: config.EnvTest},
		Server:  config.ServerConfig{MaxBodyBytes: 1 << 20},
		Storage: config.StorageConfig{Driver: config.DriverPostgres},
		CORS:    config.CORSConfig{AllowedOrigins: "*"},
	}
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Pool from the testcontainers-backed helper, emptied per test.
	pool := testhelper.SetupTestDB(t)
	testhelper.Truncate(t, pool)

	// 2. Server over the postgres store. The pool is closed by the helper.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	store := app.NewPostgresStore(pool)
	srv := app.NewServer(testConfig(), logger, store)
	t.Cleanup(srv.Stop)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return &testServer{
		URL:    ts.URL,
		Client: api.New(ts.URL, logger),
		Logger: logger,
		HTTP:   ts.Client(),
	}
}

// raw sends body to path and returns the status code and response text.
func (s *testServer) raw(t *testing.T, method, path, body string) (int, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, s.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.HTTP.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

// ---------------------------------------------------------------------------
// Assertion helpers.
// ---------------------------------------------------------------------------

func requireKind(t *testing.T, err error, kind faults.Kind) *faults.Envelope {
	t.Helper()
	require.Error(t, err)
	var env *faults.Envelope
	require.True(t, errors.As(err, &env), "expected *faults.Envelope, got %T: %v", err, err)
	require.Equal(t, kind, env.Kind, "message: %s", env.Message)
	return env
}

func createBug(t *testing.T, s *testServer, title, priority string) *domain.Bug {
	t.Helper()
	d := domain.BugDraft{
		Title:       domain.Str(title),
		Description: domain.Str("steps to reproduce " + title),
		Reporter:    domain.Str("Ann"),
	}
	if priority != "" {
		d.Priority = domain.Str(priority)
	}
	b, err := s.Client.Create(context.Background(), d)
	require.NoError(t, err)
	return b
}

func bugTitles(bugs []domain.Bug) []string {
	out := make([]string, len(bugs))
	for i, b := range bugs {
		out[i] = b.Title
	}
	return out
}

func strPtr(s string) *string { return &s }
