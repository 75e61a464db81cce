package client_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/partsearch/internal/api"
	"github.com/donaldgifford/partsearch/internal/api/client"
	"github.com/donaldgifford/partsearch/internal/api/fixtures"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	catalog, err := fixtures.Default()
	require.NoError(t, err)
	srv := httptest.NewServer(api.New(catalog, api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := client.New("http://127.0.0.1:1") // nothing listening
	_, err := c.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.Maintenance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mock server error (HTTP 500)")
}

func TestClient_Health(t *testing.T) {
	t.Parallel()

	c := client.New(newServer(t).URL + "/")
	ctx := context.Background()

	status, err := c.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ok", status)

	status, err = c.Ready(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ready", status)
}

func TestClient_Maintenance(t *testing.T) {
	t.Parallel()

	c := client.New(newServer(t).URL)
	ctx := context.Background()

	down, err := c.SetMaintenance(ctx, true)
	require.NoError(t, err)
	assert.True(t, down)

	down, err = c.Maintenance(ctx)
	require.NoError(t, err)
	assert.True(t, down)

	_, err = c.Ready(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 503")

	down, err = c.SetMaintenance(ctx, false)
	require.NoError(t, err)
	assert.False(t, down)
}
