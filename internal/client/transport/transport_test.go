package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"granja/internal/client/wire"
	"granja/internal/common"
	"granja/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, testLogger())
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		require.Equal(t, "ana@granja.mx", creds.Email)
		require.Equal(t, "secret", creds.Password)

		json.NewEncoder(w).Encode(map[string]any{
			"token":       "jwt-abc",
			"user":        map[string]any{"id": "u1", "name": "Ana"},
			"permissions": []string{"pigs:write"},
		})
	}))

	session, err := c.Login(context.Background(), Credentials{Email: "ana@granja.mx", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", session.Token)
	assert.JSONEq(t, `{"id":"u1","name":"Ana"}`, string(session.User))
	assert.JSONEq(t, `["pigs:write"]`, string(session.Permissions))
}

func TestLoginBadCredentials(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "x", Password: "y"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLoginMissingToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))

	_, err := c.Login(context.Background(), Credentials{Email: "x", Password: "y"})
	assert.Error(t, err)
}

func TestSync(t *testing.T) {
	var got SyncRequest
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sync", r.URL.Path)
		require.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(SyncResponse{
			Changes: map[string]TableChanges{
				"pigs": {Updated: []wire.Row{{"id": "pig-1", "tag_number": "A-1"}}},
			},
			Timestamp: "2025-03-02T12:30:00Z",
		})
	}))

	watermark := "2025-03-01T00:00:00Z"
	req := &SyncRequest{
		Changes:      map[string][]wire.Row{"pigs": {{"id": "pig-1"}}},
		LastPulledAt: &watermark,
	}

	resp, err := c.Sync(context.Background(), "jwt-abc", req)
	require.NoError(t, err)

	require.NotNil(t, got.LastPulledAt)
	assert.Equal(t, watermark, *got.LastPulledAt)
	assert.Len(t, got.Changes["pigs"], 1)

	assert.Equal(t, "2025-03-02T12:30:00Z", resp.Timestamp)
	assert.Equal(t, "pig-1", resp.Changes["pigs"].Updated[0]["id"])
}

func TestSyncFirstRunSendsNullWatermark(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"lastPulledAt":null`)
		json.NewEncoder(w).Encode(SyncResponse{Timestamp: "2025-03-02T12:30:00Z"})
	}))

	_, err := c.Sync(context.Background(), "jwt-abc", &SyncRequest{Changes: map[string][]wire.Row{}})
	require.NoError(t, err)
}

func TestSyncServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.Sync(context.Background(), "jwt-abc", &SyncRequest{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "boom", statusErr.Body)
}

func TestSyncExpiredToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))

	_, err := c.Sync(context.Background(), "stale", &SyncRequest{})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	assert.NoError(t, c.Ping(context.Background()))
}

func TestPingDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, time.Second, testLogger())
	assert.Error(t, c.Ping(context.Background()))
}

func TestSyncUnreachableServer(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, testLogger())
	_, err := c.Sync(context.Background(), "jwt", &SyncRequest{})
	assert.Error(t, err)
}
