// Package transport is the HTTP client for the remote farm server.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"granja/internal/client/wire"
	"granja/internal/common"
	"granja/internal/logging"
)

// Client talks JSON over HTTP to the remote server.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     logging.Logger
}

func New(baseURL string, timeout time.Duration, log logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is what a successful login returns. User and Permissions are kept
// opaque; the client only stores and displays them.
type Session struct {
	Token       string          `json:"token"`
	User        json.RawMessage `json:"user"`
	Permissions json.RawMessage `json:"permissions"`
}

// SyncRequest carries every pending local change plus the pull watermark.
// LastPulledAt is nil on the very first exchange.
type SyncRequest struct {
	Changes      map[string][]wire.Row `json:"changes"`
	LastPulledAt *string               `json:"lastPulledAt"`
}

// TableChanges holds the remote rows for one table. Deletions arrive as
// tombstoned rows inside Updated, not as a separate list.
type TableChanges struct {
	Updated []wire.Row `json:"updated"`
}

// SyncResponse is the remote half of the exchange. Timestamp becomes the
// next lastPulledAt once reconciliation commits.
type SyncResponse struct {
	Changes   map[string]TableChanges `json:"changes"`
	Timestamp string                  `json:"timestamp"`
}

// Login authenticates and returns the bearer session.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	var session Session
	if err := c.post(ctx, "/auth/login", "", creds, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, fmt.Errorf("login response carried no token")
	}
	return &session, nil
}

// Sync performs the single bidirectional exchange.
func (c *Client) Sync(ctx context.Context, token string, req *SyncRequest) (*SyncResponse, error) {
	var resp SyncResponse
	if err := c.post(ctx, "/sync", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ping probes the server health endpoint. A nil error means online.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug(ctx, "http request", "method", http.MethodPost, "path", path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Warn(ctx, "http request failed", "path", path, "status", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %s", common.ErrUnauthorized, bytes.TrimSpace(raw))
		}
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
