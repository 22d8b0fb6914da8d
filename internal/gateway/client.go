// Package gateway is the HTTP client for the remote GestióGastos API. It
// owns the auth-token lifecycle: every call carries the session bearer
// token, and any 401 response clears the local session and surfaces
// model.ErrSessionExpired so the caller re-authenticates. No retries happen
// here; transport policy belongs to the injected http.Client.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gestiogastos/internal/model"
	"gestiogastos/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the remote API on behalf of the current session.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	log     *zap.Logger
}

// New returns a Client rooted at baseURL, e.g. http://localhost:8000/api.
func New(baseURL string, timeout time.Duration, sess *session.Session, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		log:     log,
	}
}

// apiError is the error body the remote API sends on failures.
type apiError struct {
	Detail string `json:"detail"`
}

// do performs one JSON request/response round trip. A non-nil body is
// marshaled as JSON; a non-nil out receives the decoded response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost {
		// The server deduplicates retried creates on this key.
		req.Header.Set("Idempotence-Key", uuid.New().String())
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &model.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token invalid or expired: drop the session so the caller is forced
		// back through login.
		c.session.Clear()
		c.log.Warn("session invalidated by remote", zap.String("path", path))
		return fmt.Errorf("%s %s: %w", method, path, model.ErrSessionExpired)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, model.ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return &model.APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

func readDetail(body io.Reader) string {
	var apiErr apiError
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return strings.TrimSpace(string(raw))
}
