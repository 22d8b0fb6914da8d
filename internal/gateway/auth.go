package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gestiogastos/internal/model"

	"go.uber.org/zap"
)

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login authenticates against POST /auth/login with a form-encoded
// username/password pair. On success the bearer token is installed in the
// session and returned. A rejected login yields *model.AuthError and leaves
// the session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &model.NetworkError{Op: "POST /auth/login", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", &model.AuthError{Detail: readDetail(resp.Body)}
	}
	if resp.StatusCode >= 400 {
		return "", &model.APIError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	var body loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if body.AccessToken == "" {
		return "", &model.AuthError{Detail: "empty token in login response"}
	}

	c.session.SetToken(body.AccessToken)
	c.log.Info("logged in", zap.String("user", email))
	return body.AccessToken, nil
}

// Me fetches the identity behind the current token via GET /auth/me.
func (c *Client) Me(ctx context.Context) (email string, role model.Role, err error) {
	var body meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &body); err != nil {
		return "", "", err
	}
	role = model.NormalizeRole(body.Role)
	if !role.Valid() {
		return "", "", fmt.Errorf("remote reported unknown role %q", body.Role)
	}
	return body.Email, role, nil
}

// Logout tells the server to drop its cookie and clears the local session.
// A transport failure still clears locally: absence of a token is the
// logged-out state.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	c.session.Clear()
	return err
}
