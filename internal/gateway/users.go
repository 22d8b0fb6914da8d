package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"gestiogastos/internal/model"
)

// UserRecord is a user as served by the /usuarios endpoints. Email is the
// identity key; there is no numeric id.
type UserRecord struct {
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	EmployeeCode string `json:"employee_code"`
	Role         string `json:"rol"`
}

// CreateUserInput carries the fields for POST /usuarios. The password is
// hashed server-side; it never persists locally.
type CreateUserInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Role         string `json:"rol"`
}

// UpdateUserInput carries the fields for PUT /usuarios/:email. Empty fields
// are left unchanged server-side.
type UpdateUserInput struct {
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	EmployeeCode string `json:"employee_code,omitempty"`
	Role         string `json:"rol,omitempty"`
	Password     string `json:"password,omitempty"`
}

// NormalizedRole resolves the record's role through the alias table.
func (u UserRecord) NormalizedRole() model.Role {
	return model.NormalizeRole(u.Role)
}

// ListUsers fetches every user. Admin-only server-side.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	var users []UserRecord
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser fetches one user by email.
func (c *Client) GetUser(ctx context.Context, email string) (UserRecord, error) {
	var user UserRecord
	if err := c.do(ctx, http.MethodGet, "/usuarios/"+url.PathEscape(email), nil, nil, &user); err != nil {
		return UserRecord{}, err
	}
	return user, nil
}

// CreateUser registers a new user.
func (c *Client) CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error) {
	if !model.NormalizeRole(input.Role).Valid() {
		return UserRecord{}, &model.ValidationError{Field: "rol", Reason: fmt.Sprintf("unknown role %q", input.Role)}
	}
	var user UserRecord
	if err := c.do(ctx, http.MethodPost, "/usuarios", nil, input, &user); err != nil {
		return UserRecord{}, err
	}
	return user, nil
}

// UpdateUser mutates an existing user.
func (c *Client) UpdateUser(ctx context.Context, email string, input UpdateUserInput) (UserRecord, error) {
	if input.Role != "" && !model.NormalizeRole(input.Role).Valid() {
		return UserRecord{}, &model.ValidationError{Field: "rol", Reason: fmt.Sprintf("unknown role %q", input.Role)}
	}
	var user UserRecord
	if err := c.do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(email), nil, input, &user); err != nil {
		return UserRecord{}, err
	}
	return user, nil
}

// DeleteUser removes a user by email.
func (c *Client) DeleteUser(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodDelete, "/usuarios/"+url.PathEscape(email), nil, nil, nil)
}
