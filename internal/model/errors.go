package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the local permission and workflow checks. They are
// returned before any state is touched: a refused operation has no partial
// effect on the ticket store or the session.
var (
	// ErrUnauthorized means the actor's role lacks permission for the
	// requested view or transition.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition means the requested status is not reachable from
	// the ticket's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotFound means the referenced record does not exist, locally or on
	// the remote service.
	ErrNotFound = errors.New("not found")

	// ErrSessionExpired means the remote service rejected the session token.
	// The local session has already been cleared when this is returned; the
	// caller must re-authenticate.
	ErrSessionExpired = errors.New("session expired, re-authentication required")
)

// ValidationError reports a malformed ticket or user payload, rejected
// before submission to the remote service.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// AuthError reports a rejected login attempt.
type AuthError struct {
	Detail string
}

func (e *AuthError) Error() string {
	if e.Detail == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Detail
}

// APIError reports a non-auth error response from the remote service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
}

// NetworkError wraps a transport-level failure talking to the remote
// service. No retry is attempted here; the caller decides.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
