package vault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentity is returned by New when the client name or key is empty.
	ErrInvalidIdentity = errors.New("vault: identity requires a client name and a private key")

	// ErrInvalidPath is returned by GetSecret when the mount path or secret name is empty.
	ErrInvalidPath = errors.New("vault: mount path and secret name cannot be empty")
)

// AuthError is returned when the service rejects the identity or answers the
// login request with a response that carries no client token.
type AuthError struct {
	StatusCode int
	Messages   []string
	Reason     string
}

func (e *AuthError) Error() string {
	if len(e.Messages) > 0 {
		return fmt.Sprintf("auth failed [%d]: %s", e.StatusCode, strings.Join(e.Messages, ", "))
	}
	return fmt.Sprintf("auth failed [%d]: %s", e.StatusCode, e.Reason)
}

// NotFoundError is returned when the secret path does not exist (HTTP 404).
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "secret not found: " + e.Path
}

// FetchError is a service-reported failure while reading a secret.
type FetchError struct {
	StatusCode int
	Messages   []string
}

func (e *FetchError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("fetch failed [%d]: unexpected status", e.StatusCode)
	}
	return fmt.Sprintf("fetch failed [%d]: %s", e.StatusCode, strings.Join(e.Messages, ", "))
}

// ProtocolError covers transport failures and responses that cannot be parsed.
// StatusCode is zero when no response was received.
type ProtocolError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: protocol error: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: protocol error [%d]: %v", e.Op, e.StatusCode, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// errorKind maps an error to the label used in metrics.
func errorKind(err error) string {
	var (
		authErr     *AuthError
		notFoundErr *NotFoundError
		fetchErr    *FetchError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &fetchErr):
		return "fetch"
	default:
		return "protocol"
	}
}
