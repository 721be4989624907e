package service

import (
	"errors"
	"fmt"
	"strings"
)

// Protocol violations. These always end the current attempt.
var (
	ErrMissingCodeOrState  = errors.New("missing authorization code or state")
	ErrStateMismatch       = errors.New("invalid state parameter, possible security issue")
	ErrMissingCodeVerifier = errors.New("missing code verifier, restart verification")
	ErrNonceMismatch       = errors.New("id token nonce does not match the authorization request")
)

var ErrMissingAuthorization = errors.New("missing or malformed bearer authorization")

// ProviderError is an OAuth error returned by the identity provider, either on
// the redirect back or by the token endpoint. Body holds the raw response for
// diagnostics.
type ProviderError struct {
	StatusCode  int
	Code        string
	Description string
	Body        []byte
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider error %s: %s", e.Code, e.Description)
	}
	if e.Code != "" {
		return fmt.Sprintf("provider error %s", e.Code)
	}
	return fmt.Sprintf("provider responded with status %d", e.StatusCode)
}

type KeyLoadError struct {
	Err error
}

func (e *KeyLoadError) Error() string {
	return fmt.Sprintf("failed to load signing key: %v", e.Err)
}

func (e *KeyLoadError) Unwrap() error {
	return e.Err
}

type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign client assertion: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transport failures talking to the provider. The user may
// retry manually; nothing retries automatically.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type UserinfoAttempt struct {
	Variant    string `json:"variant"`
	StatusCode int    `json:"status,omitempty"`
	Error      string `json:"error"`
}

// UserinfoError is returned once every userinfo request variant has failed.
type UserinfoError struct {
	Attempts []UserinfoAttempt
}

func (e *UserinfoError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", attempt.Variant, attempt.Error))
	}
	return fmt.Sprintf("all %d userinfo variants failed (%s)", len(e.Attempts), strings.Join(parts, "; "))
}

// IsProtocolViolation reports whether err is one of the flow protocol violations.
func IsProtocolViolation(err error) bool {
	return errors.Is(err, ErrMissingCodeOrState) ||
		errors.Is(err, ErrStateMismatch) ||
		errors.Is(err, ErrMissingCodeVerifier) ||
		errors.Is(err, ErrNonceMismatch)
}
