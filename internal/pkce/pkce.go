// Package pkce generates the Proof Key for Code Exchange parameters (RFC 7636)
// used by the authorization code flow.
package pkce

import (
	"golang.org/x/oauth2"
)

const MethodS256 = "S256"

const (
	MinVerifierLength = 43
	MaxVerifierLength = 128
)

type Params struct {
	CodeVerifier  string
	CodeChallenge string
	Method        string
}

// GenerateCodeVerifier returns 32 random bytes encoded as unpadded base64url,
// which yields a 43 character verifier from the unreserved character set.
// It panics if the system random source fails.
func GenerateCodeVerifier() string {
	return oauth2.GenerateVerifier()
}

// GenerateCodeChallenge derives the S256 challenge: base64url(sha256(verifier)) without padding.
func GenerateCodeChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// GenerateToken returns an opaque random value for state and nonce parameters.
// Every call draws fresh randomness, so state, nonce and verifier never share a value.
func GenerateToken() string {
	return GenerateCodeVerifier()
}

func New() Params {
	verifier := GenerateCodeVerifier()
	return Params{
		CodeVerifier:  verifier,
		CodeChallenge: GenerateCodeChallenge(verifier),
		Method:        MethodS256,
	}
}

// IsValidVerifier reports whether v satisfies the RFC 7636 length and charset rules.
func IsValidVerifier(v string) bool {
	if len(v) < MinVerifierLength || len(v) > MaxVerifierLength {
		return false
	}
	for i := 0; i < len(v); i++ {
		if !isUnreserved(v[i]) {
			return false
		}
	}
	return true
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
