package pkce_test

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/CakeInTech/faydapass/internal/pkce"

	"gotest.tools/v3/assert"
)

func TestGenerateCodeVerifier(t *testing.T) {
	seen := make(map[string]bool)

	for range 100 {
		verifier := pkce.GenerateCodeVerifier()
		assert.Assert(t, pkce.IsValidVerifier(verifier), "invalid verifier %q", verifier)
		assert.Assert(t, !seen[verifier], "duplicate verifier %q", verifier)
		seen[verifier] = true
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	// RFC 7636 appendix B
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", pkce.GenerateCodeChallenge(verifier))

	for range 20 {
		verifier := pkce.GenerateCodeVerifier()
		sum := sha256.Sum256([]byte(verifier))
		expected := base64.RawURLEncoding.EncodeToString(sum[:])

		challenge := pkce.GenerateCodeChallenge(verifier)
		assert.Equal(t, expected, challenge)
		assert.Equal(t, challenge, pkce.GenerateCodeChallenge(verifier))
		assert.Assert(t, !strings.Contains(challenge, "="))
	}
}

func TestNew(t *testing.T) {
	params := pkce.New()

	assert.Equal(t, pkce.MethodS256, params.Method)
	assert.Equal(t, pkce.GenerateCodeChallenge(params.CodeVerifier), params.CodeChallenge)
}

func TestGenerateTokenIndependence(t *testing.T) {
	state := pkce.GenerateToken()
	nonce := pkce.GenerateToken()
	verifier := pkce.GenerateCodeVerifier()

	assert.Assert(t, state != nonce)
	assert.Assert(t, state != verifier)
	assert.Assert(t, nonce != verifier)
}

func TestIsValidVerifier(t *testing.T) {
	assert.Assert(t, pkce.IsValidVerifier(strings.Repeat("a", 43)))
	assert.Assert(t, pkce.IsValidVerifier(strings.Repeat("-._~", 32)))
	assert.Assert(t, !pkce.IsValidVerifier(strings.Repeat("a", 42)))
	assert.Assert(t, !pkce.IsValidVerifier(strings.Repeat("a", 129)))
	assert.Assert(t, !pkce.IsValidVerifier(strings.Repeat("a", 42)+"+"))
	assert.Assert(t, !pkce.IsValidVerifier(strings.Repeat("a", 42)+"="))
}
