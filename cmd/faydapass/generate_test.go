package main

import (
	"encoding/json"
	"testing"

	"github.com/CakeInTech/faydapass/internal/service"

	"gotest.tools/v3/assert"
)

func TestGenerateSigningKey(t *testing.T) {
	key, err := generateSigningKey(2048, "")
	assert.NilError(t, err)
	assert.Assert(t, key.KeyID != "")

	var public map[string]any
	assert.NilError(t, json.Unmarshal([]byte(key.PublicJWK), &public))
	assert.Equal(t, "RSA", public["kty"])
	assert.Equal(t, key.KeyID, public["kid"])
	assert.Equal(t, "RS256", public["alg"])
	assert.Equal(t, "sig", public["use"])
	_, hasPrivate := public["d"]
	assert.Assert(t, !hasPrivate)

	// The generated private key is accepted by the signer
	signer := service.NewClientAssertionService(service.ClientAssertionServiceConfig{
		PrivateKey: key.PrivateKey,
	})
	assert.NilError(t, signer.Init())
	assert.Equal(t, key.KeyID, signer.KeyID())

	_, err = signer.Sign("client-1", "https://provider.example/token")
	assert.NilError(t, err)
}

func TestGenerateSigningKeyOptions(t *testing.T) {
	key, err := generateSigningKey(2048, "my-kid")
	assert.NilError(t, err)
	assert.Equal(t, "my-kid", key.KeyID)

	_, err = generateSigningKey(1024, "")
	assert.ErrorContains(t, err, "at least 2048")
}
