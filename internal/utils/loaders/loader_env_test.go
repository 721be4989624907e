package loaders

import (
	"testing"

	"github.com/CakeInTech/faydapass/internal/config"

	"gotest.tools/v3/assert"
)

func TestApplyLegacyEnv(t *testing.T) {
	cfg := config.NewDefaultConfiguration()

	applied := applyLegacyEnv([]string{
		"CLIENT_ID=client-1",
		"REDIRECT_URI=http://localhost:3000/callback",
		"TOKEN_ENDPOINT=https://provider.example/token",
		"PRIVATE_KEY=ZXhhbXBsZQ==",
		"KEY_ID=kid-1",
		"UNRELATED=value",
		"USERINFO_ENDPOINT=",
	}, cfg)

	assert.Assert(t, applied)
	assert.Equal(t, "client-1", cfg.Fayda.ClientID)
	assert.Equal(t, "http://localhost:3000/callback", cfg.Fayda.RedirectURI)
	assert.Equal(t, "https://provider.example/token", cfg.Fayda.TokenEndpoint)
	assert.Equal(t, "ZXhhbXBsZQ==", cfg.Fayda.PrivateKey)
	assert.Equal(t, "kid-1", cfg.Fayda.KeyID)

	// Empty values keep the defaults
	assert.Equal(t, config.DefaultUserinfoEndpoint, cfg.Fayda.UserinfoEndpoint)
	assert.Equal(t, config.DefaultAuthorizationEndpoint, cfg.Fayda.AuthorizationEndpoint)
}

func TestApplyLegacyEnvNothingSet(t *testing.T) {
	cfg := config.NewDefaultConfiguration()

	assert.Assert(t, !applyLegacyEnv([]string{"PATH=/usr/bin"}, cfg))
	assert.Assert(t, !applyLegacyEnv([]string{"CLIENT_ID=x"}, "not a config"))
}
