package loaders

import (
	"fmt"
	"os"
	"strings"

	"github.com/CakeInTech/faydapass/internal/config"

	"github.com/traefik/paerser/cli"
	"github.com/traefik/paerser/env"
)

// Unprefixed variable names used by existing deployments
var legacyEnvVars = map[string]func(cfg *config.Config, value string){
	"CLIENT_ID":              func(cfg *config.Config, value string) { cfg.Fayda.ClientID = value },
	"REDIRECT_URI":           func(cfg *config.Config, value string) { cfg.Fayda.RedirectURI = value },
	"AUTHORIZATION_ENDPOINT": func(cfg *config.Config, value string) { cfg.Fayda.AuthorizationEndpoint = value },
	"TOKEN_ENDPOINT":         func(cfg *config.Config, value string) { cfg.Fayda.TokenEndpoint = value },
	"USERINFO_ENDPOINT":      func(cfg *config.Config, value string) { cfg.Fayda.UserinfoEndpoint = value },
	"PRIVATE_KEY":            func(cfg *config.Config, value string) { cfg.Fayda.PrivateKey = value },
	"PRIVATE_KEY_FILE":       func(cfg *config.Config, value string) { cfg.Fayda.PrivateKeyFile = value },
	"KEY_ID":                 func(cfg *config.Config, value string) { cfg.Fayda.KeyID = value },
}

type EnvLoader struct{}

func (e *EnvLoader) Load(_ []string, cmd *cli.Command) (bool, error) {
	legacy := applyLegacyEnv(os.Environ(), cmd.Configuration)

	vars := env.FindPrefixedEnvVars(os.Environ(), config.DefaultNamePrefix, cmd.Configuration)
	if len(vars) == 0 {
		return legacy, nil
	}

	if err := env.Decode(vars, config.DefaultNamePrefix, cmd.Configuration); err != nil {
		return false, fmt.Errorf("failed to decode configuration from environment variables: %w", err)
	}

	return true, nil
}

func applyLegacyEnv(environ []string, element any) bool {
	cfg, ok := element.(*config.Config)
	if !ok {
		return false
	}

	applied := false

	for _, kv := range environ {
		name, value, found := strings.Cut(kv, "=")
		if !found || value == "" {
			continue
		}
		setter, exists := legacyEnvVars[name]
		if !exists {
			continue
		}
		setter(cfg, value)
		applied = true
	}

	return applied
}
