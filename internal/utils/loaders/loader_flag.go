package loaders

import (
	"fmt"
	"strings"

	"github.com/traefik/paerser/cli"
	"github.com/traefik/paerser/flag"
)

// Short flag names kept in line with the unprefixed environment variables
var flagAliases = map[string]string{
	"client-id":              "fayda.clientId",
	"redirect-uri":           "fayda.redirectUri",
	"authorization-endpoint": "fayda.authorizationEndpoint",
	"token-endpoint":         "fayda.tokenEndpoint",
	"userinfo-endpoint":      "fayda.userinfoEndpoint",
	"private-key":            "fayda.privateKey",
	"private-key-file":       "fayda.privateKeyFile",
	"key-id":                 "fayda.keyId",
	"port":                   "server.port",
	"address":                "server.address",
}

type FlagLoader struct{}

func (*FlagLoader) Load(args []string, cmd *cli.Command) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}

	if err := flag.Decode(expandFlagAliases(args), cmd.Configuration); err != nil {
		return false, fmt.Errorf("failed to decode configuration from flags: %w", err)
	}

	return true, nil
}

func expandFlagAliases(args []string) []string {
	expanded := make([]string, 0, len(args))

	for _, arg := range args {
		name, ok := strings.CutPrefix(arg, "--")
		if !ok {
			expanded = append(expanded, arg)
			continue
		}

		name, value, hasValue := strings.Cut(name, "=")

		target, exists := flagAliases[name]
		if !exists {
			expanded = append(expanded, arg)
			continue
		}

		if hasValue {
			expanded = append(expanded, "--"+target+"="+value)
		} else {
			expanded = append(expanded, "--"+target)
		}
	}

	return expanded
}
