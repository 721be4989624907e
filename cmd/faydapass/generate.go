package main

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/charmbracelet/huh"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/traefik/paerser/cli"
)

type GenerateKeyConfig struct {
	Interactive bool   `description:"Generate the signing key interactively."`
	KeyID       string `description:"Key ID to embed in the JWK, defaults to the RFC 7638 thumbprint."`
	Bits        int    `description:"RSA key size in bits."`
}

func NewGenerateKeyConfig() *GenerateKeyConfig {
	return &GenerateKeyConfig{
		Interactive: false,
		KeyID:       "",
		Bits:        2048,
	}
}

type generatedKey struct {
	PrivateKey string
	PublicJWK  string
	KeyID      string
}

func generateKeyCmd() *cli.Command {
	tCfg := NewGenerateKeyConfig()

	loaders := []cli.ResourceLoader{
		&cli.FlagLoader{},
	}

	return &cli.Command{
		Name:          "generate",
		Description:   "Generate a client assertion signing key",
		Configuration: tCfg,
		Resources:     loaders,
		Run: func(_ []string) error {
			tlog.NewSimpleLogger().Init()

			if tCfg.Interactive {
				bits := strconv.Itoa(tCfg.Bits)

				form := huh.NewForm(
					huh.NewGroup(
						huh.NewInput().Title("Key ID (empty for thumbprint)").Value(&tCfg.KeyID),
						huh.NewSelect[string]().Title("Key size").Options(
							huh.NewOption("2048", "2048"),
							huh.NewOption("3072", "3072"),
							huh.NewOption("4096", "4096"),
						).Value(&bits),
					),
				)

				var baseTheme *huh.Theme = huh.ThemeBase()

				err := form.WithTheme(baseTheme).Run()

				if err != nil {
					return fmt.Errorf("failed to run interactive prompt: %w", err)
				}

				tCfg.Bits, err = strconv.Atoi(bits)

				if err != nil {
					return fmt.Errorf("invalid key size: %w", err)
				}
			}

			key, err := generateSigningKey(tCfg.Bits, tCfg.KeyID)

			if err != nil {
				return err
			}

			tlog.App.Info().Str("kid", key.KeyID).Msg("Generated signing key")
			tlog.App.Info().Msg("Register the public JWK below with Fayda eSignet")

			fmt.Println(key.PublicJWK)

			tlog.App.Info().Msg("Set the value below as FAYDAPASS_FAYDA_PRIVATEKEY (or PRIVATE_KEY), keep it secret")

			fmt.Println(key.PrivateKey)

			return nil
		},
	}
}

func generateSigningKey(bits int, keyID string) (*generatedKey, error) {
	if bits < 2048 {
		return nil, errors.New("key size must be at least 2048 bits")
	}

	rsaKey, err := rsa.GenerateKey(rand.Reader, bits)

	if err != nil {
		return nil, fmt.Errorf("failed to generate rsa key: %w", err)
	}

	privateKey, err := jwk.Import(rsaKey)

	if err != nil {
		return nil, fmt.Errorf("failed to import rsa key: %w", err)
	}

	if keyID == "" {
		thumbprint, err := privateKey.Thumbprint(crypto.SHA256)

		if err != nil {
			return nil, fmt.Errorf("failed to compute thumbprint: %w", err)
		}

		keyID = base64.RawURLEncoding.EncodeToString(thumbprint)
	}

	for name, value := range map[string]any{
		jwk.KeyIDKey:     keyID,
		jwk.AlgorithmKey: jwa.RS256(),
		jwk.KeyUsageKey:  jwk.ForSignature,
	} {
		if err := privateKey.Set(name, value); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", name, err)
		}
	}

	publicKey, err := jwk.PublicKeyOf(privateKey)

	if err != nil {
		return nil, fmt.Errorf("failed to derive public key: %w", err)
	}

	privateJSON, err := json.Marshal(privateKey)

	if err != nil {
		return nil, fmt.Errorf("failed to encode private key: %w", err)
	}

	publicJSON, err := json.Marshal(publicKey)

	if err != nil {
		return nil, fmt.Errorf("failed to encode public key: %w", err)
	}

	return &generatedKey{
		PrivateKey: base64.StdEncoding.EncodeToString(privateJSON),
		PublicJWK:  string(publicJSON),
		KeyID:      keyID,
	}, nil
}
