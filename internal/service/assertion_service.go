package service

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/rs/zerolog/log"
)

const DefaultAssertionLifetime = 300 * time.Second

type AssertionSigner interface {
	Sign(clientID string, audience string) (string, error)
}

type ClientAssertionServiceConfig struct {
	// Base64 encoded private JWK
	PrivateKey string
	// Overrides the kid found in the JWK
	KeyID    string
	Lifetime time.Duration
	Now      func() time.Time
}

type ClientAssertionService struct {
	config     ClientAssertionServiceConfig
	privateKey *rsa.PrivateKey
	keyID      string
}

func NewClientAssertionService(config ClientAssertionServiceConfig) *ClientAssertionService {
	return &ClientAssertionService{
		config: config,
	}
}

func (assertion *ClientAssertionService) Init() error {
	if assertion.config.Lifetime <= 0 {
		assertion.config.Lifetime = DefaultAssertionLifetime
	}

	if assertion.config.Now == nil {
		assertion.config.Now = time.Now
	}

	privateKey, keyID, err := loadPrivateJWK(assertion.config.PrivateKey)
	if err != nil {
		return err
	}

	if assertion.config.KeyID != "" {
		keyID = assertion.config.KeyID
	}

	if keyID == "" {
		return &KeyLoadError{Err: errors.New("no key id configured and the jwk has no kid")}
	}

	assertion.privateKey = privateKey
	assertion.keyID = keyID

	log.Debug().Str("kid", keyID).Int("bits", privateKey.N.BitLen()).Msg("Client assertion signing key loaded")
	return nil
}

func (assertion *ClientAssertionService) KeyID() string {
	return assertion.keyID
}

// Sign mints a fresh RS256 client assertion for the token endpoint. Every call
// yields a new jti so assertions are never reused.
func (assertion *ClientAssertionService) Sign(clientID string, audience string) (string, error) {
	if assertion.privateKey == nil {
		return "", &KeyLoadError{Err: errors.New("signing key not loaded")}
	}

	if clientID == "" || audience == "" {
		return "", &SigningError{Err: errors.New("client id and audience are required")}
	}

	now := assertion.config.Now().Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss": clientID,
		"sub": clientID,
		"aud": audience,
		"iat": now,
		"exp": now + int64(assertion.config.Lifetime.Seconds()),
		"jti": uuid.New().String(),
	})

	token.Header["kid"] = assertion.keyID

	signed, err := token.SignedString(assertion.privateKey)
	if err != nil {
		return "", &SigningError{Err: err}
	}

	return signed, nil
}

func loadPrivateJWK(encoded string) (*rsa.PrivateKey, string, error) {
	encoded = strings.TrimSpace(encoded)

	if encoded == "" {
		return nil, "", &KeyLoadError{Err: errors.New("private key is empty")}
	}

	raw, err := decodeBase64(encoded)
	if err != nil {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("failed to decode base64 jwk: %w", err)}
	}

	key, err := jwk.ParseKey(raw)
	if err != nil {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("failed to parse jwk: %w", err)}
	}

	if key.KeyType() != jwa.RSA() {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("jwk is not an rsa key (kty %s)", key.KeyType())}
	}

	var exported any
	if err := jwk.Export(key, &exported); err != nil {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("failed to export jwk: %w", err)}
	}

	rsaKey, ok := exported.(*rsa.PrivateKey)
	if !ok {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("jwk is not an rsa private key (got %T)", exported)}
	}

	// Round trip through PKCS8 to reject keys Go cannot sign with
	der, err := x509.MarshalPKCS8PrivateKey(rsaKey)
	if err != nil {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("failed to export pkcs8: %w", err)}
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, "", &KeyLoadError{Err: fmt.Errorf("failed to parse pkcs8: %w", err)}
	}

	keyID, _ := key.KeyID()
	if keyID == "" {
		var fields struct {
			Kid string `json:"kid"`
		}
		if err := json.Unmarshal(raw, &fields); err == nil {
			keyID = fields.Kid
		}
	}

	return parsed.(*rsa.PrivateKey), keyID, nil
}

func decodeBase64(value string) ([]byte, error) {
	for _, encoding := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		decoded, err := encoding.DecodeString(value)
		if err == nil {
			return decoded, nil
		}
	}
	return nil, errors.New("value is not valid base64")
}
