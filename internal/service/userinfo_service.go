package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/golang-jwt/jwt/v5"
)

const maxUserinfoBodySize = 5 << 20

// UserinfoVariant describes one way of calling the userinfo endpoint.
type UserinfoVariant struct {
	Name   string
	Method string
	Accept string
	// Send the access token as a form encoded body as well as the bearer header
	FormBody bool
}

// The provider does not honour a single request shape, variants are tried in order.
var DefaultUserinfoVariants = []UserinfoVariant{
	{Name: "post_form", Method: http.MethodPost, FormBody: true},
	{Name: "get_bearer", Method: http.MethodGet},
	{Name: "get_jwt", Method: http.MethodGet, Accept: "application/jwt"},
	{Name: "get_json", Method: http.MethodGet, Accept: "application/json"},
}

type UserinfoClaims struct {
	Sub         string         `json:"sub"`
	FaydaID     string         `json:"fayda_id"`
	Name        string         `json:"name,omitempty"`
	NameEN      string         `json:"name_en,omitempty"`
	NameAM      string         `json:"name_am,omitempty"`
	GivenName   string         `json:"given_name,omitempty"`
	FamilyName  string         `json:"family_name,omitempty"`
	Email       string         `json:"email,omitempty"`
	PhoneNumber string         `json:"phone_number,omitempty"`
	Picture     string         `json:"picture,omitempty"`
	Gender      string         `json:"gender,omitempty"`
	Birthdate   string         `json:"birthdate,omitempty"`
	Nationality string         `json:"nationality,omitempty"`
	Address     any            `json:"address,omitempty"`
	Raw         map[string]any `json:"claims"`
}

type VerificationRecorder interface {
	RecordVerification(ctx context.Context, claims *UserinfoClaims) error
}

type UserinfoServiceConfig struct {
	UserinfoEndpoint string
	Variants         []UserinfoVariant
	HTTPClient       *http.Client
}

type UserinfoService struct {
	config   UserinfoServiceConfig
	recorder VerificationRecorder
}

func NewUserinfoService(config UserinfoServiceConfig, recorder VerificationRecorder) *UserinfoService {
	return &UserinfoService{
		config:   config,
		recorder: recorder,
	}
}

func (userinfo *UserinfoService) Init() error {
	if userinfo.config.UserinfoEndpoint == "" {
		return errors.New("userinfo endpoint is required")
	}

	if len(userinfo.config.Variants) == 0 {
		userinfo.config.Variants = DefaultUserinfoVariants
	}

	if userinfo.config.HTTPClient == nil {
		userinfo.config.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	return nil
}

// Resolve fetches and normalizes the subject claims for accessToken. Variants
// are tried one at a time and the first usable response wins. The outcome is
// recorded on success, a recording failure only gets logged.
func (userinfo *UserinfoService) Resolve(ctx context.Context, accessToken string) (*UserinfoClaims, error) {
	if accessToken == "" {
		return nil, ErrMissingAuthorization
	}

	attempts := make([]UserinfoAttempt, 0, len(userinfo.config.Variants))

	for _, variant := range userinfo.config.Variants {
		raw, status, err := userinfo.fetch(ctx, variant, accessToken)

		if err != nil {
			tlog.App.Debug().Err(err).Str("variant", variant.Name).Int("status", status).Msg("Userinfo variant failed")
			attempts = append(attempts, UserinfoAttempt{
				Variant:    variant.Name,
				StatusCode: status,
				Error:      err.Error(),
			})
			continue
		}

		claims := NormalizeClaims(raw)

		tlog.App.Debug().Str("variant", variant.Name).Str("sub", claims.Sub).Msg("Userinfo resolved")

		if userinfo.recorder != nil {
			if err := userinfo.recorder.RecordVerification(ctx, claims); err != nil {
				tlog.App.Error().Err(err).Str("sub", claims.Sub).Msg("Failed to record verification")
			}
		}

		return claims, nil
	}

	return nil, &UserinfoError{Attempts: attempts}
}

func (userinfo *UserinfoService) fetch(ctx context.Context, variant UserinfoVariant, accessToken string) (map[string]any, int, error) {
	var body io.Reader

	if variant.FormBody {
		body = strings.NewReader(url.Values{"access_token": {accessToken}}.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, variant.Method, userinfo.config.UserinfoEndpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	if variant.FormBody {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	if variant.Accept != "" {
		req.Header.Set("Accept", variant.Accept)
	}

	res, err := userinfo.config.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Op: "userinfo request", Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxUserinfoBodySize))
	if err != nil {
		return nil, res.StatusCode, &NetworkError{Op: "userinfo read", Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, res.StatusCode, fmt.Errorf("request failed with status: %s", res.Status)
	}

	claims, err := ParseUserinfoBody(data)
	if err != nil {
		return nil, res.StatusCode, err
	}

	return claims, res.StatusCode, nil
}

// ParseUserinfoBody accepts a JSON object or a compact JWT whose payload holds
// the claims. The JWT signature is not checked.
func ParseUserinfoBody(data []byte) (map[string]any, error) {
	data = bytes.TrimSpace(data)

	var claims map[string]any
	if err := json.Unmarshal(data, &claims); err == nil && claims != nil {
		return claims, nil
	}

	compact := string(data)
	if strings.Count(compact, ".") != 2 {
		return nil, errors.New("response is neither json nor a compact jwt")
	}

	mapClaims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(compact, mapClaims)

	// An unknown alg still leaves the payload decoded
	if err != nil && !(errors.Is(err, jwt.ErrTokenUnverifiable) && len(mapClaims) > 0) {
		return nil, fmt.Errorf("failed to decode jwt response: %w", err)
	}

	if len(mapClaims) == 0 {
		return nil, errors.New("jwt response has no claims")
	}

	return map[string]any(mapClaims), nil
}

// NormalizeClaims maps provider claim names onto UserinfoClaims. Localized
// claims such as name#en become name_en.
func NormalizeClaims(raw map[string]any) *UserinfoClaims {
	flat := make(map[string]any, len(raw))
	for key, value := range raw {
		flat[strings.ReplaceAll(key, "#", "_")] = value
	}

	claims := &UserinfoClaims{
		Sub:         stringClaim(flat, "sub"),
		NameEN:      stringClaim(flat, "name_en"),
		NameAM:      stringClaim(flat, "name_am"),
		GivenName:   stringClaim(flat, "given_name"),
		FamilyName:  stringClaim(flat, "family_name"),
		Email:       stringClaim(flat, "email"),
		PhoneNumber: stringClaim(flat, "phone_number"),
		Picture:     stringClaim(flat, "picture"),
		Gender:      stringClaim(flat, "gender"),
		Birthdate:   stringClaim(flat, "birthdate"),
		Nationality: stringClaim(flat, "nationality"),
		Address:     flat["address"],
		Raw:         flat,
	}

	claims.FaydaID = claims.Sub

	switch {
	case stringClaim(flat, "name") != "":
		claims.Name = stringClaim(flat, "name")
	case claims.NameEN != "":
		claims.Name = claims.NameEN
	default:
		claims.Name = strings.TrimSpace(claims.GivenName + " " + claims.FamilyName)
	}

	if claims.Gender == "" {
		claims.Gender = stringClaim(flat, "gender_en")
	}

	return claims
}

func stringClaim(claims map[string]any, key string) string {
	value, ok := claims[key]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool, json.Number:
		return fmt.Sprint(v)
	}

	return ""
}
