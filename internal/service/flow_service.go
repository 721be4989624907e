package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/CakeInTech/faydapass/internal/pkce"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/golang-jwt/jwt/v5"
)

type CallbackStatus string

const (
	CallbackLoading CallbackStatus = "loading"
	CallbackSuccess CallbackStatus = "success"
	CallbackError   CallbackStatus = "error"
)

type CallbackParams struct {
	Code             string `form:"code"`
	State            string `form:"state"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

type CallbackResult struct {
	Status  CallbackStatus
	Message string
	// Raw provider response kept for display only
	Debug string
	Err   error
	Token *TokenResponse
}

// AuthorizationProvider is the provider side of a flow.
type AuthorizationProvider interface {
	TokenExchanger
	AuthorizationURL(state string, nonce string, challenge string) (string, error)
	ClientID() string
	RedirectURI() string
}

type FlowServiceConfig struct {
	EnforceNonce bool
}

type FlowService struct {
	config   FlowServiceConfig
	store    FlowStore
	provider AuthorizationProvider
}

func NewFlowService(config FlowServiceConfig, store FlowStore, provider AuthorizationProvider) *FlowService {
	return &FlowService{
		config:   config,
		store:    store,
		provider: provider,
	}
}

// Initiate prepares a new attempt for flowID and returns the URL the user
// agent must be sent to. Nothing is stored if the URL cannot be built.
func (flow *FlowService) Initiate(ctx context.Context, flowID string) (string, error) {
	params := pkce.New()
	state := pkce.GenerateToken()
	nonce := pkce.GenerateToken()

	authURL, err := flow.provider.AuthorizationURL(state, nonce, params.CodeChallenge)
	if err != nil {
		return "", fmt.Errorf("failed to build authorization url: %w", err)
	}

	// A restarted attempt must not inherit anything from the previous one
	if err := flow.store.Clear(ctx, flowID); err != nil {
		return "", err
	}

	for key, value := range map[string]string{
		FlowKeyCodeVerifier: params.CodeVerifier,
		FlowKeyState:        state,
		FlowKeyNonce:        nonce,
	} {
		if err := flow.store.Set(ctx, flowID, key, value); err != nil {
			return "", fmt.Errorf("failed to store flow: %w", err)
		}
	}

	tlog.App.Debug().Str("flow", flowID).Msg("Authorization flow initiated")
	return authURL, nil
}

// HandleCallback runs the callback state machine. Every error result is
// terminal, the caller must restart from Initiate.
func (flow *FlowService) HandleCallback(ctx context.Context, flowID string, params CallbackParams) CallbackResult {
	if params.Error != "" {
		providerErr := &ProviderError{
			Code:        params.Error,
			Description: params.ErrorDescription,
		}
		return failed(providerErr, providerErr.Description)
	}

	if params.Code == "" || params.State == "" {
		return failed(ErrMissingCodeOrState, "")
	}

	// State and verifier are consumed before anything else, a second callback
	// for the same flow finds nothing
	artifacts, err := flow.store.Take(ctx, flowID, FlowKeyState, FlowKeyCodeVerifier)
	if err != nil {
		return failed(err, "")
	}

	storedState := artifacts[FlowKeyState]
	if storedState == "" || subtle.ConstantTimeCompare([]byte(storedState), []byte(params.State)) != 1 {
		return failed(ErrStateMismatch, "")
	}

	verifier := artifacts[FlowKeyCodeVerifier]
	if verifier == "" {
		return failed(ErrMissingCodeVerifier, "")
	}

	token, err := flow.provider.Exchange(ctx, TokenRequest{
		Code:         params.Code,
		CodeVerifier: verifier,
		ClientID:     flow.provider.ClientID(),
		RedirectURI:  flow.provider.RedirectURI(),
	})

	if err != nil {
		result := failed(err, "")
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			result.Message = providerErr.Description
			if result.Message == "" {
				result.Message = providerErr.Error()
			}
			result.Debug = string(providerErr.Body)
		}
		return result
	}

	if err := flow.checkNonce(ctx, flowID, token); err != nil {
		return failed(err, "")
	}

	if err := flow.store.Delete(ctx, flowID, FlowKeyNonce); err != nil {
		tlog.App.Error().Err(err).Str("flow", flowID).Msg("Failed to clear nonce")
	}

	if err := flow.store.Set(ctx, flowID, FlowKeyAccessToken, token.AccessToken); err != nil {
		return failed(fmt.Errorf("failed to store access token: %w", err), "")
	}

	if err := flow.store.Set(ctx, flowID, FlowKeyVerificationSuccess, "true"); err != nil {
		return failed(fmt.Errorf("failed to store verification marker: %w", err), "")
	}

	return CallbackResult{
		Status:  CallbackSuccess,
		Message: "verification successful",
		Token:   token,
	}
}

// AccessToken returns the token stored by a successful callback.
func (flow *FlowService) AccessToken(ctx context.Context, flowID string) (string, error) {
	marker, err := flow.store.Get(ctx, flowID, FlowKeyVerificationSuccess)
	if err != nil {
		return "", err
	}

	if marker != "true" {
		return "", ErrFlowKeyNotFound
	}

	return flow.store.Get(ctx, flowID, FlowKeyAccessToken)
}

func (flow *FlowService) Clear(ctx context.Context, flowID string) error {
	return flow.store.Clear(ctx, flowID)
}

func (flow *FlowService) checkNonce(ctx context.Context, flowID string, token *TokenResponse) error {
	if token.IDToken == "" {
		tlog.App.Debug().Str("flow", flowID).Msg("Token response has no id token, nonce not checked")
		return nil
	}

	if !flow.config.EnforceNonce {
		return nil
	}

	expected, err := flow.store.Get(ctx, flowID, FlowKeyNonce)
	if err != nil {
		return ErrNonceMismatch
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.IDToken, claims); err != nil {
		return fmt.Errorf("%w: malformed id token", ErrNonceMismatch)
	}

	nonce, _ := claims["nonce"].(string)
	if subtle.ConstantTimeCompare([]byte(nonce), []byte(expected)) != 1 {
		return ErrNonceMismatch
	}

	return nil
}

func failed(err error, message string) CallbackResult {
	if message == "" {
		message = err.Error()
	}
	return CallbackResult{
		Status:  CallbackError,
		Message: message,
		Err:     err,
	}
}
