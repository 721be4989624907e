package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/pkce"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

type TokenRequest struct {
	Code         string `json:"code" binding:"required"`
	CodeVerifier string `json:"code_verifier" binding:"required"`
	ClientID     string `json:"client_id"`
	RedirectURI  string `json:"redirect_uri"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	IDToken     string `json:"id_token,omitempty"`
	Scope       string `json:"scope,omitempty"`
}

type TokenExchanger interface {
	Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error)
}

type FaydaOAuthServiceConfig struct {
	ClientID              string
	RedirectURI           string
	AuthorizationEndpoint string
	TokenEndpoint         string
	Scopes                []string
	UILocales             string
	ACRValues             []string
	HTTPClient            *http.Client
}

type FaydaOAuthService struct {
	config FaydaOAuthServiceConfig
	oauth  oauth2.Config
	signer AssertionSigner
}

func NewFaydaOAuthService(config FaydaOAuthServiceConfig, signer AssertionSigner) *FaydaOAuthService {
	return &FaydaOAuthService{
		config: config,
		signer: signer,
	}
}

func (fayda *FaydaOAuthService) Init() error {
	if fayda.config.AuthorizationEndpoint == "" || fayda.config.TokenEndpoint == "" {
		return errors.New("authorization and token endpoints are required")
	}

	if fayda.config.ClientID == "" || fayda.config.RedirectURI == "" {
		return errors.New("client id and redirect uri are required")
	}

	if fayda.config.HTTPClient == nil {
		fayda.config.HTTPClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	fayda.oauth = oauth2.Config{
		ClientID:    fayda.config.ClientID,
		RedirectURL: fayda.config.RedirectURI,
		Scopes:      fayda.config.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   fayda.config.AuthorizationEndpoint,
			TokenURL:  fayda.config.TokenEndpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return nil
}

func (fayda *FaydaOAuthService) ClientID() string {
	return fayda.config.ClientID
}

func (fayda *FaydaOAuthService) RedirectURI() string {
	return fayda.config.RedirectURI
}

// AuthorizationURL builds the provider authorize URL for one attempt.
func (fayda *FaydaOAuthService) AuthorizationURL(state string, nonce string, challenge string) (string, error) {
	if fayda.oauth.Endpoint.AuthURL == "" {
		return "", errors.New("oauth service not initialized")
	}

	if state == "" || nonce == "" || challenge == "" {
		return "", errors.New("state, nonce and code challenge are required")
	}

	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", pkce.MethodS256),
		oauth2.SetAuthURLParam("nonce", nonce),
	}

	if fayda.config.UILocales != "" {
		opts = append(opts, oauth2.SetAuthURLParam("ui_locales", fayda.config.UILocales))
	}

	if len(fayda.config.ACRValues) > 0 {
		opts = append(opts, oauth2.SetAuthURLParam("acr_values", strings.Join(fayda.config.ACRValues, " ")))
	}

	return fayda.oauth.AuthCodeURL(state, opts...), nil
}

// Exchange trades an authorization code for tokens. A fresh client assertion is
// signed first; if that fails the provider is never contacted.
func (fayda *FaydaOAuthService) Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	clientID := req.ClientID
	if clientID == "" {
		clientID = fayda.config.ClientID
	}

	redirectURI := req.RedirectURI
	if redirectURI == "" {
		redirectURI = fayda.config.RedirectURI
	}

	assertion, err := fayda.signer.Sign(clientID, fayda.config.TokenEndpoint)
	if err != nil {
		return nil, err
	}

	oauthConfig := fayda.oauth
	oauthConfig.ClientID = clientID
	oauthConfig.RedirectURL = redirectURI

	ctx = context.WithValue(ctx, oauth2.HTTPClient, fayda.config.HTTPClient)

	log.Debug().Str("clientId", clientID).Str("tokenEndpoint", fayda.config.TokenEndpoint).Msg("Exchanging authorization code")

	token, err := oauthConfig.Exchange(ctx, req.Code,
		oauth2.VerifierOption(req.CodeVerifier),
		oauth2.SetAuthURLParam("client_assertion_type", config.ClientAssertionType),
		oauth2.SetAuthURLParam("client_assertion", assertion),
	)

	if err != nil {
		return nil, mapExchangeError(err)
	}

	res := &TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}

	if idToken, ok := token.Extra("id_token").(string); ok {
		res.IDToken = idToken
	}

	if scope, ok := token.Extra("scope").(string); ok {
		res.Scope = scope
	}

	return res, nil
}

func mapExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		providerErr := &ProviderError{
			Code:        retrieveErr.ErrorCode,
			Description: retrieveErr.ErrorDescription,
			Body:        retrieveErr.Body,
		}
		if retrieveErr.Response != nil {
			providerErr.StatusCode = retrieveErr.Response.StatusCode
		}
		return providerErr
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &NetworkError{Op: "token exchange", Err: err}
	}

	return fmt.Errorf("token exchange failed: %w", err)
}
