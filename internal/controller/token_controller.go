package controller

import (
	"encoding/json"
	"errors"

	"github.com/CakeInTech/faydapass/internal/service"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
)

type TokenController struct {
	router    *gin.RouterGroup
	exchanger service.TokenExchanger
}

func NewTokenController(router *gin.RouterGroup, exchanger service.TokenExchanger) *TokenController {
	return &TokenController{
		router:    router,
		exchanger: exchanger,
	}
}

func (controller *TokenController) SetupRoutes() {
	controller.router.POST("/token", controller.tokenHandler)
}

func (controller *TokenController) tokenHandler(c *gin.Context) {
	var req service.TokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		tlog.App.Warn().Err(err).Msg("Invalid token request")
		c.JSON(400, gin.H{
			"error":             "invalid_request",
			"error_description": "code and code_verifier are required",
		})
		return
	}

	token, err := controller.exchanger.Exchange(c.Request.Context(), req)

	if err != nil {
		controller.handleExchangeError(c, err)
		return
	}

	c.JSON(200, token)
}

func (controller *TokenController) handleExchangeError(c *gin.Context, err error) {
	var providerErr *service.ProviderError
	var networkErr *service.NetworkError
	var keyErr *service.KeyLoadError
	var signErr *service.SigningError

	switch {
	case errors.As(err, &providerErr):
		tlog.App.Warn().Err(err).Int("status", providerErr.StatusCode).Msg("Provider rejected token exchange")

		status := providerErr.StatusCode
		if status < 400 {
			status = 400
		}

		// Provider bodies are passed through untouched
		if json.Valid(providerErr.Body) {
			c.Data(status, "application/json; charset=utf-8", providerErr.Body)
			return
		}

		code := providerErr.Code
		if code == "" {
			code = "token_exchange_failed"
		}

		description := providerErr.Description
		if description == "" {
			description = string(providerErr.Body)
		}

		c.JSON(status, gin.H{
			"error":             code,
			"error_description": description,
		})
	case errors.As(err, &keyErr), errors.As(err, &signErr):
		tlog.App.Error().Err(err).Msg("Client assertion unavailable, token exchange not attempted")
		c.JSON(500, gin.H{
			"error":             "server_error",
			"error_description": "client assertion could not be created",
		})
	case errors.As(err, &networkErr):
		tlog.App.Error().Err(err).Msg("Token endpoint unreachable")
		c.JSON(502, gin.H{
			"error":             "network_error",
			"error_description": networkErr.Error(),
		})
	default:
		tlog.App.Error().Err(err).Msg("Token exchange failed")
		c.JSON(502, gin.H{
			"error":             "token_exchange_failed",
			"error_description": err.Error(),
		})
	}
}
