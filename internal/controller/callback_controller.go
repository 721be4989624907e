package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/middleware"
	"github.com/CakeInTech/faydapass/internal/service"
	"github.com/CakeInTech/faydapass/internal/utils"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	"github.com/google/go-querystring/query"
)

const restartPath = "/api/verify"

type CallbackControllerConfig struct {
	AppURL string
}

type CallbackController struct {
	config CallbackControllerConfig
	router *gin.RouterGroup
	flow   *service.FlowService
}

func NewCallbackController(config CallbackControllerConfig, router *gin.RouterGroup, flow *service.FlowService) *CallbackController {
	return &CallbackController{
		config: config,
		router: router,
		flow:   flow,
	}
}

func (controller *CallbackController) SetupRoutes() {
	controller.router.GET("/callback", controller.callbackHandler)
}

func (controller *CallbackController) callbackHandler(c *gin.Context) {
	var params service.CallbackParams

	if err := c.ShouldBindQuery(&params); err != nil {
		tlog.App.Error().Err(err).Msg("Failed to bind callback query")
		params = service.CallbackParams{}
	}

	flowID := c.GetString(middleware.FlowContextKey)

	result := controller.flow.HandleCallback(c.Request.Context(), flowID, params)

	switch result.Status {
	case service.CallbackSuccess:
		tlog.AuditVerificationSuccess(c, flowID)
		tlog.App.Trace().Str("accessToken", utils.Redact(result.Token.AccessToken)).Msg("Access token stored for flow")
	default:
		tlog.AuditVerificationFailure(c, flowID, failureReason(result.Err))
		tlog.App.Warn().Err(result.Err).Str("flow", flowID).Msg("Verification callback failed")
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		controller.respondJSON(c, result)
		return
	}

	if result.Status == service.CallbackSuccess {
		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/verified", controller.config.AppURL))
		return
	}

	queries, err := query.Values(config.ErrorQuery{
		Message: result.Message,
		Restart: restartPath,
	})

	if err != nil {
		tlog.App.Error().Err(err).Msg("Failed to encode error query")
		c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/error", controller.config.AppURL))
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/error?%s", controller.config.AppURL, queries.Encode()))
}

func (controller *CallbackController) respondJSON(c *gin.Context, result service.CallbackResult) {
	if result.Status == service.CallbackSuccess {
		c.JSON(200, gin.H{
			"status":       string(result.Status),
			"message":      result.Message,
			"access_token": result.Token.AccessToken,
			"token_type":   result.Token.TokenType,
			"expires_in":   result.Token.ExpiresIn,
		})
		return
	}

	body := gin.H{
		"status":  string(result.Status),
		"message": result.Message,
		"restart": restartPath,
	}

	if result.Debug != "" {
		body["debug"] = result.Debug
	}

	c.JSON(callbackErrorStatus(result.Err), body)
}

func callbackErrorStatus(err error) int {
	var providerErr *service.ProviderError
	var networkErr *service.NetworkError

	switch {
	case service.IsProtocolViolation(err):
		return 400
	case errors.As(err, &providerErr):
		return 400
	case errors.As(err, &networkErr):
		return 502
	}

	return 500
}

func failureReason(err error) string {
	var providerErr *service.ProviderError
	var networkErr *service.NetworkError
	var keyErr *service.KeyLoadError
	var signErr *service.SigningError

	switch {
	case errors.Is(err, service.ErrStateMismatch):
		return "state_mismatch"
	case errors.Is(err, service.ErrMissingCodeVerifier):
		return "missing_code_verifier"
	case errors.Is(err, service.ErrMissingCodeOrState):
		return "missing_code_or_state"
	case errors.Is(err, service.ErrNonceMismatch):
		return "nonce_mismatch"
	case errors.As(err, &providerErr):
		return "provider_error"
	case errors.As(err, &networkErr):
		return "network_error"
	case errors.As(err, &keyErr), errors.As(err, &signErr):
		return "key_material_error"
	}

	return "internal_error"
}
