package controller

import (
	"errors"
	"strings"

	"github.com/CakeInTech/faydapass/internal/middleware"
	"github.com/CakeInTech/faydapass/internal/service"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
)

type UserinfoController struct {
	router   *gin.RouterGroup
	userinfo *service.UserinfoService
	flow     *service.FlowService
}

func NewUserinfoController(router *gin.RouterGroup, userinfo *service.UserinfoService, flow *service.FlowService) *UserinfoController {
	return &UserinfoController{
		router:   router,
		userinfo: userinfo,
		flow:     flow,
	}
}

func (controller *UserinfoController) SetupRoutes() {
	controller.router.GET("/userinfo", controller.userinfoHandler)
	controller.router.GET("/verified", controller.verifiedHandler)
}

func (controller *UserinfoController) userinfoHandler(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))

	if !ok {
		missingAuthorization(c)
		return
	}

	controller.resolve(c, token)
}

// verifiedHandler resolves userinfo with the token a successful callback
// stored for this flow. The flow is finished afterwards.
func (controller *UserinfoController) verifiedHandler(c *gin.Context) {
	flowID := c.GetString(middleware.FlowContextKey)

	if flowID == "" {
		missingAuthorization(c)
		return
	}

	token, err := controller.flow.AccessToken(c.Request.Context(), flowID)

	if err != nil {
		if !errors.Is(err, service.ErrFlowKeyNotFound) {
			tlog.App.Error().Err(err).Msg("Failed to read flow")
		}
		missingAuthorization(c)
		return
	}

	if !controller.resolve(c, token) {
		return
	}

	if err := controller.flow.Clear(c.Request.Context(), flowID); err != nil {
		tlog.App.Error().Err(err).Str("flow", flowID).Msg("Failed to clear finished flow")
	}
}

func (controller *UserinfoController) resolve(c *gin.Context, token string) bool {
	claims, err := controller.userinfo.Resolve(c.Request.Context(), token)

	if err != nil {
		var userinfoErr *service.UserinfoError

		if errors.As(err, &userinfoErr) {
			tlog.AuditUserinfoFailure(c, len(userinfoErr.Attempts))
			c.JSON(502, gin.H{
				"error":   "userinfo_failed",
				"message": "all userinfo request variants failed",
				"details": userinfoErr.Attempts,
			})
			return false
		}

		tlog.App.Error().Err(err).Msg("Failed to resolve userinfo")
		c.JSON(502, gin.H{
			"error":   "userinfo_failed",
			"message": err.Error(),
		})
		return false
	}

	tlog.AuditUserinfoResolved(c, claims.FaydaID)
	c.JSON(200, claims)
	return true
}

func missingAuthorization(c *gin.Context) {
	c.JSON(401, gin.H{
		"error":             "missing_authorization",
		"error_description": service.ErrMissingAuthorization.Error(),
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")

	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)

	if token == "" {
		return "", false
	}

	return token, true
}
