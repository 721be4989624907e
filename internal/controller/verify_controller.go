package controller

import (
	"net/http"

	"github.com/CakeInTech/faydapass/internal/service"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VerifyControllerConfig struct {
	FlowCookieName string
	FlowTTL        int
	SecureCookie   bool
}

type VerifyController struct {
	config VerifyControllerConfig
	router *gin.RouterGroup
	flow   *service.FlowService
}

func NewVerifyController(config VerifyControllerConfig, router *gin.RouterGroup, flow *service.FlowService) *VerifyController {
	return &VerifyController{
		config: config,
		router: router,
		flow:   flow,
	}
}

func (controller *VerifyController) SetupRoutes() {
	verifyGroup := controller.router.Group("/verify")
	verifyGroup.GET("", controller.verifyHandler)
	verifyGroup.GET("/url", controller.verifyURLHandler)
}

func (controller *VerifyController) verifyHandler(c *gin.Context) {
	authURL, ok := controller.initiate(c)

	if !ok {
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

func (controller *VerifyController) verifyURLHandler(c *gin.Context) {
	authURL, ok := controller.initiate(c)

	if !ok {
		return
	}

	c.JSON(200, gin.H{
		"status":  200,
		"message": "OK",
		"url":     authURL,
	})
}

// initiate starts a new flow and sets its cookie. Every attempt gets a fresh
// flow ID so nothing leaks between attempts.
func (controller *VerifyController) initiate(c *gin.Context) (string, bool) {
	flowID := uuid.New().String()

	authURL, err := controller.flow.Initiate(c.Request.Context(), flowID)

	if err != nil {
		tlog.App.Error().Err(err).Msg("Failed to initiate verification")
		c.JSON(500, gin.H{
			"status":  500,
			"message": "Internal Server Error",
		})
		return "", false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(controller.config.FlowCookieName, flowID, controller.config.FlowTTL, "/", "", controller.config.SecureCookie, true)

	tlog.AuditVerificationStarted(c, flowID)

	return authURL, true
}
