package bootstrap

import (
	"fmt"

	"github.com/CakeInTech/faydapass/internal/controller"
	"github.com/CakeInTech/faydapass/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (app *BootstrapApp) setupRouter() (*gin.Engine, error) {
	engine := gin.New()
	engine.Use(gin.Recovery())

	if len(app.config.Server.TrustedProxies) > 0 {
		err := engine.SetTrustedProxies(app.config.Server.TrustedProxies)

		if err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	contextMiddleware := middleware.NewContextMiddleware(middleware.ContextMiddlewareConfig{
		FlowCookieName: app.context.flowCookieName,
	})

	err := contextMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize context middleware: %w", err)
	}

	engine.Use(contextMiddleware.Middleware())

	zerologMiddleware := middleware.NewZerologMiddleware()

	err = zerologMiddleware.Init()

	if err != nil {
		return nil, fmt.Errorf("failed to initialize zerolog middleware: %w", err)
	}

	engine.Use(zerologMiddleware.Middleware())

	apiRouter := engine.Group("/api")

	verifyController := controller.NewVerifyController(controller.VerifyControllerConfig{
		FlowCookieName: app.context.flowCookieName,
		FlowTTL:        app.config.Flow.TTL,
		SecureCookie:   app.config.Flow.SecureCookie,
	}, apiRouter, app.services.flowService)

	verifyController.SetupRoutes()

	callbackController := controller.NewCallbackController(controller.CallbackControllerConfig{
		AppURL: app.config.AppURL,
	}, &engine.RouterGroup, app.services.flowService)

	callbackController.SetupRoutes()

	tokenController := controller.NewTokenController(apiRouter, app.services.faydaOAuthService)

	tokenController.SetupRoutes()

	userinfoController := controller.NewUserinfoController(apiRouter, app.services.userinfoService, app.services.flowService)

	userinfoController.SetupRoutes()

	healthController := controller.NewHealthController(apiRouter)

	healthController.SetupRoutes()

	return engine, nil
}
