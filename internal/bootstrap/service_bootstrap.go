package bootstrap

import (
	"fmt"

	"github.com/CakeInTech/faydapass/internal/repository"
	"github.com/CakeInTech/faydapass/internal/service"

	"github.com/rs/zerolog/log"
)

type Services struct {
	assertionService    *service.ClientAssertionService
	faydaOAuthService   *service.FaydaOAuthService
	flowService         *service.FlowService
	memoryFlowStore     *service.MemoryFlowStore
	userinfoService     *service.UserinfoService
	verificationService *service.VerificationService
}

func (app *BootstrapApp) initServices(queries *repository.Queries) (Services, error) {
	services := Services{}

	// Loaded once, read only afterwards
	assertionService := service.NewClientAssertionService(service.ClientAssertionServiceConfig{
		PrivateKey: app.context.privateKey,
		KeyID:      app.config.Fayda.KeyID,
	})

	err := assertionService.Init()

	if err != nil {
		return Services{}, err
	}

	services.assertionService = assertionService

	faydaOAuthService := service.NewFaydaOAuthService(service.FaydaOAuthServiceConfig{
		ClientID:              app.config.Fayda.ClientID,
		RedirectURI:           app.config.Fayda.RedirectURI,
		AuthorizationEndpoint: app.config.Fayda.AuthorizationEndpoint,
		TokenEndpoint:         app.config.Fayda.TokenEndpoint,
		Scopes:                app.config.Fayda.Scopes,
		UILocales:             app.config.Fayda.UILocales,
		ACRValues:             app.config.Fayda.ACRValues,
		HTTPClient:            app.context.httpClient,
	}, assertionService)

	err = faydaOAuthService.Init()

	if err != nil {
		return Services{}, err
	}

	services.faydaOAuthService = faydaOAuthService

	var flowStore service.FlowStore

	switch app.config.Flow.Store {
	case "redis":
		redisFlowStore := service.NewRedisFlowStore(service.RedisFlowStoreConfig{
			Address:   app.config.Redis.Address,
			Password:  app.config.Redis.Password,
			DB:        app.config.Redis.DB,
			KeyPrefix: app.config.Redis.KeyPrefix,
			TTL:       app.context.flowTTL,
		})

		err = redisFlowStore.Init()

		if err != nil {
			return Services{}, err
		}

		flowStore = redisFlowStore
	case "memory", "":
		memoryFlowStore := service.NewMemoryFlowStore(app.context.flowTTL)
		services.memoryFlowStore = memoryFlowStore
		flowStore = memoryFlowStore
	default:
		return Services{}, fmt.Errorf("unknown flow store %q", app.config.Flow.Store)
	}

	log.Debug().Str("store", app.config.Flow.Store).Msg("Flow store ready")

	services.flowService = service.NewFlowService(service.FlowServiceConfig{
		EnforceNonce: app.config.Fayda.EnforceNonce,
	}, flowStore, faydaOAuthService)

	verificationService := service.NewVerificationService(queries)

	services.verificationService = verificationService

	userinfoService := service.NewUserinfoService(service.UserinfoServiceConfig{
		UserinfoEndpoint: app.config.Fayda.UserinfoEndpoint,
		Variants:         service.DefaultUserinfoVariants,
		HTTPClient:       app.context.httpClient,
	}, verificationService)

	err = userinfoService.Init()

	if err != nil {
		return Services{}, err
	}

	services.userinfoService = userinfoService

	return services, nil
}
