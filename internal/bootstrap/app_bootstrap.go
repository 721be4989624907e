package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/repository"
	"github.com/CakeInTech/faydapass/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type BootstrapApp struct {
	config  config.Config
	context struct {
		privateKey     string
		flowTTL        time.Duration
		flowCookieName string
		httpClient     *http.Client
	}
	services Services
}

func NewBootstrapApp(config config.Config) *BootstrapApp {
	return &BootstrapApp{
		config: config,
	}
}

// Validate checks the merged configuration. Missing provider settings are
// fatal, there are no silent fallbacks.
func (app *BootstrapApp) Validate() error {
	v := validator.New()

	if err := v.Struct(app.config); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return fmt.Errorf("invalid configuration: %s failed on %s", validationErrs[0].Namespace(), validationErrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if app.config.Fayda.PrivateKey == "" && app.config.Fayda.PrivateKeyFile == "" {
		return errors.New("invalid configuration: a private key or private key file is required")
	}

	return nil
}

func (app *BootstrapApp) Setup() error {
	if err := app.Validate(); err != nil {
		return err
	}

	// Key material
	privateKey := utils.GetSecret(app.config.Fayda.PrivateKey, app.config.Fayda.PrivateKeyFile)

	if privateKey == "" {
		return errors.New("private key is empty or the private key file could not be read")
	}

	app.context.privateKey = privateKey

	app.config.AppURL = strings.TrimSuffix(app.config.AppURL, "/")

	// Flow
	app.context.flowTTL = time.Duration(app.config.Flow.TTL) * time.Second
	app.context.flowCookieName = config.FlowCookieName

	// Shared provider client
	app.context.httpClient = &http.Client{
		Timeout: time.Duration(app.config.Fayda.Timeout) * time.Second,
	}

	// Dumps
	log.Trace().Str("clientId", app.config.Fayda.ClientID).Str("redirectUri", app.config.Fayda.RedirectURI).Msg("Fayda client")
	log.Trace().Str("authorizationEndpoint", app.config.Fayda.AuthorizationEndpoint).Str("tokenEndpoint", app.config.Fayda.TokenEndpoint).Str("userinfoEndpoint", app.config.Fayda.UserinfoEndpoint).Msg("Fayda endpoints")
	log.Trace().Str("store", app.config.Flow.Store).Dur("ttl", app.context.flowTTL).Msg("Flow store")

	// Database
	db, err := app.SetupDatabase(app.config.DatabasePath)

	if err != nil {
		return fmt.Errorf("failed to setup database: %w", err)
	}

	// Queries
	queries := repository.New(db)

	// Services
	services, err := app.initServices(queries)

	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	app.services = services

	// Setup router
	router, err := app.setupRouter()

	if err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	// Start flow cleanup routine
	if app.services.memoryFlowStore != nil {
		log.Debug().Msg("Starting flow cleanup routine")
		go app.flowCleanup(context.Background())
	}

	// Start server
	address := fmt.Sprintf("%s:%d", app.config.Server.Address, app.config.Server.Port)
	log.Info().Msgf("Starting server on %s", address)
	if err := router.Run(address); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}

	return nil
}

func (app *BootstrapApp) flowCleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := app.services.memoryFlowStore.DeleteExpired()
			if removed > 0 {
				log.Debug().Int("removed", removed).Msg("Cleaned up expired flows")
			}
		}
	}
}
