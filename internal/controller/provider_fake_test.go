package controller_test

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/CakeInTech/faydapass/internal/bootstrap"
	"github.com/CakeInTech/faydapass/internal/config"
	"github.com/CakeInTech/faydapass/internal/controller"
	"github.com/CakeInTech/faydapass/internal/middleware"
	"github.com/CakeInTech/faydapass/internal/repository"
	"github.com/CakeInTech/faydapass/internal/service"
	"github.com/CakeInTech/faydapass/internal/utils/tlog"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"gotest.tools/v3/assert"
)

const testAppURL = "http://localhost:5173"
const testFlowCookie = "faydapass-flow"

// fakeProvider plays the token and userinfo endpoints of the identity provider.
type fakeProvider struct {
	server *httptest.Server

	mutex          sync.Mutex
	tokenCalls     int
	userinfoCalls  int
	tokenForms     []url.Values
	tokenStatus    int
	tokenBody      string
	userinfoStatus int
	userinfoBody   string
}

func newFakeProvider(t *testing.T) *fakeProvider {
	provider := &fakeProvider{
		tokenStatus:    200,
		tokenBody:      `{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`,
		userinfoStatus: 200,
		userinfoBody:   `{"sub":"u1","email":"a@b.com","name#en":"Abebe"}`,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		provider.mutex.Lock()
		provider.tokenCalls++
		provider.tokenForms = append(provider.tokenForms, r.PostForm)
		status, body := provider.tokenStatus, provider.tokenBody
		provider.mutex.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		provider.mutex.Lock()
		provider.userinfoCalls++
		status, body := provider.userinfoStatus, provider.userinfoBody
		provider.mutex.Unlock()

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})

	provider.server = httptest.NewServer(mux)
	t.Cleanup(provider.server.Close)

	return provider
}

func (provider *fakeProvider) counts() (int, int) {
	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	return provider.tokenCalls, provider.userinfoCalls
}

type testApp struct {
	router        *gin.Engine
	provider      *fakeProvider
	verifications *service.VerificationService
}

func encodedTestKey(t *testing.T) string {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NilError(t, err)

	key, err := jwk.Import(privateKey)
	assert.NilError(t, err)
	assert.NilError(t, key.Set(jwk.KeyIDKey, "test-kid"))

	raw, err := json.Marshal(key)
	assert.NilError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func setupTestApp(t *testing.T) *testApp {
	tlog.NewSimpleLogger().Init()

	gin.SetMode(gin.TestMode)

	provider := newFakeProvider(t)

	app := bootstrap.NewBootstrapApp(config.Config{})
	db, err := app.SetupDatabase(":memory:")
	assert.NilError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	verifications := service.NewVerificationService(repository.New(db))

	signer := service.NewClientAssertionService(service.ClientAssertionServiceConfig{
		PrivateKey: encodedTestKey(t),
	})
	assert.NilError(t, signer.Init())

	httpClient := &http.Client{Timeout: 5 * time.Second}

	fayda := service.NewFaydaOAuthService(service.FaydaOAuthServiceConfig{
		ClientID:              "client-1",
		RedirectURI:           "http://localhost:3000/callback",
		AuthorizationEndpoint: provider.server.URL + "/authorize",
		TokenEndpoint:         provider.server.URL + "/token",
		Scopes:                config.DefaultScopes,
		UILocales:             "en",
		ACRValues:             config.DefaultACRValues,
		HTTPClient:            httpClient,
	}, signer)
	assert.NilError(t, fayda.Init())

	flow := service.NewFlowService(service.FlowServiceConfig{
		EnforceNonce: true,
	}, service.NewMemoryFlowStore(10*time.Minute), fayda)

	userinfo := service.NewUserinfoService(service.UserinfoServiceConfig{
		UserinfoEndpoint: provider.server.URL + "/userinfo",
		HTTPClient:       httpClient,
	}, verifications)
	assert.NilError(t, userinfo.Init())

	router := gin.New()

	contextMiddleware := middleware.NewContextMiddleware(middleware.ContextMiddlewareConfig{
		FlowCookieName: testFlowCookie,
	})
	assert.NilError(t, contextMiddleware.Init())
	router.Use(contextMiddleware.Middleware())

	apiRouter := router.Group("/api")

	controller.NewVerifyController(controller.VerifyControllerConfig{
		FlowCookieName: testFlowCookie,
		FlowTTL:        600,
	}, apiRouter, flow).SetupRoutes()

	controller.NewCallbackController(controller.CallbackControllerConfig{
		AppURL: testAppURL,
	}, &router.RouterGroup, flow).SetupRoutes()

	controller.NewTokenController(apiRouter, fayda).SetupRoutes()
	controller.NewUserinfoController(apiRouter, userinfo, flow).SetupRoutes()
	controller.NewHealthController(apiRouter).SetupRoutes()

	return &testApp{
		router:        router,
		provider:      provider,
		verifications: verifications,
	}
}

// startFlow calls /api/verify and returns the flow cookie and the authorize query.
func (app *testApp) startFlow(t *testing.T) (*http.Cookie, url.Values) {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/verify", nil)
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, 302, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	assert.NilError(t, err)

	cookies := recorder.Result().Cookies()
	assert.Equal(t, 1, len(cookies))

	return cookies[0], location.Query()
}
