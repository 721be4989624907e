package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestVerifyHandler(t *testing.T) {
	app := setupTestApp(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/verify", nil)
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, 302, recorder.Code)

	location, err := url.Parse(recorder.Header().Get("Location"))
	assert.NilError(t, err)
	assert.Equal(t, "/authorize", location.Path)

	q := location.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/callback", q.Get("redirect_uri"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Assert(t, q.Get("code_challenge") != "")
	assert.Assert(t, q.Get("state") != "")
	assert.Assert(t, q.Get("nonce") != "")
	assert.Assert(t, q.Get("state") != q.Get("nonce"))
	assert.Equal(t, "en", q.Get("ui_locales"))
	assert.Assert(t, strings.Contains(q.Get("acr_values"), "mosip:idp:acr:biometrics"))

	cookies := recorder.Result().Cookies()
	assert.Equal(t, 1, len(cookies))

	cookie := cookies[0]
	assert.Equal(t, testFlowCookie, cookie.Name)
	assert.Assert(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 600, cookie.MaxAge)
	assert.Equal(t, "", cookie.Domain)
}

func TestVerifyURLHandler(t *testing.T) {
	app := setupTestApp(t)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/verify/url", nil)
	app.router.ServeHTTP(recorder, req)

	assert.Equal(t, 200, recorder.Code)

	var res struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		URL     string `json:"url"`
	}
	assert.NilError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

	assert.Equal(t, 200, res.Status)
	assert.Equal(t, "OK", res.Message)
	assert.Assert(t, strings.HasPrefix(res.URL, app.provider.server.URL+"/authorize?"))

	// Each attempt is a new flow
	second := httptest.NewRecorder()
	app.router.ServeHTTP(second, httptest.NewRequest("GET", "/api/verify/url", nil))
	assert.Assert(t, recorder.Result().Cookies()[0].Value != second.Result().Cookies()[0].Value)
}
