package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kabadi/intake-service/internal/app"
	"github.com/kabadi/intake-service/internal/config"
)

func newTestServer(t *testing.T, env map[string]string) *httptest.Server {
	t.Helper()
	cfg, err := config.FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)

	application := app.NewApp(context.Background(), cfg)
	srv := httptest.NewServer(newHandler(application))
	t.Cleanup(func() {
		srv.Close()
		application.Close()
	})
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/live", "").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, http.MethodGet, srv.URL+"/api/ready", "").StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, do(t, http.MethodGet, srv.URL+"/api/health", "").StatusCode)

	created := do(t, http.MethodPost, srv.URL+"/api/pickup-requests", `{
		"name":"Asha Rao","email":"asha@example.com","phone":"+91 98765 43210",
		"address":"12 MG Road, Bengaluru 560001","scrapTypes":["Plastic","Metal"]}`)
	assert.Equal(t, http.StatusCreated, created.StatusCode)
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/pickup-requests", "").StatusCode)

	notFound := do(t, http.MethodGet, srv.URL+"/api/nope", "")
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, "application/json", notFound.Header.Get("Content-Type"))

	m := do(t, http.MethodGet, srv.URL+"/metrics", "")
	assert.Equal(t, http.StatusOK, m.StatusCode)

	assert.Equal(t, http.StatusOK, do(t, http.MethodPost, srv.URL+"/api/test-notifications", "").StatusCode)
}

func TestTestNotificationsHiddenInProduction(t *testing.T) {
	srv := newTestServer(t, map[string]string{"ENV": "production", "APP_URL_FROM_ANYWHERE": "https://kabadi.example"})
	resp := do(t, http.MethodPost, srv.URL+"/api/test-notifications", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewsletterRateLimit(t *testing.T) {
	srv := newTestServer(t, nil)
	for i := 0; i < 10; i++ {
		resp := do(t, http.MethodPost, srv.URL+"/api/newsletter-subscriptions", `{"email":"reader@example.com"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, "request %d", i+1)
	}
	resp := do(t, http.MethodPost, srv.URL+"/api/newsletter-subscriptions", `{"email":"reader@example.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Listing is not behind the signup limiter.
	assert.Equal(t, http.StatusOK, do(t, http.MethodGet, srv.URL+"/api/newsletter-subscriptions", "").StatusCode)
}

func TestCORSWithNoConfiguredOriginDeniesAll(t *testing.T) {
	cfg, err := config.FromEnv(func(string) string { return "" })
	require.NoError(t, err)
	cfg.LDFlag_CORSHighSecurity = true

	application := app.NewApp(context.Background(), cfg)
	srv := httptest.NewServer(newHandler(application))
	t.Cleanup(func() {
		srv.Close()
		application.Close()
	})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/live", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCORSProductionAllowsOnlyAppURL(t *testing.T) {
	srv := newTestServer(t, map[string]string{"ENV": "production", "APP_URL_FROM_ANYWHERE": "https://kabadi.example"})

	for origin, want := range map[string]string{
		"https://kabadi.example": "https://kabadi.example",
		"http://localhost:5173":  "",
	} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/live", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.Header.Get("Access-Control-Allow-Origin"), origin)
	}
}
