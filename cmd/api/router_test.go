package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cogstack/cogstack-api/config"
	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			AppEnv:         "test",
			AllowedOrigins: []string{"https://cogstack.co.za"},
		},
		Contact: config.ContactConfig{
			Transport:        config.TransportSimulated,
			DedupeTTLSeconds: 60,
		},
		Observability: config.ObservabilityConfig{ServiceName: "cogstack-api", ServiceVersion: "test"},
	}
}

func TestRouter_Routes(t *testing.T) {
	limiters := newRateLimiters()
	defer limiters.Stop()
	router := newRouter(testConfig(), contact.NewSimulatedTransport(0, nil), limiters)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{method: http.MethodGet, path: "/api/healthcheck", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/metrics", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/stack/layers", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/stack/layers/edge", want: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/stack/layers/nope", want: http.StatusNotFound},
		{method: http.MethodPost, path: "/api/v1/contact/validate", body: `{"email":"x"}`, want: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/contact", body: `{"name":"Jane","email":"jane@acme.io","message":"We need a voice agent."}`, want: http.StatusOK},
		{method: http.MethodPost, path: "/api/v1/contact", body: `{}`, want: http.StatusUnprocessableEntity},
		{method: http.MethodPost, path: "/api/v1/mcp", body: `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	limiters := newRateLimiters()
	defer limiters.Stop()
	router := newRouter(testConfig(), contact.NewSimulatedTransport(0, nil), limiters)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/contact", http.NoBody)
	req.Header.Set("Origin", "https://cogstack.co.za")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://cogstack.co.za", w.Header().Get("Access-Control-Allow-Origin"))
}
