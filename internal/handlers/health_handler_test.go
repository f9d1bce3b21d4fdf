package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_ReportsVersionAndTransport(t *testing.T) {
	router := gin.New()
	router.GET("/healthcheck", NewHealthHandler("1.2.3", "webhook", func() bool { return true }).Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok","version":"1.2.3","transport":"webhook"}`, w.Body.String())
}

func TestHealthHandler_DegradedWhileTransportUnavailable(t *testing.T) {
	router := gin.New()
	router.GET("/healthcheck", NewHealthHandler("1.2.3", "webhook", func() bool { return false }).Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"degraded","version":"1.2.3","transport":"webhook"}`, w.Body.String())
}
