package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version   string
	transport string
	available func() bool
}

// NewHealthHandler reports "degraded" whenever available returns false
func NewHealthHandler(version, transport string, available func() bool) *HealthHandler {
	return &HealthHandler{
		version:   version,
		transport: transport,
		available: available,
	}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	status := "ok"
	if h.available != nil && !h.available() {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"version":   h.version,
		"transport": h.transport,
	})
}
