package handlers

import (
	"errors"
	"net/http"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/internal/services"
	"github.com/cogstack/cogstack-api/internal/stack"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

type StackHandler struct {
	service services.StackServiceInterface
}

func NewStackHandler(service services.StackServiceInterface) *StackHandler {
	return &StackHandler{service: service}
}

// GetLayers handles GET /api/v1/stack/layers[?active=id]
func (h *StackHandler) GetLayers(c *gin.Context) {
	resp, err := h.service.GetLayers(c.Request.Context(), c.Query("active"))
	if err != nil {
		message := "Failed to fetch layers"
		if errors.Is(err, stack.ErrUnknownLayer) {
			message = "Unknown layer"
		}
		respondError(c, statusFor(err), message, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, resp)
}

// GetLayer handles GET /api/v1/stack/layers/:id
func (h *StackHandler) GetLayer(c *gin.Context) {
	layer, err := h.service.GetLayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		message := "Failed to fetch layer"
		if errors.Is(err, apperrors.ErrNotFound) {
			message = "Layer not found"
		}
		respondError(c, statusFor(err), message, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=300")
	c.JSON(http.StatusOK, models.LayerResponse{Layer: *layer})
}
