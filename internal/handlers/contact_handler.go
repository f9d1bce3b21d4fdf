package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cogstack/cogstack-api/internal/contact"
	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/internal/services"
	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest is logged when the caller disconnects mid-submission
const statusClientClosedRequest = 499

type ContactHandler struct {
	service services.ContactServiceInterface
}

func NewContactHandler(service services.ContactServiceInterface) *ContactHandler {
	return &ContactHandler{service: service}
}

// SubmitContact handles POST /api/v1/contact
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.service.SubmitContactForm(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCaptchaFailed):
			respondError(c, http.StatusBadRequest, "Captcha verification failed", err)
		case errors.Is(err, context.Canceled):
			attachError(c, err)
			c.AbortWithStatus(statusClientClosedRequest)
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	switch {
	case len(resp.Errors) > 0:
		c.JSON(http.StatusUnprocessableEntity, resp)
	case !resp.Success:
		attachError(c, errors.New(resp.Error))
		c.JSON(http.StatusBadGateway, resp)
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// ValidateContact handles POST /api/v1/contact/validate for live field feedback
func (h *ContactHandler) ValidateContact(c *gin.Context) {
	var sub models.ContactSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.service.ValidateContactForm(c.Request.Context(), sub, c.Query("field"))
	if err != nil {
		message := "Internal server error"
		if errors.Is(err, contact.ErrUnknownField) {
			message = "Unknown field"
		}
		respondError(c, statusFor(err), message, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
