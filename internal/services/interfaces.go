package services

import (
	"context"

	"github.com/cogstack/cogstack-api/internal/models"
)

// ContactServiceInterface defines the interface for contact service operations
type ContactServiceInterface interface {
	SubmitContactForm(ctx context.Context, req *models.ContactRequest) (*models.ContactResponse, error)
	ValidateContactForm(ctx context.Context, sub models.ContactSubmission, field string) (*models.ValidateResponse, error)
}

// StackServiceInterface defines the interface for stack diagram operations
type StackServiceInterface interface {
	GetLayers(ctx context.Context, activeID string) (*models.LayersResponse, error)
	GetLayer(ctx context.Context, id string) (*models.Layer, error)
}

// Ensure concrete types implement interfaces
var (
	_ ContactServiceInterface = (*ContactService)(nil)
	_ StackServiceInterface   = (*StackService)(nil)
)
