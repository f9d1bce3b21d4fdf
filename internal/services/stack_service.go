package services

import (
	"context"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/cogstack/cogstack-api/internal/stack"
	apperrors "github.com/cogstack/cogstack-api/pkg/errors"
)

// StackService serves the cognitive stack diagram
type StackService struct{}

func NewStackService() *StackService {
	return &StackService{}
}

// GetLayers returns every layer in display order. A non-empty activeID
// is resolved through a Selection and must name a known layer.
func (s *StackService) GetLayers(_ context.Context, activeID string) (*models.LayersResponse, error) {
	resp := &models.LayersResponse{Layers: stack.Layers()}
	if activeID == "" {
		return resp, nil
	}

	selection := stack.NewSelection()
	if err := selection.Select(activeID); err != nil {
		return nil, err
	}
	resp.ActiveID = selection.ActiveID()
	return resp, nil
}

// GetLayer returns a single layer
func (s *StackService) GetLayer(_ context.Context, id string) (*models.Layer, error) {
	layer, ok := stack.Lookup(id)
	if !ok {
		return nil, apperrors.NotFoundError("stack layer " + id)
	}
	return &layer, nil
}
