package handlers

import (
	"context"

	"github.com/cogstack/cogstack-api/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) SubmitContactForm(ctx context.Context, req *models.ContactRequest) (*models.ContactResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactResponse), args.Error(1)
}

func (m *mockContactService) ValidateContactForm(ctx context.Context, sub models.ContactSubmission, field string) (*models.ValidateResponse, error) {
	args := m.Called(ctx, sub, field)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ValidateResponse), args.Error(1)
}
