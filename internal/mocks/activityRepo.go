package mocks

import (
	"context"

	"github.com/cradoe/remitflow/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Insert(ctx context.Context, log *models.ActivityLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockActivityRepo) GetAllByEntity(ctx context.Context, entity, entityID string) ([]models.ActivityLog, error) {
	args := m.Called(ctx, entity, entityID)
	return args.Get(0).([]models.ActivityLog), args.Error(1)
}
