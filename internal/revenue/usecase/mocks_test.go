package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

type MockRevenueRepository struct {
	mock.Mock
}

func (m *MockRevenueRepository) Apply(
	ctx context.Context,
	eventID string,
	contributions []domain.Contribution,
) (bool, error) {
	args := m.Called(ctx, eventID, contributions)
	return args.Bool(0), args.Error(1)
}

func (m *MockRevenueRepository) Windows(ctx context.Context, storeID uuid.UUID) ([]domain.Window, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Window), args.Error(1)
}
