// Package mocks provides mock implementations of the revenue use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// MockRevenueUseCase is a mock implementation of RevenueUseCase for testing.
type MockRevenueUseCase struct {
	mock.Mock
}

// GetStoreRevenue mocks the GetStoreRevenue method of RevenueUseCase.
func (m *MockRevenueUseCase) GetStoreRevenue(ctx context.Context, storeID uuid.UUID) (*domain.StoreRevenue, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoreRevenue), args.Error(1)
}
