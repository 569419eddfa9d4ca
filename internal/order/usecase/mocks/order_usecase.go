// Package mocks provides mock implementations of the order use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// MockOrderUseCase is a mock implementation of OrderUseCase for testing.
type MockOrderUseCase struct {
	mock.Mock
}

// PlaceOrder mocks the PlaceOrder method of OrderUseCase.
func (m *MockOrderUseCase) PlaceOrder(ctx context.Context, input *domain.PlaceOrderInput) (*domain.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// CancelOrder mocks the CancelOrder method of OrderUseCase.
func (m *MockOrderUseCase) CancelOrder(
	ctx context.Context,
	orderID, buyerID uuid.UUID,
	reason, traceID string,
) (*domain.Order, error) {
	args := m.Called(ctx, orderID, buyerID, reason, traceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// GetOrder mocks the GetOrder method of OrderUseCase.
func (m *MockOrderUseCase) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

// ListMyOrders mocks the ListMyOrders method of OrderUseCase.
func (m *MockOrderUseCase) ListMyOrders(
	ctx context.Context,
	buyerID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	args := m.Called(ctx, buyerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

// ListByProduct mocks the ListByProduct method of OrderUseCase.
func (m *MockOrderUseCase) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	args := m.Called(ctx, productID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}
