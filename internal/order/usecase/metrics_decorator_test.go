package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
	orderUsecaseMocks "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordRecords(
	ctx context.Context,
	domain, operation string,
	count int64,
	status string,
) {
	m.Called(ctx, domain, operation, count, status)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestMetricsDecorator_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	input := &domain.PlaceOrderInput{BuyerID: uuid.Must(uuid.NewV7())}

	t.Run("Success_RecordsSuccessMetrics", func(t *testing.T) {
		mockUseCase := &orderUsecaseMocks.MockOrderUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		order := &domain.Order{ID: uuid.Must(uuid.NewV7())}

		mockUseCase.On("PlaceOrder", ctx, input).Return(order, nil).Once()
		mockMetrics.On("RecordOperation", ctx, "order", "place_order", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "order", "place_order", mock.AnythingOfType("time.Duration"), "success").
			Return().
			Once()

		decorator := NewOrderUseCaseWithMetrics(mockUseCase, mockMetrics)
		got, err := decorator.PlaceOrder(ctx, input)

		assert.NoError(t, err)
		assert.Equal(t, order, got)
		mockUseCase.AssertExpectations(t)
		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error_RecordsErrorMetrics", func(t *testing.T) {
		mockUseCase := &orderUsecaseMocks.MockOrderUseCase{}
		mockMetrics := &mockBusinessMetrics{}
		expectedErr := errors.New("place failed")

		mockUseCase.On("PlaceOrder", ctx, input).Return(nil, expectedErr).Once()
		mockMetrics.On("RecordOperation", ctx, "order", "place_order", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "order", "place_order", mock.AnythingOfType("time.Duration"), "error").
			Return().
			Once()

		decorator := NewOrderUseCaseWithMetrics(mockUseCase, mockMetrics)
		got, err := decorator.PlaceOrder(ctx, input)

		assert.Nil(t, got)
		assert.Equal(t, expectedErr, err)
		mockMetrics.AssertExpectations(t)
	})
}

func TestMetricsDecorator_Queries(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV7())
	mockUseCase := &orderUsecaseMocks.MockOrderUseCase{}
	mockMetrics := &mockBusinessMetrics{}

	mockUseCase.On("GetOrder", ctx, id).Return(&domain.Order{ID: id}, nil).Once()
	mockUseCase.On("CancelOrder", ctx, id, id, "", "").Return(nil, domain.ErrInvalidTransition).Once()
	mockUseCase.On("ListMyOrders", ctx, id, 0, 50).Return([]*domain.Order{}, nil).Once()
	mockUseCase.On("ListByProduct", ctx, id, 0, 50).Return([]*domain.Order{}, nil).Once()

	for operation, status := range map[string]string{
		"get_order":       "success",
		"cancel_order":    "error",
		"list_my_orders":  "success",
		"list_by_product": "success",
	} {
		mockMetrics.On("RecordOperation", ctx, "order", operation, status).Return().Once()
		mockMetrics.On("RecordDuration", ctx, "order", operation, mock.Anything, status).Return().Once()
	}

	decorator := NewOrderUseCaseWithMetrics(mockUseCase, mockMetrics)
	_, _ = decorator.GetOrder(ctx, id)
	_, _ = decorator.CancelOrder(ctx, id, id, "", "")
	_, _ = decorator.ListMyOrders(ctx, id, 0, 50)
	_, _ = decorator.ListByProduct(ctx, id, 0, 50)

	mockUseCase.AssertExpectations(t)
	mockMetrics.AssertExpectations(t)
}
