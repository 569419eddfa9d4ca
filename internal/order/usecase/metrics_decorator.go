package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/metrics"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// orderUseCaseWithMetrics decorates OrderUseCase with metrics instrumentation.
type orderUseCaseWithMetrics struct {
	next    OrderUseCase
	metrics metrics.BusinessMetrics
}

// NewOrderUseCaseWithMetrics wraps an OrderUseCase with metrics recording.
func NewOrderUseCaseWithMetrics(useCase OrderUseCase, m metrics.BusinessMetrics) OrderUseCase {
	return &orderUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (o *orderUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}

	o.metrics.RecordOperation(ctx, "order", operation, status)
	o.metrics.RecordDuration(ctx, "order", operation, time.Since(start), status)
}

// PlaceOrder records metrics for order placement.
func (o *orderUseCaseWithMetrics) PlaceOrder(
	ctx context.Context,
	input *domain.PlaceOrderInput,
) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.PlaceOrder(ctx, input)
	o.record(ctx, "place_order", start, err)
	return order, err
}

// CancelOrder records metrics for order cancellation.
func (o *orderUseCaseWithMetrics) CancelOrder(
	ctx context.Context,
	orderID, buyerID uuid.UUID,
	reason, traceID string,
) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.CancelOrder(ctx, orderID, buyerID, reason, traceID)
	o.record(ctx, "cancel_order", start, err)
	return order, err
}

// GetOrder records metrics for order retrieval.
func (o *orderUseCaseWithMetrics) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	start := time.Now()
	order, err := o.next.GetOrder(ctx, orderID)
	o.record(ctx, "get_order", start, err)
	return order, err
}

// ListMyOrders records metrics for buyer order listing.
func (o *orderUseCaseWithMetrics) ListMyOrders(
	ctx context.Context,
	buyerID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	start := time.Now()
	orders, err := o.next.ListMyOrders(ctx, buyerID, offset, limit)
	o.record(ctx, "list_my_orders", start, err)
	return orders, err
}

// ListByProduct records metrics for product order listing.
func (o *orderUseCaseWithMetrics) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	start := time.Now()
	orders, err := o.next.ListByProduct(ctx, productID, offset, limit)
	o.record(ctx, "list_by_product", start, err)
	return orders, err
}
