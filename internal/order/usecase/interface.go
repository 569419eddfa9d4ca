// Package usecase implements the order commands and the saga reactor that applies
// inbound payment, stock and refund events to orders.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// OrderRepository defines order persistence operations
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*domain.Order, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*domain.Order, error)
}

// OutboxWriter appends an outbound event through the caller's transaction.
type OutboxWriter interface {
	Save(
		ctx context.Context,
		eventType event.EventType,
		aggregateType, aggregateID, traceID string,
		payload event.Payload,
	) error
}

// ShippingAddressLookup resolves a buyer's default shipping address.
type ShippingAddressLookup interface {
	GetShippingAddress(ctx context.Context, buyerID uuid.UUID) (*domain.ShippingAddress, error)
}

// ProductLookup resolves orderable products. Unknown ids are omitted from the result.
type ProductLookup interface {
	GetProducts(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
}

// OrderUseCase defines the order commands and queries
type OrderUseCase interface {
	// PlaceOrder creates a PENDING order and its ORDER_CREATED event in one transaction.
	PlaceOrder(ctx context.Context, input *domain.PlaceOrderInput) (*domain.Order, error)

	// CancelOrder cancels a buyer's order and emits ORDER_CANCELLED in one transaction.
	CancelOrder(ctx context.Context, orderID, buyerID uuid.UUID, reason, traceID string) (*domain.Order, error)

	// GetOrder retrieves an order with its items.
	GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)

	// ListMyOrders retrieves a buyer's orders, newest first.
	ListMyOrders(ctx context.Context, buyerID uuid.UUID, offset, limit int) ([]*domain.Order, error)

	// ListByProduct retrieves the orders containing a product, newest first.
	ListByProduct(ctx context.Context, productID uuid.UUID, offset, limit int) ([]*domain.Order, error)
}
