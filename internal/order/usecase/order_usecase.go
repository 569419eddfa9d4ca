package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/database"
	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// CancelReasonBuyer is the default reason of a buyer initiated cancellation.
const CancelReasonBuyer = "cancelled by buyer"

// orderUseCase implements OrderUseCase
type orderUseCase struct {
	txManager database.TxManager
	orderRepo OrderRepository
	outbox    OutboxWriter
	addresses ShippingAddressLookup
	products  ProductLookup
	clock     clock.Clock
}

// NewOrderUseCase creates a new OrderUseCase
func NewOrderUseCase(
	txManager database.TxManager,
	orderRepo OrderRepository,
	outbox OutboxWriter,
	addresses ShippingAddressLookup,
	products ProductLookup,
	clk clock.Clock,
) OrderUseCase {
	return &orderUseCase{
		txManager: txManager,
		orderRepo: orderRepo,
		outbox:    outbox,
		addresses: addresses,
		products:  products,
		clock:     clk,
	}
}

// PlaceOrder validates the input, resolves the shipping address and product snapshots and
// persists the order together with ORDER_CREATED. Collaborators are called once, before
// the transaction starts.
func (o *orderUseCase) PlaceOrder(ctx context.Context, input *domain.PlaceOrderInput) (*domain.Order, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	shipping, err := o.addresses.GetShippingAddress(ctx, input.BuyerID)
	if err != nil {
		return nil, err
	}
	shipping.DeliveryMemo = input.DeliveryMemo

	products, err := o.products.GetProducts(ctx, input.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]*domain.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, apperrors.Wrap(domain.ErrProductUnavailable, line.ProductID.String())
		}
		items = append(items, &domain.OrderItem{
			ProductID:    product.ID,
			VariantID:    line.VariantID,
			OwnerID:      product.OwnerID,
			ProductTitle: product.Title,
			Quantity:     line.Quantity,
			UnitPrice:    product.Price,
		})
	}

	now := o.clock.Now()
	orderNumber, err := domain.GenerateOrderNumber(now)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(input.BuyerID, orderNumber, *shipping, items, now)
	if err != nil {
		return nil, err
	}

	err = o.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := o.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		return o.outbox.Save(ctx, event.OrderCreated, event.AggregateTypeOrder, order.ID.String(),
			input.TraceID, orderCreatedPayload(order))
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder locks the order, cancels it and writes ORDER_CANCELLED. An order of another
// buyer is reported as not found.
func (o *orderUseCase) CancelOrder(
	ctx context.Context,
	orderID, buyerID uuid.UUID,
	reason, traceID string,
) (*domain.Order, error) {
	if reason == "" {
		reason = CancelReasonBuyer
	}

	var order *domain.Order
	err := o.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		order, err = o.orderRepo.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.BuyerID != buyerID {
			return domain.ErrOrderNotFound
		}

		now := o.clock.Now()
		if err := order.Cancel(now); err != nil {
			return fmt.Errorf("%w: cannot cancel %s order", err, order.Status)
		}

		if err := o.orderRepo.Update(ctx, order); err != nil {
			return err
		}

		return o.outbox.Save(ctx, event.OrderCancelled, event.AggregateTypeOrder, order.ID.String(), traceID,
			&event.OrderCancelledPayload{
				OrderID:     order.ID,
				UserID:      order.BuyerID,
				Reason:      reason,
				CancelledAt: now,
			})
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order with its items.
func (o *orderUseCase) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return o.orderRepo.GetByID(ctx, orderID)
}

// ListMyOrders retrieves a buyer's orders, newest first.
func (o *orderUseCase) ListMyOrders(
	ctx context.Context,
	buyerID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	return o.orderRepo.ListByBuyer(ctx, buyerID, offset, limit)
}

// ListByProduct retrieves the orders containing a product, newest first.
func (o *orderUseCase) ListByProduct(
	ctx context.Context,
	productID uuid.UUID,
	offset, limit int,
) ([]*domain.Order, error) {
	return o.orderRepo.ListByProduct(ctx, productID, offset, limit)
}

func orderCreatedPayload(order *domain.Order) *event.OrderCreatedPayload {
	items := make([]event.OrderItemSnapshot, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, event.OrderItemSnapshot{
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
			ProductName: item.ProductTitle,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return &event.OrderCreatedPayload{
		OrderID:     order.ID,
		UserID:      order.BuyerID,
		TotalAmount: order.TotalPaymentAmount,
		OrderNumber: order.OrderNumber,
		Items:       items,
	}
}
