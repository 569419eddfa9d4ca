package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload is the body of one catalog event. The set of implementations is closed:
// only pointers to the payload structs of this package satisfy it.
type Payload interface {
	EventType() EventType
	isPayload()
}

// OrderItemSnapshot is one line of an order as announced in ORDER_CREATED.
type OrderItemSnapshot struct {
	ProductID   uuid.UUID  `json:"productId"`
	VariantID   *uuid.UUID `json:"variantId,omitempty"`
	ProductName string     `json:"productName"`
	UnitPrice   int64      `json:"unitPrice"`
	Quantity    int        `json:"quantity"`
}

// OrderCreatedPayload announces a new PENDING order.
type OrderCreatedPayload struct {
	OrderID     uuid.UUID           `json:"orderId"`
	UserID      uuid.UUID           `json:"userId"`
	TotalAmount int64               `json:"totalAmount"`
	OrderNumber string              `json:"orderNumber,omitempty"`
	Items       []OrderItemSnapshot `json:"items,omitempty"`
}

// OrderConfirmedItem attributes one confirmed line to the store that sold it.
type OrderConfirmedItem struct {
	ProductID uuid.UUID `json:"productId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Subtotal  int64     `json:"subtotal"`
	Quantity  int       `json:"quantity"`
}

// OrderConfirmedPayload announces that payment and stock deduction both succeeded.
type OrderConfirmedPayload struct {
	OrderID     uuid.UUID            `json:"orderId"`
	UserID      uuid.UUID            `json:"userId"`
	ConfirmedAt time.Time            `json:"confirmedAt"`
	Items       []OrderConfirmedItem `json:"items,omitempty"`
}

// OrderCancelledPayload announces a cancelled order.
type OrderCancelledPayload struct {
	OrderID     uuid.UUID `json:"orderId"`
	UserID      uuid.UUID `json:"userId"`
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
}

// PaymentCompletedPayload reports a captured payment for an order.
type PaymentCompletedPayload struct {
	OrderID    uuid.UUID `json:"orderId"`
	PaymentKey string    `json:"paymentKey"`
	Amount     int64     `json:"amount"`
	PaidAt     time.Time `json:"paidAt"`
}

// PaymentFailedPayload reports a declined or aborted payment.
type PaymentFailedPayload struct {
	OrderID     uuid.UUID `json:"orderId"`
	PaymentKey  string    `json:"paymentKey"`
	Amount      int64     `json:"amount"`
	FailCode    string    `json:"failCode"`
	FailMessage string    `json:"failMessage"`
}

// DeductedItem is one product variant whose stock was deducted.
type DeductedItem struct {
	ProductID      uuid.UUID  `json:"productId"`
	VariantID      *uuid.UUID `json:"variantId,omitempty"`
	Quantity       int        `json:"quantity"`
	RemainingStock int        `json:"remainingStock"`
}

// StockDeductedPayload reports that stock for every line of an order was reserved.
type StockDeductedPayload struct {
	OrderID uuid.UUID      `json:"orderId"`
	Items   []DeductedItem `json:"items"`
}

// FailedItem is one product variant that could not be deducted.
type FailedItem struct {
	ProductID         uuid.UUID  `json:"productId"`
	VariantID         *uuid.UUID `json:"variantId,omitempty"`
	RequestedQuantity int        `json:"requestedQuantity"`
	AvailableStock    int        `json:"availableStock"`
	Reason            string     `json:"reason"`
}

// StockDeductionFailedPayload reports that at least one line could not be deducted.
type StockDeductionFailedPayload struct {
	OrderID     uuid.UUID    `json:"orderId"`
	FailReason  string       `json:"failReason"`
	FailedItems []FailedItem `json:"failedItems"`
}

// RefundSucceededPayload reports a completed refund of an order payment.
type RefundSucceededPayload struct {
	OrderID      uuid.UUID `json:"orderId"`
	PaymentKey   string    `json:"paymentKey"`
	CancelAmount int64     `json:"cancelAmount"`
	RefundedAt   time.Time `json:"refundedAt"`
}

// RefundFailedPayload reports a refund the payment provider rejected.
type RefundFailedPayload struct {
	OrderID      uuid.UUID `json:"orderId"`
	PaymentKey   string    `json:"paymentKey"`
	CancelAmount int64     `json:"cancelAmount"`
	FailCode     string    `json:"failCode"`
	FailMessage  string    `json:"failMessage"`
}

func (*OrderCreatedPayload) EventType() EventType { return OrderCreated }
func (*OrderConfirmedPayload) EventType() EventType { return OrderConfirmed }
func (*OrderCancelledPayload) EventType() EventType { return OrderCancelled }
func (*PaymentCompletedPayload) EventType() EventType { return PaymentCompleted }
func (*PaymentFailedPayload) EventType() EventType { return PaymentFailed }
func (*StockDeductedPayload) EventType() EventType { return StockDeducted }
func (*StockDeductionFailedPayload) EventType() EventType { return StockDeductionFailed }
func (*RefundSucceededPayload) EventType() EventType { return RefundSucceeded }
func (*RefundFailedPayload) EventType() EventType { return RefundFailed }

func (*OrderCreatedPayload) isPayload() {}
func (*OrderConfirmedPayload) isPayload() {}
func (*OrderCancelledPayload) isPayload() {}
func (*PaymentCompletedPayload) isPayload() {}
func (*PaymentFailedPayload) isPayload() {}
func (*StockDeductedPayload) isPayload() {}
func (*StockDeductionFailedPayload) isPayload() {}
func (*RefundSucceededPayload) isPayload() {}
func (*RefundFailedPayload) isPayload() {}

// OrderID returns the order a payload refers to. Every catalog payload carries one.
func OrderID(p Payload) uuid.UUID {
	switch v := p.(type) {
	case *OrderCreatedPayload:
		return v.OrderID
	case *OrderConfirmedPayload:
		return v.OrderID
	case *OrderCancelledPayload:
		return v.OrderID
	case *PaymentCompletedPayload:
		return v.OrderID
	case *PaymentFailedPayload:
		return v.OrderID
	case *StockDeductedPayload:
		return v.OrderID
	case *StockDeductionFailedPayload:
		return v.OrderID
	case *RefundSucceededPayload:
		return v.OrderID
	case *RefundFailedPayload:
		return v.OrderID
	default:
		return uuid.Nil
	}
}
