// Package event defines the saga event catalog: the closed set of event types, one payload
// struct per type, the JSON codec between payloads and their serialized form, and the
// envelope that carries a payload across the broker.
package event

// EventType identifies an event in the saga catalog.
type EventType string

// Outbound events, produced by the order service.
const (
	OrderCreated   EventType = "ORDER_CREATED"
	OrderConfirmed EventType = "ORDER_CONFIRMED"
	OrderCancelled EventType = "ORDER_CANCELLED"
)

// Inbound events, produced by the payment and product services.
const (
	PaymentCompleted     EventType = "PAYMENT_COMPLETED"
	PaymentFailed        EventType = "PAYMENT_FAILED"
	StockDeducted        EventType = "STOCK_DEDUCTED"
	StockDeductionFailed EventType = "STOCK_DEDUCTION_FAILED"
	RefundSucceeded      EventType = "REFUND_SUCCEEDED"
	RefundFailed         EventType = "REFUND_FAILED"
)

// AggregateTypeOrder is the aggregate type tag of every event about an order.
const AggregateTypeOrder = "ORDER"

var outbound = map[EventType]struct{}{
	OrderCreated:   {},
	OrderConfirmed: {},
	OrderCancelled: {},
}

var inbound = map[EventType]struct{}{
	PaymentCompleted:     {},
	PaymentFailed:        {},
	StockDeducted:        {},
	StockDeductionFailed: {},
	RefundSucceeded:      {},
	RefundFailed:         {},
}

// IsOutbound reports whether the order service produces events of this type.
func (t EventType) IsOutbound() bool {
	_, ok := outbound[t]
	return ok
}

// IsInbound reports whether the order saga reacts to events of this type.
func (t EventType) IsInbound() bool {
	_, ok := inbound[t]
	return ok
}

// Known reports whether the type belongs to the catalog.
func (t EventType) Known() bool {
	return t.IsOutbound() || t.IsInbound()
}

func (t EventType) String() string {
	return string(t)
}
