package event

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a payload to the string stored in the outbox and carried by the envelope.
func Encode(p Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: nil payload", ErrSerialization)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSerialization, p.EventType(), err)
	}
	return string(data), nil
}

// newPayload returns an empty payload for the event type, or nil on a catalog miss.
func newPayload(t EventType) Payload {
	switch t {
	case OrderCreated:
		return &OrderCreatedPayload{}
	case OrderConfirmed:
		return &OrderConfirmedPayload{}
	case OrderCancelled:
		return &OrderCancelledPayload{}
	case PaymentCompleted:
		return &PaymentCompletedPayload{}
	case PaymentFailed:
		return &PaymentFailedPayload{}
	case StockDeducted:
		return &StockDeductedPayload{}
	case StockDeductionFailed:
		return &StockDeductionFailedPayload{}
	case RefundSucceeded:
		return &RefundSucceededPayload{}
	case RefundFailed:
		return &RefundFailedPayload{}
	default:
		return nil
	}
}

// Decode parses the serialized payload of the given event type. Unknown JSON fields are
// ignored. A type outside the catalog returns ErrUnknownEventType, malformed data
// returns ErrSerialization.
func Decode(t EventType, data string) (Payload, error) {
	p := newPayload(t)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, t)
	}
	if err := json.Unmarshal([]byte(data), p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSerialization, t, err)
	}
	return p, nil
}
