package domain

import (
	"fmt"
	"slices"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending     OrderStatus = "PENDING"
	OrderStatusPaid        OrderStatus = "PAID"
	OrderStatusConfirmed   OrderStatus = "CONFIRMED"
	OrderStatusFailed      OrderStatus = "FAILED"
	OrderStatusCancelled   OrderStatus = "CANCELLED"
	OrderStatusManualCheck OrderStatus = "MANUAL_CHECK"
)

// OrderStatuses lists every status.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusConfirmed,
	OrderStatusFailed,
	OrderStatusCancelled,
	OrderStatusManualCheck,
}

// Trigger names an order command.
type Trigger string

const (
	TriggerConfirmPayment     Trigger = "confirm_payment"
	TriggerComplete           Trigger = "complete"
	TriggerFail               Trigger = "fail"
	TriggerCancel             Trigger = "cancel"
	TriggerRequireManualCheck Trigger = "require_manual_check"
)

type transition struct {
	from []OrderStatus
	to   OrderStatus
}

// transitions is the complete lifecycle. Any (status, trigger) pair not listed is rejected.
//
// Complete is allowed from PENDING because STOCK_DEDUCTED and PAYMENT_COMPLETED travel on
// different topics and may be observed in either order. Cancel from FAILED settles a
// failed order once its payment was refunded.
var transitions = map[Trigger]transition{
	TriggerConfirmPayment: {
		from: []OrderStatus{OrderStatusPending},
		to:   OrderStatusPaid,
	},
	TriggerComplete: {
		from: []OrderStatus{OrderStatusPending, OrderStatusPaid},
		to:   OrderStatusConfirmed,
	},
	TriggerFail: {
		from: []OrderStatus{OrderStatusPending, OrderStatusPaid},
		to:   OrderStatusFailed,
	},
	TriggerCancel: {
		from: []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusFailed},
		to:   OrderStatusCancelled,
	},
	TriggerRequireManualCheck: {
		from: []OrderStatus{OrderStatusPaid, OrderStatusFailed, OrderStatusCancelled},
		to:   OrderStatusManualCheck,
	},
}

// Target returns the status a trigger moves an order to.
func (t Trigger) Target() OrderStatus {
	return transitions[t].to
}

// Next returns the status reached by applying trigger to s. It returns ErrTransitionNoOp
// when s already is the target and ErrInvalidTransition when the pair is not allowed.
func (s OrderStatus) Next(trigger Trigger) (OrderStatus, error) {
	tr, ok := transitions[trigger]
	if !ok {
		return s, fmt.Errorf("%w: unknown trigger %q", ErrInvalidTransition, trigger)
	}
	if s == tr.to {
		return s, fmt.Errorf("%w: %s already %s", ErrTransitionNoOp, trigger, s)
	}
	if !slices.Contains(tr.from, s) {
		return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, s)
	}
	return tr.to, nil
}

// CanApply reports whether trigger moves s to a new status.
func (s OrderStatus) CanApply(trigger Trigger) bool {
	_, err := s.Next(trigger)
	return err == nil
}

// IsTerminal reports whether no trigger can leave s.
func (s OrderStatus) IsTerminal() bool {
	for trigger := range transitions {
		if s.CanApply(trigger) {
			return false
		}
	}
	return true
}
