// Package domain defines the order aggregate and its lifecycle.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is the delivery snapshot taken when the order is placed.
type ShippingAddress struct {
	RecipientName  string
	RecipientPhone string
	ZipCode        string
	Address        string
	DetailAddress  string
	DeliveryMemo   string
}

// OrderItem is one ordered product. It has no lifecycle of its own.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductID    uuid.UUID
	VariantID    *uuid.UUID
	OwnerID      uuid.UUID
	ProductTitle string
	Quantity     int
	UnitPrice    int64
}

// Subtotal returns UnitPrice * Quantity.
func (i *OrderItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Order is the saga aggregate. Status changes only through the named commands below;
// the shipping snapshot and total never change after creation.
type Order struct {
	ID                 uuid.UUID
	BuyerID            uuid.UUID
	OrderNumber        string
	TotalPaymentAmount int64
	Shipping           ShippingAddress
	Status             OrderStatus
	Items              []*OrderItem
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewOrder builds a PENDING order. Item ids and order ids are assigned here and the total
// is the sum of item subtotals.
func NewOrder(
	buyerID uuid.UUID,
	orderNumber string,
	shipping ShippingAddress,
	items []*OrderItem,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	order := &Order{
		ID:          id,
		BuyerID:     buyerID,
		OrderNumber: orderNumber,
		Shipping:    shipping,
		Status:      OrderStatusPending,
		Items:       items,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, item := range items {
		itemID, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		item.ID = itemID
		item.OrderID = id
		order.TotalPaymentAmount += item.Subtotal()
	}

	return order, nil
}

// ConfirmPayment moves a PENDING order to PAID.
func (o *Order) ConfirmPayment(now time.Time) error {
	return o.apply(TriggerConfirmPayment, now)
}

// Complete moves a PENDING or PAID order to CONFIRMED.
func (o *Order) Complete(now time.Time) error {
	return o.apply(TriggerComplete, now)
}

// Fail moves a PENDING or PAID order to FAILED.
func (o *Order) Fail(now time.Time) error {
	return o.apply(TriggerFail, now)
}

// Cancel moves a PENDING, PAID or FAILED order to CANCELLED.
func (o *Order) Cancel(now time.Time) error {
	return o.apply(TriggerCancel, now)
}

// RequireManualCheck hands the order to operations after a compensating action failed.
func (o *Order) RequireManualCheck(now time.Time) error {
	return o.apply(TriggerRequireManualCheck, now)
}

// apply mutates memory only. On error the order is left untouched.
func (o *Order) apply(trigger Trigger, now time.Time) error {
	next, err := o.Status.Next(trigger)
	if err != nil {
		return err
	}
	o.Status = next
	o.UpdatedAt = now
	return nil
}
