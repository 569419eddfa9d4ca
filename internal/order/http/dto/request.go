// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
	customValidation "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/validation"
)

// PlaceOrderItemRequest is one requested order line.
type PlaceOrderItemRequest struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Validate checks if the order line is valid.
func (r PlaceOrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required, is.UUID),
		validation.Field(&r.VariantID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1), validation.Max(999)),
	)
}

// PlaceOrderRequest contains the parameters for placing an order.
type PlaceOrderRequest struct {
	Items        []PlaceOrderItemRequest `json:"items"`
	DeliveryMemo string                  `json:"delivery_memo"`
}

// Validate checks if the place order request is valid.
func (r *PlaceOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Items, validation.Required, validation.Length(1, domain.MaxOrderLines)),
		validation.Field(&r.DeliveryMemo, customValidation.NoWhitespace, validation.Length(0, 200)),
	)
}

// ToInput converts a validated request to the use case input.
func (r *PlaceOrderRequest) ToInput(buyerID uuid.UUID, traceID string) *domain.PlaceOrderInput {
	items := make([]domain.PlaceOrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		line := domain.PlaceOrderItem{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  item.Quantity,
		}
		if item.VariantID != nil {
			variantID := uuid.MustParse(*item.VariantID)
			line.VariantID = &variantID
		}
		items = append(items, line)
	}

	return &domain.PlaceOrderInput{
		BuyerID:      buyerID,
		Items:        items,
		DeliveryMemo: r.DeliveryMemo,
		TraceID:      traceID,
	}
}

// CancelOrderRequest contains the optional cancellation reason.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// Validate checks if the cancel order request is valid.
func (r *CancelOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Reason, customValidation.NoWhitespace, validation.Length(0, 255)),
	)
}
