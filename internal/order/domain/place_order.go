package domain

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
	customValidation "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/validation"
)

// MaxOrderLines bounds the number of lines of one order.
const MaxOrderLines = 50

// ErrProductUnavailable indicates an ordered product is unknown to the product service.
var ErrProductUnavailable = apperrors.Wrap(apperrors.ErrInvalidInput, "product unavailable")

// Product is the product service's view of an orderable product.
type Product struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Title   string
	Price   int64
}

// PlaceOrderItem is one requested line.
type PlaceOrderItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// Validate checks a single line.
func (i PlaceOrderItem) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.ProductID, customValidation.NotNilUUID),
		validation.Field(&i.Quantity, validation.Required, validation.Min(1), validation.Max(999)),
	)
}

// lineKey identifies a line: the variant when given, the product otherwise.
func (i PlaceOrderItem) lineKey() uuid.UUID {
	if i.VariantID != nil {
		return *i.VariantID
	}
	return i.ProductID
}

// PlaceOrderInput contains the parameters for placing an order.
type PlaceOrderInput struct {
	BuyerID      uuid.UUID
	Items        []PlaceOrderItem
	DeliveryMemo string
	TraceID      string
}

// Validate checks the input and wraps failures as ErrInvalidInput.
func (in *PlaceOrderInput) Validate() error {
	keys := make([]uuid.UUID, 0, len(in.Items))
	for _, item := range in.Items {
		keys = append(keys, item.lineKey())
	}

	err := validation.ValidateStruct(in,
		validation.Field(&in.BuyerID, customValidation.NotNilUUID),
		validation.Field(&in.Items,
			validation.Required,
			validation.Length(1, MaxOrderLines),
			customValidation.UniqueUUIDs(keys),
		),
		validation.Field(&in.DeliveryMemo, validation.Length(0, 200)),
	)
	return customValidation.WrapValidationError(err)
}

// ProductIDs returns the distinct product ids of the input, in request order.
func (in *PlaceOrderInput) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(in.Items))
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, item := range in.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
