package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderRequest_Validate(t *testing.T) {
	productID := uuid.Must(uuid.NewV7()).String()
	badVariant := "nope"

	tests := []struct {
		name      string
		req       PlaceOrderRequest
		shouldErr bool
	}{
		{
			name:      "valid request",
			req:       PlaceOrderRequest{Items: []PlaceOrderItemRequest{{ProductID: productID, Quantity: 1}}},
			shouldErr: false,
		},
		{
			name:      "no items",
			req:       PlaceOrderRequest{},
			shouldErr: true,
		},
		{
			name:      "invalid product id",
			req:       PlaceOrderRequest{Items: []PlaceOrderItemRequest{{ProductID: "x", Quantity: 1}}},
			shouldErr: true,
		},
		{
			name: "invalid variant id",
			req: PlaceOrderRequest{
				Items: []PlaceOrderItemRequest{{ProductID: productID, VariantID: &badVariant, Quantity: 1}},
			},
			shouldErr: true,
		},
		{
			name:      "quantity too large",
			req:       PlaceOrderRequest{Items: []PlaceOrderItemRequest{{ProductID: productID, Quantity: 1000}}},
			shouldErr: true,
		},
		{
			name: "memo with surrounding whitespace",
			req: PlaceOrderRequest{
				Items:        []PlaceOrderItemRequest{{ProductID: productID, Quantity: 1}},
				DeliveryMemo: " door ",
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPlaceOrderRequest_ToInput(t *testing.T) {
	buyerID := uuid.Must(uuid.NewV7())
	productID := uuid.Must(uuid.NewV7())
	variantID := uuid.Must(uuid.NewV7())
	variant := variantID.String()

	req := PlaceOrderRequest{
		Items: []PlaceOrderItemRequest{
			{ProductID: productID.String(), VariantID: &variant, Quantity: 3},
			{ProductID: productID.String(), Quantity: 1},
		},
		DeliveryMemo: "door",
	}
	require.NoError(t, req.Validate())

	input := req.ToInput(buyerID, "trace-1")

	assert.Equal(t, buyerID, input.BuyerID)
	assert.Equal(t, "trace-1", input.TraceID)
	assert.Equal(t, "door", input.DeliveryMemo)
	require.Len(t, input.Items, 2)
	require.NotNil(t, input.Items[0].VariantID)
	assert.Equal(t, variantID, *input.Items[0].VariantID)
	assert.Nil(t, input.Items[1].VariantID)
	assert.NoError(t, input.Validate())
}
