package dto

import (
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// ShippingResponse is the shipping snapshot of an order.
type ShippingResponse struct {
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
	ZipCode        string `json:"zip_code"`
	Address        string `json:"address"`
	DetailAddress  string `json:"detail_address"`
	DeliveryMemo   string `json:"delivery_memo,omitempty"`
}

// OrderItemResponse represents an order line in API responses.
type OrderItemResponse struct {
	ID           string  `json:"id"`
	ProductID    string  `json:"product_id"`
	VariantID    *string `json:"variant_id,omitempty"`
	OwnerID      string  `json:"owner_id"`
	ProductTitle string  `json:"product_title"`
	Quantity     int     `json:"quantity"`
	UnitPrice    int64   `json:"unit_price"`
	Subtotal     int64   `json:"subtotal"`
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	BuyerID            string              `json:"buyer_id"`
	Status             string              `json:"status"`
	TotalPaymentAmount int64               `json:"total_payment_amount"`
	Shipping           ShippingResponse    `json:"shipping"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ListOrdersResponse represents a paginated list of orders in API responses.
type ListOrdersResponse struct {
	Data []OrderResponse `json:"data"`
}

// MapOrderToResponse converts a domain order to an API response.
func MapOrderToResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		resp := OrderItemResponse{
			ID:           item.ID.String(),
			ProductID:    item.ProductID.String(),
			OwnerID:      item.OwnerID.String(),
			ProductTitle: item.ProductTitle,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Subtotal:     item.Subtotal(),
		}
		if item.VariantID != nil {
			variantID := item.VariantID.String()
			resp.VariantID = &variantID
		}
		items = append(items, resp)
	}

	return OrderResponse{
		ID:                 order.ID.String(),
		OrderNumber:        order.OrderNumber,
		BuyerID:            order.BuyerID.String(),
		Status:             string(order.Status),
		TotalPaymentAmount: order.TotalPaymentAmount,
		Shipping: ShippingResponse{
			RecipientName:  order.Shipping.RecipientName,
			RecipientPhone: order.Shipping.RecipientPhone,
			ZipCode:        order.Shipping.ZipCode,
			Address:        order.Shipping.Address,
			DetailAddress:  order.Shipping.DetailAddress,
			DeliveryMemo:   order.Shipping.DeliveryMemo,
		},
		Items:     items,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
}

// MapOrdersToListResponse converts a slice of domain orders to a list response.
func MapOrdersToListResponse(orders []*domain.Order) ListOrdersResponse {
	data := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, MapOrderToResponse(order))
	}

	return ListOrdersResponse{
		Data: data,
	}
}
