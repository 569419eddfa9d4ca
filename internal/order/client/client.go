// Package client implements the order placement collaborators over HTTP: the user service
// for shipping addresses and the product service for product snapshots.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/domain"
)

// ErrNoShippingAddress indicates the buyer has not registered a default address.
var ErrNoShippingAddress = apperrors.Wrap(apperrors.ErrInvalidInput, "buyer has no shipping address")

// Config holds collaborator client configuration.
type Config struct {
	UserServiceURL    string
	ProductServiceURL string
	Timeout           time.Duration
}

// HTTPClient talks to the user and product services.
type HTTPClient struct {
	userURL    string
	productURL string
	httpClient *http.Client
}

// New creates an HTTPClient.
func New(cfg Config) *HTTPClient {
	return &HTTPClient{
		userURL:    strings.TrimRight(cfg.UserServiceURL, "/"),
		productURL: strings.TrimRight(cfg.ProductServiceURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type addressResponse struct {
	RecipientName  string `json:"recipientName"`
	RecipientPhone string `json:"recipientPhone"`
	ZipCode        string `json:"zipCode"`
	Address        string `json:"address"`
	DetailAddress  string `json:"detailAddress"`
}

// GetShippingAddress fetches the buyer's default shipping address.
func (c *HTTPClient) GetShippingAddress(ctx context.Context, buyerID uuid.UUID) (*domain.ShippingAddress, error) {
	url := fmt.Sprintf("%s/internal/v1/users/%s/address", c.userURL, buyerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var body addressResponse
	status, err := c.do(req, &body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "user service: "+err.Error())
	}
	if status == http.StatusNotFound {
		return nil, ErrNoShippingAddress
	}

	return &domain.ShippingAddress{
		RecipientName:  body.RecipientName,
		RecipientPhone: body.RecipientPhone,
		ZipCode:        body.ZipCode,
		Address:        body.Address,
		DetailAddress:  body.DetailAddress,
	}, nil
}

type productsRequest struct {
	ProductIDs []uuid.UUID `json:"productIds"`
}

type productResponse struct {
	ProductID uuid.UUID `json:"productId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Title     string    `json:"title"`
	Price     int64     `json:"price"`
}

// GetProducts fetches the products with the given ids. Unknown ids are omitted.
func (c *HTTPClient) GetProducts(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	payload, err := json.Marshal(productsRequest{ProductIDs: ids})
	if err != nil {
		return nil, err
	}

	url := c.productURL + "/internal/v1/products/bulk"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var body []productResponse
	if _, err := c.do(req, &body); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, "product service: "+err.Error())
	}

	products := make([]*domain.Product, 0, len(body))
	for _, p := range body {
		products = append(products, &domain.Product{
			ID:      p.ProductID,
			OwnerID: p.OwnerID,
			Title:   p.Title,
			Price:   p.Price,
		})
	}
	return products, nil
}

// do sends req and decodes a 200 response into out. A 404 is returned as a status with a
// nil error so callers can map it; any other non-200 status is an error.
func (c *HTTPClient) do(req *http.Request, out any) (int, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return resp.StatusCode, nil
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.StatusCode, nil
}
