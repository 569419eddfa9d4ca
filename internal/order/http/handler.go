// Package http provides the order API handlers.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/httputil"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/http/dto"
	orderUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/order/usecase"
	customValidation "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/validation"
)

// UserIDHeader carries the authenticated buyer id set by the gateway.
const UserIDHeader = "X-User-Id"

var errMissingUser = errors.New("missing or invalid " + UserIDHeader + " header")

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	orderUseCase orderUseCase.OrderUseCase
	logger       *slog.Logger
}

// NewOrderHandler creates a new order handler with required dependencies.
func NewOrderHandler(orderUseCase orderUseCase.OrderUseCase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
		logger:       logger,
	}
}

// PlaceOrderHandler places an order for the calling buyer.
// POST /v1/orders
// Returns 201 Created with the PENDING order.
func (h *OrderHandler) PlaceOrderHandler(c *gin.Context) {
	buyerID, ok := h.buyerID(c)
	if !ok {
		return
	}

	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, err := h.orderUseCase.PlaceOrder(c.Request.Context(), req.ToInput(buyerID, requestid.Get(c)))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOrderToResponse(order))
}

// GetHandler retrieves an order by id.
// GET /v1/orders/:id
func (h *OrderHandler) GetHandler(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	order, err := h.orderUseCase.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// CancelHandler cancels one of the calling buyer's orders.
// POST /v1/orders/:id/cancel
// An empty body is accepted. Returns 409 Conflict when the order can no longer be cancelled.
func (h *OrderHandler) CancelHandler(c *gin.Context) {
	buyerID, ok := h.buyerID(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	order, err := h.orderUseCase.CancelOrder(
		c.Request.Context(),
		orderID,
		buyerID,
		req.Reason,
		requestid.Get(c),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrderToResponse(order))
}

// ListMyOrdersHandler lists the calling buyer's orders.
// GET /v1/orders?offset=0&limit=50
func (h *OrderHandler) ListMyOrdersHandler(c *gin.Context) {
	buyerID, ok := h.buyerID(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	orders, err := h.orderUseCase.ListMyOrders(c.Request.Context(), buyerID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrdersToListResponse(orders))
}

// ListByProductHandler lists the orders containing a product.
// GET /v1/products/:productId/orders?offset=0&limit=50
func (h *OrderHandler) ListByProductHandler(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	orders, err := h.orderUseCase.ListByProduct(c.Request.Context(), productID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrdersToListResponse(orders))
}

// buyerID reads the caller from UserIDHeader and writes 401 when it is absent or malformed.
func (h *OrderHandler) buyerID(c *gin.Context) (uuid.UUID, bool) {
	buyerID, err := uuid.Parse(c.GetHeader(UserIDHeader))
	if err != nil || buyerID == uuid.Nil {
		if h.logger != nil {
			h.logger.Warn("unauthenticated request", slog.String("path", c.FullPath()))
		}
		c.JSON(http.StatusUnauthorized, httputil.ErrorResponse{
			Error:   "unauthorized",
			Message: errMissingUser.Error(),
		})
		return uuid.Nil, false
	}
	return buyerID, true
}
