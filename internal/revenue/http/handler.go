// Package http provides the store revenue API handler.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/httputil"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/http/dto"
	revenueUseCase "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/usecase"
)

// RevenueHandler serves store revenue queries.
type RevenueHandler struct {
	revenueUseCase revenueUseCase.RevenueUseCase
	logger         *slog.Logger
}

// NewRevenueHandler creates a new revenue handler.
func NewRevenueHandler(revenueUseCase revenueUseCase.RevenueUseCase, logger *slog.Logger) *RevenueHandler {
	return &RevenueHandler{
		revenueUseCase: revenueUseCase,
		logger:         logger,
	}
}

// GetStoreRevenueHandler returns the hourly revenue of a store over the last hour.
// GET /v1/revenue/:storeId
func (h *RevenueHandler) GetStoreRevenueHandler(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	revenue, err := h.revenueUseCase.GetStoreRevenue(c.Request.Context(), storeID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStoreRevenueToResponse(revenue))
}
