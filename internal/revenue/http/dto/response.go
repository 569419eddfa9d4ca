// Package dto holds the revenue API response shapes.
package dto

import (
	"time"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// StoreRevenueResponse maps each window start (RFC 3339, UTC) to the revenue of that window.
type StoreRevenueResponse struct {
	StoreID                string           `json:"store_id"`
	Windows                map[string]int64 `json:"windows"`
	TotalRevenueInLookback int64            `json:"total_revenue_in_lookback"`
}

// MapStoreRevenueToResponse converts the domain result to its API shape.
func MapStoreRevenueToResponse(revenue *domain.StoreRevenue) StoreRevenueResponse {
	windows := make(map[string]int64, len(revenue.Windows))
	for _, w := range revenue.Windows {
		windows[w.Start.UTC().Format(time.RFC3339)] = w.Amount
	}
	return StoreRevenueResponse{
		StoreID:                revenue.StoreID.String(),
		Windows:                windows,
		TotalRevenueInLookback: revenue.TotalInLookback,
	}
}
