// Package usecase projects confirmed orders into per-store hourly revenue and answers
// revenue queries over the projection.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// RevenueRepository stores the hourly revenue windows of every store.
type RevenueRepository interface {
	// Apply adds the contributions of one event. It returns false and changes nothing when
	// eventID was applied before.
	Apply(ctx context.Context, eventID string, contributions []domain.Contribution) (bool, error)
	// Windows returns every window kept for the store, in no particular order.
	Windows(ctx context.Context, storeID uuid.UUID) ([]domain.Window, error)
}

// RevenueUseCase answers store revenue queries.
type RevenueUseCase interface {
	// GetStoreRevenue returns the windows that started within the lookback of now. A store
	// without confirmed orders gets an empty result.
	GetStoreRevenue(ctx context.Context, storeID uuid.UUID) (*domain.StoreRevenue, error)
}
