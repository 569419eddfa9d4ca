package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/clock"
	apperrors "github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/errors"
	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

type revenueUseCase struct {
	repo  RevenueRepository
	clock clock.Clock
}

// NewRevenueUseCase creates the revenue query use case.
func NewRevenueUseCase(repo RevenueRepository, clk clock.Clock) RevenueUseCase {
	return &revenueUseCase{repo: repo, clock: clk}
}

func (u *revenueUseCase) GetStoreRevenue(ctx context.Context, storeID uuid.UUID) (*domain.StoreRevenue, error) {
	windows, err := u.repo.Windows(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load revenue windows: %v", apperrors.ErrUnavailable, err)
	}

	now := u.clock.Now()
	return domain.Summarize(storeID, windows, now.Add(-domain.Lookback), now.Add(domain.Lead)), nil
}
