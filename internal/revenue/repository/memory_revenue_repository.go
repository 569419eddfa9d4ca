package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/revenue/domain"
)

// MemoryRevenueRepository keeps the projection in process memory. It is used when Redis
// is not configured and only gives complete answers with a single server replica.
type MemoryRevenueRepository struct {
	mu        sync.Mutex
	retention time.Duration
	cutoff    time.Time
	windows   map[uuid.UUID]map[int64]int64
	applied   map[string]time.Time
}

// NewMemoryRevenueRepository creates an empty in-memory repository. Windows that start
// more than retention before the newest applied window are dropped.
func NewMemoryRevenueRepository(retention time.Duration) *MemoryRevenueRepository {
	return &MemoryRevenueRepository{
		retention: retention,
		windows:   make(map[uuid.UUID]map[int64]int64),
		applied:   make(map[string]time.Time),
	}
}

func (r *MemoryRevenueRepository) Apply(
	ctx context.Context,
	eventID string,
	contributions []domain.Contribution,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.applied[eventID]; ok {
		return false, nil
	}

	var newest time.Time
	for _, c := range contributions {
		byWindow, ok := r.windows[c.StoreID]
		if !ok {
			byWindow = make(map[int64]int64)
			r.windows[c.StoreID] = byWindow
		}
		byWindow[c.WindowStart.Unix()] += c.Amount
		if c.WindowStart.After(newest) {
			newest = c.WindowStart
		}
	}
	r.applied[eventID] = newest

	r.prune(newest.Add(-r.retention))
	return true, nil
}

// prune drops windows and event ids older than cutoff. It only scans when cutoff moved.
func (r *MemoryRevenueRepository) prune(cutoff time.Time) {
	if !cutoff.After(r.cutoff) {
		return
	}
	r.cutoff = cutoff

	for storeID, byWindow := range r.windows {
		for start := range byWindow {
			if time.Unix(start, 0).Before(cutoff) {
				delete(byWindow, start)
			}
		}
		if len(byWindow) == 0 {
			delete(r.windows, storeID)
		}
	}
	for eventID, windowStart := range r.applied {
		if windowStart.Before(cutoff) {
			delete(r.applied, eventID)
		}
	}
}

func (r *MemoryRevenueRepository) Windows(ctx context.Context, storeID uuid.UUID) ([]domain.Window, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byWindow := r.windows[storeID]
	windows := make([]domain.Window, 0, len(byWindow))
	for start, amount := range byWindow {
		windows = append(windows, domain.Window{Start: time.Unix(start, 0).UTC(), Amount: amount})
	}
	return windows, nil
}

func (r *MemoryRevenueRepository) Close() error {
	return nil
}
