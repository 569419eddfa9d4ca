package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
)

func TestWindowStart(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		name     string
		at       time.Time
		expected time.Time
	}{
		{
			name:     "inside hour",
			at:       time.Date(2026, 3, 1, 12, 34, 56, 0, time.UTC),
			expected: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:     "on boundary",
			at:       time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-utc zone",
			at:       time.Date(2026, 3, 1, 21, 59, 0, 0, kst),
			expected: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(WindowStart(tt.at)))
		})
	}
}

func TestClosed(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, Closed(start, start.Add(30*time.Minute)))
	assert.False(t, Closed(start, start.Add(WindowSize+Grace)))
	assert.True(t, Closed(start, start.Add(WindowSize+Grace+time.Second)))
}

func TestContributions(t *testing.T) {
	storeA := uuid.New()
	storeB := uuid.New()
	windowStart := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("sums per store", func(t *testing.T) {
		payload := &event.OrderConfirmedPayload{Items: []event.OrderConfirmedItem{
			{ProductID: uuid.New(), OwnerID: storeA, Subtotal: 1000, Quantity: 1},
			{ProductID: uuid.New(), OwnerID: storeB, Subtotal: 2500, Quantity: 5},
			{ProductID: uuid.New(), OwnerID: storeA, Subtotal: 300, Quantity: 3},
		}}

		contributions := Contributions(payload, windowStart)

		require.Len(t, contributions, 2)
		assert.Equal(t, Contribution{StoreID: storeA, WindowStart: windowStart, Amount: 1300}, contributions[0])
		assert.Equal(t, Contribution{StoreID: storeB, WindowStart: windowStart, Amount: 2500}, contributions[1])
	})

	t.Run("no items", func(t *testing.T) {
		assert.Empty(t, Contributions(&event.OrderConfirmedPayload{}, windowStart))
	})
}

func TestSummarize(t *testing.T) {
	storeID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	from := now.Add(-Lookback)
	to := now.Add(Lead)

	windows := []Window{
		{Start: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), Amount: 700},
		{Start: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Amount: 9000},
		{Start: time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), Amount: 300},
		{Start: time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC), Amount: 50},
	}

	result := Summarize(storeID, windows, from, to)

	assert.Equal(t, storeID, result.StoreID)
	require.Len(t, result.Windows, 2)
	assert.Equal(t, int64(300), result.Windows[0].Amount)
	assert.Equal(t, int64(700), result.Windows[1].Amount)
	assert.Equal(t, int64(1000), result.TotalInLookback)

	empty := Summarize(storeID, nil, from, to)
	assert.NotNil(t, empty.Windows)
	assert.Zero(t, empty.TotalInLookback)
}
