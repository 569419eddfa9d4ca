// Package domain holds the store revenue model: confirmed order amounts bucketed per store
// into hourly tumbling windows.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/GroomCloudTeam2/e-commerce-v3-sub000/internal/event"
)

const (
	// WindowSize is the length of one revenue window.
	WindowSize = time.Hour
	// Grace is how long after its end a window still accepts late events.
	Grace = 10 * time.Minute
	// Lookback is how far back a revenue query reaches.
	Lookback = time.Hour
	// Lead is how far past now a revenue query reaches, covering producer clock skew.
	Lead = time.Minute
)

// Window is the revenue one store earned in one hourly window.
type Window struct {
	Start  time.Time
	Amount int64
}

// StoreRevenue is the answer to a revenue query.
type StoreRevenue struct {
	StoreID         uuid.UUID
	Windows         []Window
	TotalInLookback int64
}

// Contribution is one store's share of a confirmed order.
type Contribution struct {
	StoreID     uuid.UUID
	WindowStart time.Time
	Amount      int64
}

// WindowStart returns the start of the window containing t.
func WindowStart(t time.Time) time.Time {
	return t.UTC().Truncate(WindowSize)
}

// Closed reports whether the window starting at start stopped accepting events at now.
func Closed(start, now time.Time) bool {
	return now.After(start.Add(WindowSize + Grace))
}

// Contributions sums the subtotals of a confirmed order per owning store. Stores come out
// in the order their first item appears.
func Contributions(payload *event.OrderConfirmedPayload, windowStart time.Time) []Contribution {
	index := make(map[uuid.UUID]int)
	var out []Contribution
	for _, item := range payload.Items {
		i, ok := index[item.OwnerID]
		if !ok {
			i = len(out)
			index[item.OwnerID] = i
			out = append(out, Contribution{StoreID: item.OwnerID, WindowStart: windowStart})
		}
		out[i].Amount += item.Subtotal
	}
	return out
}

// Summarize builds the revenue answer from the windows whose start lies in [from, to].
// Windows come out oldest first.
func Summarize(storeID uuid.UUID, windows []Window, from, to time.Time) *StoreRevenue {
	result := &StoreRevenue{StoreID: storeID, Windows: []Window{}}
	for _, w := range windows {
		if w.Start.Before(from) || w.Start.After(to) {
			continue
		}
		result.Windows = append(result.Windows, w)
		result.TotalInLookback += w.Amount
	}
	sort.Slice(result.Windows, func(i, j int) bool {
		return result.Windows[i].Start.Before(result.Windows[j].Start)
	})
	return result
}
