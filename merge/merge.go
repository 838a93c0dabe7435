// Package merge classifies order items by newness and groups them into
// time-bounded ordering sessions, so a merged order (items added after the
// original round) can be flagged on the kitchen and admin surfaces.
package merge

import (
	"sort"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

const (
	// NewItemThreshold is how long an appended item is highlighted as new.
	NewItemThreshold = 30 * time.Minute
	// SessionGap is the largest created_at gap between two items that still
	// belong to the same ordering session.
	SessionGap = 5 * time.Minute
)

// Session is a cluster of items ordered within SessionGap of each other.
type Session struct {
	Label string
	Items []models.OrderItem
}

// IsNew reports whether the item was created within threshold of now.
func IsNew(item models.OrderItem, now time.Time, threshold time.Duration) bool {
	return now.Sub(item.CreatedAt) < threshold
}

// SortByNewness returns a copy with new items first (newest created_at
// first), then the rest by created_at descending.
func SortByNewness(items []models.OrderItem, now time.Time) []models.OrderItem {
	sorted := make([]models.OrderItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		ni, nj := IsNew(sorted[i], now, NewItemThreshold), IsNew(sorted[j], now, NewItemThreshold)
		if ni != nj {
			return ni
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// GroupBySession sorts items ascending by created_at and starts a new session
// whenever the gap to the previous item exceeds gap. The first session is
// labelled "original", every later one "added".
func GroupBySession(items []models.OrderItem, gap time.Duration) []Session {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]models.OrderItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	sessions := []Session{{Label: "original", Items: []models.OrderItem{sorted[0]}}}
	for _, item := range sorted[1:] {
		last := &sessions[len(sessions)-1]
		prev := last.Items[len(last.Items)-1]
		if item.CreatedAt.Sub(prev.CreatedAt) > gap {
			sessions = append(sessions, Session{Label: "added", Items: []models.OrderItem{item}})
			continue
		}
		last.Items = append(last.Items, item)
	}
	return sessions
}

// HasMultipleSessions flags a merged order: items were added in more than one
// ordering session.
func HasMultipleSessions(items []models.OrderItem) bool {
	return len(GroupBySession(items, SessionGap)) > 1
}
