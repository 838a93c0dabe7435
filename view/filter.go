package view

import (
	"sort"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

type SortKey string

const (
	SortPriority   SortKey = "priority"
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortTable      SortKey = "table"
	SortName       SortKey = "name"
	SortAmountAsc  SortKey = "amount-asc"
	SortAmountDesc SortKey = "amount-desc"
)

// statusRank orders the kitchen queue by urgency: what still needs starting
// comes before what is underway, completed work sinks.
var statusRank = map[models.OrderStatus]int{
	models.OrderStatusPending:   0,
	models.OrderStatusPreparing: 1,
	models.OrderStatusReady:     2,
	models.OrderStatusCompleted: 3,
	models.OrderStatusCancelled: 4,
}

// FilterAndSort is a pure function of its inputs: it returns a new slice of
// the orders matching filter (empty filter keeps everything) ordered by key.
// Every key breaks ties by newest created_at first.
func FilterAndSort(orders []models.Order, filter models.OrderStatus, key SortKey) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if filter != "" && o.Status != filter {
			continue
		}
		out = append(out, o)
	}

	less := func(a, b models.Order) bool { return false }
	switch key {
	case SortPriority:
		less = func(a, b models.Order) bool { return statusRank[a.Status] < statusRank[b.Status] }
	case SortOldest:
		less = func(a, b models.Order) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortTable:
		less = func(a, b models.Order) bool { return a.TableNumber < b.TableNumber }
	case SortName:
		less = func(a, b models.Order) bool { return a.CustomerName < b.CustomerName }
	case SortAmountAsc:
		less = func(a, b models.Order) bool { return a.TotalAmount < b.TotalAmount }
	case SortAmountDesc:
		less = func(a, b models.Order) bool { return a.TotalAmount > b.TotalAmount }
	case SortNewest:
		// newest is exactly the tiebreaker
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}
