package view

import (
	"testing"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

func queue(now time.Time) []models.Order {
	return []models.Order{
		{ID: 1, TableNumber: 3, CustomerName: "Cleo", Status: models.OrderStatusReady, TotalAmount: 40, CreatedAt: now.Add(-30 * time.Minute)},
		{ID: 2, TableNumber: 1, CustomerName: "Asha", Status: models.OrderStatusPending, TotalAmount: 25, CreatedAt: now.Add(-5 * time.Minute)},
		{ID: 3, TableNumber: 2, CustomerName: "Ben", Status: models.OrderStatusPending, TotalAmount: 10, CreatedAt: now.Add(-15 * time.Minute)},
		{ID: 4, TableNumber: 5, CustomerName: "Dev", Status: models.OrderStatusPreparing, TotalAmount: 25, CreatedAt: now.Add(-10 * time.Minute)},
	}
}

func orderIDs(orders []models.Order) []uint {
	out := make([]uint, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func assertOrder(t *testing.T, got []models.Order, want ...uint) {
	t.Helper()
	ids := orderIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestFilterAndSort(t *testing.T) {
	now := time.Now()
	orders := queue(now)

	// priority: pending first (newest tiebreak), then preparing, then ready
	assertOrder(t, FilterAndSort(orders, "", SortPriority), 2, 3, 4, 1)

	assertOrder(t, FilterAndSort(orders, "", SortNewest), 2, 4, 3, 1)
	assertOrder(t, FilterAndSort(orders, "", SortOldest), 1, 3, 4, 2)
	assertOrder(t, FilterAndSort(orders, "", SortTable), 2, 3, 1, 4)
	assertOrder(t, FilterAndSort(orders, "", SortName), 2, 3, 1, 4)

	// equal amounts (25) break ties by newest created_at
	assertOrder(t, FilterAndSort(orders, "", SortAmountAsc), 3, 2, 4, 1)
	assertOrder(t, FilterAndSort(orders, "", SortAmountDesc), 1, 2, 4, 3)
}

func TestFilterKeepsMatchingStatusOnly(t *testing.T) {
	now := time.Now()
	got := FilterAndSort(queue(now), models.OrderStatusPending, SortNewest)
	assertOrder(t, got, 2, 3)
}

func TestFilterAndSortDoesNotMutateInput(t *testing.T) {
	now := time.Now()
	orders := queue(now)
	before := orderIDs(orders)

	FilterAndSort(orders, "", SortTable)

	after := orderIDs(orders)
	for i := range before {
		if before[i] != after[i] {
			t.Fatal("input slice was reordered")
		}
	}
}
