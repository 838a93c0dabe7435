package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusPreparing,
	models.OrderStatusReady,
	models.OrderStatusCompleted,
	models.OrderStatusCancelled,
}

func TestCanTransitionMatchesEdgeSet(t *testing.T) {
	edges := map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
		models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
		models.OrderStatusReady:     {models.OrderStatusCompleted, models.OrderStatusCancelled},
	}

	for _, current := range allStatuses {
		for _, next := range allStatuses {
			want := false
			for _, allowed := range edges[current] {
				if allowed == next {
					want = true
				}
			}
			if got := CanTransition(current, next); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", current, next, got, want)
			}
		}
	}
}

func TestTerminalStatusesHaveNoOutgoingEdges(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderStatusCompleted, models.OrderStatusCancelled} {
		for _, next := range allStatuses {
			if CanTransition(terminal, next) {
				t.Errorf("terminal status %s must not transition to %s", terminal, next)
			}
		}
	}
}

func TestValidateTransitionNamesBothStatuses(t *testing.T) {
	err := ValidateTransition(models.OrderStatusCompleted, models.OrderStatusPreparing)
	if err == nil {
		t.Fatal("expected error for completed -> preparing")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.Current != models.OrderStatusCompleted || te.Attempted != models.OrderStatusPreparing {
		t.Errorf("error carries %s -> %s", te.Current, te.Attempted)
	}
	if !strings.Contains(err.Error(), "completed") || !strings.Contains(err.Error(), "preparing") {
		t.Errorf("message should name both statuses: %q", err.Error())
	}
}

func TestNextStatus(t *testing.T) {
	steps := map[models.OrderStatus]models.OrderStatus{
		models.OrderStatusPending:   models.OrderStatusPreparing,
		models.OrderStatusPreparing: models.OrderStatusReady,
		models.OrderStatusReady:     models.OrderStatusCompleted,
	}
	for current, want := range steps {
		next, ok := NextStatus(current)
		if !ok || next != want {
			t.Errorf("NextStatus(%s) = %s, %v; want %s", current, next, ok, want)
		}
	}
	if _, ok := NextStatus(models.OrderStatusCompleted); ok {
		t.Error("completed has no forward step")
	}
	if _, ok := NextStatus(models.OrderStatusCancelled); ok {
		t.Error("cancelled has no forward step")
	}
}

func TestCanCompleteBlockedBySiblingOrders(t *testing.T) {
	ready := models.Order{ID: 1, OrderNumber: "ORD-001", TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusReady}
	preparing := models.Order{ID: 2, OrderNumber: "ORD-002", TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusPreparing}
	otherTable := models.Order{ID: 3, TableNumber: 7, CustomerName: "Asha", Status: models.OrderStatusPreparing}
	otherName := models.Order{ID: 4, TableNumber: 4, CustomerName: "Ben", Status: models.OrderStatusPending}
	done := models.Order{ID: 5, TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusCompleted}

	err := CanComplete(ready, []models.Order{ready, preparing, otherTable, otherName, done})
	if err == nil {
		t.Fatal("expected completion to be blocked")
	}
	var blocked *CompletionBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected *CompletionBlockedError, got %T", err)
	}
	if len(blocked.ActiveOrders) != 1 || blocked.ActiveOrders[0].ID != preparing.ID {
		t.Errorf("blockers = %+v, want only order #2", blocked.ActiveOrders)
	}
	if blocked.CustomerName != "Asha" {
		t.Errorf("customer = %q", blocked.CustomerName)
	}
}

func TestCanCompleteAllowsWhenSiblingsSettled(t *testing.T) {
	ready := models.Order{ID: 1, TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusReady}
	done := models.Order{ID: 2, TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusCompleted}
	cancelled := models.Order{ID: 3, TableNumber: 4, CustomerName: "Asha", Status: models.OrderStatusCancelled}

	if err := CanComplete(ready, []models.Order{ready, done, cancelled}); err != nil {
		t.Errorf("completion should be allowed: %v", err)
	}
}
