package models

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "preparing", "ready", "completed", "cancelled"} {
		got, err := ParseOrderStatus(s)
		if err != nil || string(got) != s {
			t.Errorf("ParseOrderStatus(%q) = %q, %v", s, got, err)
		}
	}
	if got, err := ParseOrderStatus("READY"); err != nil || got != OrderStatusReady {
		t.Errorf("parsing is case-insensitive: %q, %v", got, err)
	}
	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Error("unknown status must be rejected")
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !OrderStatusCompleted.IsTerminal() || !OrderStatusCancelled.IsTerminal() {
		t.Error("completed and cancelled are terminal")
	}
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestCartTotal(t *testing.T) {
	cart := []CartEntry{
		{MenuItemID: 1, Price: 12.5, Quantity: 2},
		{MenuItemID: 2, Price: 3, Quantity: 3},
	}
	if got, want := CartTotal(cart), 12.5*2+3*3; got != want {
		t.Errorf("CartTotal = %v, want %v", got, want)
	}
	if got := CartTotal(nil); got != 0 {
		t.Errorf("empty cart total = %v", got)
	}
}
