// Package policy encodes the legal order-status graph. Every mutating call
// site (single update, bulk update, kitchen quick-action) runs the same check
// before touching the network.
package policy

import (
	"fmt"
	"strings"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

// allowedTransitions defines valid status transitions.
// Key is current status, value is the set of statuses it can move to.
// completed and cancelled have no outgoing edges.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusCompleted, models.OrderStatusCancelled},
}

// CanTransition reports whether current may move to next.
func CanTransition(current, next models.OrderStatus) bool {
	for _, s := range allowedTransitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionError names both the attempted and the current status so the
// surface can show a useful message.
type TransitionError struct {
	Current   models.OrderStatus
	Attempted models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.Current, e.Attempted)
}

// ValidateTransition checks the edge and returns a TransitionError otherwise.
func ValidateTransition(current, next models.OrderStatus) error {
	if !CanTransition(current, next) {
		return &TransitionError{Current: current, Attempted: next}
	}
	return nil
}

// NextStatus returns the forward step for the kitchen quick-action.
// Terminal statuses have no forward step.
func NextStatus(current models.OrderStatus) (models.OrderStatus, bool) {
	switch current {
	case models.OrderStatusPending:
		return models.OrderStatusPreparing, true
	case models.OrderStatusPreparing:
		return models.OrderStatusReady, true
	case models.OrderStatusReady:
		return models.OrderStatusCompleted, true
	}
	return "", false
}

// CompletionBlockedError lists the sibling orders that keep an order from
// being completed.
type CompletionBlockedError struct {
	CustomerName string         `json:"customer_name"`
	ActiveOrders []models.Order `json:"active_orders"`
}

func (e *CompletionBlockedError) Error() string {
	numbers := make([]string, 0, len(e.ActiveOrders))
	for _, o := range e.ActiveOrders {
		numbers = append(numbers, o.OrderNumber)
	}
	return fmt.Sprintf("customer %s still has active orders: %s",
		e.CustomerName, strings.Join(numbers, ", "))
}

// CanComplete is the secondary completion guard: completing an order is
// refused while the same customer has other non-terminal orders on the same
// table. siblings is the full order list known for that customer/table; the
// order itself is skipped.
func CanComplete(order models.Order, siblings []models.Order) error {
	var blocking []models.Order
	for _, o := range siblings {
		if o.ID == order.ID {
			continue
		}
		if o.TableNumber != order.TableNumber || o.CustomerName != order.CustomerName {
			continue
		}
		if o.IsActive() {
			blocking = append(blocking, o)
		}
	}
	if len(blocking) > 0 {
		return &CompletionBlockedError{CustomerName: order.CustomerName, ActiveOrders: blocking}
	}
	return nil
}
