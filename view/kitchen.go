package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/policy"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

// KitchenController drives the kitchen queue: active and completed orders
// partitioned by status, a quick-action that advances an order one step, and
// pure filtering/sorting for display.
type KitchenController struct {
	set     *orderSet
	api     OrderAPI
	channel PushChannel
	unsubs  []func()
}

func NewKitchenController(api OrderAPI, channel PushChannel) *KitchenController {
	return &KitchenController{set: newOrderSet(), api: api, channel: channel}
}

// Load replaces the local lists with a fresh snapshot. Used on startup and as
// the manual reconcile path when push delivery was interrupted.
func (k *KitchenController) Load(orders []models.Order) {
	k.set.load(orders)
}

// Bind joins the kitchen room and starts applying push events.
func (k *KitchenController) Bind() error {
	if err := k.channel.Subscribe(realtime.RoomKitchen); err != nil {
		return fmt.Errorf("join kitchen room: %w", err)
	}
	k.unsubs = append(k.unsubs,
		k.channel.On(realtime.EventNewOrder, func(e realtime.Event) { k.onNewOrder(e) }),
		k.channel.On(realtime.EventOrderStatusUpdate, func(e realtime.Event) { k.onStatusUpdate(e) }),
		k.channel.On(realtime.EventOrderCompleted, func(e realtime.Event) { k.onCompleted(e) }),
		k.channel.On(realtime.EventOrderDeleted, func(e realtime.Event) { k.onDeleted(e) }),
		k.channel.On(realtime.EventNewItemsAdded, func(e realtime.Event) { k.onNewItems(e) }),
	)
	return nil
}

// Advance is the quick-action: move the order one step forward. The policy
// runs locally first; a rejected transition never reaches the network.
func (k *KitchenController) Advance(ctx context.Context, orderID uint) (*models.Order, error) {
	order, ok := k.set.get(orderID)
	if !ok {
		return nil, fmt.Errorf("order %d is not on the queue", orderID)
	}

	next, ok := policy.NextStatus(order.Status)
	if !ok {
		return nil, &policy.TransitionError{Current: order.Status, Attempted: order.Status}
	}
	return k.SetStatus(ctx, orderID, next)
}

// SetStatus moves the order to an explicit status, policy-checked locally.
func (k *KitchenController) SetStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	order, ok := k.set.get(orderID)
	if !ok {
		return nil, fmt.Errorf("order %d is not on the queue", orderID)
	}
	if err := policy.ValidateTransition(order.Status, next); err != nil {
		return nil, err
	}
	if next == models.OrderStatusCompleted {
		if err := policy.CanComplete(order, k.set.siblings(order)); err != nil {
			return nil, err
		}
	}

	updated, err := k.api.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}
	// the response applies under the same timestamp guard as push events, so
	// a late reply cannot undo a newer update
	k.set.applyStatus(updated.ID, updated.Status, updated.UpdatedAt)
	return updated, nil
}

// Active returns the working queue, newest first.
func (k *KitchenController) Active() []models.Order {
	return k.set.active()
}

// Completed returns finished orders past their display grace.
func (k *KitchenController) Completed() []models.Order {
	return k.set.completed()
}

// Queue applies the current filter and sort to the active list.
func (k *KitchenController) Queue(filter models.OrderStatus, key SortKey) []models.Order {
	return FilterAndSort(k.set.active(), filter, key)
}

// Degraded reports whether the push connection is down and the queue may be
// stale.
func (k *KitchenController) Degraded() bool {
	return k.channel.Degraded()
}

func (k *KitchenController) Close() {
	for _, unsub := range k.unsubs {
		unsub()
	}
	k.unsubs = nil
}

func (k *KitchenController) onNewOrder(e realtime.Event) {
	var payload realtime.NewOrder
	if err := e.Decode(&payload); err != nil {
		slog.Warn("bad new-order payload", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := k.api.GetOrderByID(ctx, payload.ID)
	if err != nil {
		slog.Warn("new order fetch failed", "order_id", payload.ID, "error", err)
		return
	}
	k.set.upsert(*order)
}

func (k *KitchenController) onStatusUpdate(e realtime.Event) {
	var update realtime.OrderStatusUpdate
	if err := e.Decode(&update); err != nil {
		slog.Warn("bad status-update payload", "error", err)
		return
	}
	k.set.applyStatus(update.OrderID, update.Status, update.Timestamp)
}

// onCompleted handles backends that announce completion as its own event
// instead of a status update. The payload carries no timestamp, so the order
// is refetched and the server state applied under the usual guard.
func (k *KitchenController) onCompleted(e realtime.Event) {
	var done realtime.OrderCompleted
	if err := e.Decode(&done); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := k.api.GetOrderByID(ctx, done.OrderID)
	if err != nil {
		slog.Warn("order refetch after order-completed failed", "order_id", done.OrderID, "error", err)
		return
	}
	if !k.set.applyStatus(order.ID, order.Status, order.UpdatedAt) {
		k.set.upsert(*order)
	}
}

func (k *KitchenController) onDeleted(e realtime.Event) {
	var deleted realtime.OrderDeleted
	if err := e.Decode(&deleted); err != nil {
		return
	}
	k.set.remove(deleted.OrderID)
}

func (k *KitchenController) onNewItems(e realtime.Event) {
	var added realtime.NewItemsAdded
	if err := e.Decode(&added); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := k.api.GetOrderByID(ctx, added.OrderID)
	if err != nil {
		slog.Warn("order refetch after new-items-added failed", "order_id", added.OrderID, "error", err)
		return
	}
	k.set.upsert(*order)
}
