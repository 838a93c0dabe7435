package view

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/backend"
	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/policy"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

// AdminController drives the dashboard: the filtered order table, single and
// bulk status changes, deletes and search. Every mutation is policy-checked
// per order before the network is touched.
type AdminController struct {
	set     *orderSet
	api     OrderAPI
	channel PushChannel
	unsubs  []func()
}

func NewAdminController(api OrderAPI, channel PushChannel) *AdminController {
	return &AdminController{set: newOrderSet(), api: api, channel: channel}
}

func (a *AdminController) Load(orders []models.Order) {
	a.set.load(orders)
}

// Bind joins the admin room and starts applying push events.
func (a *AdminController) Bind() error {
	if err := a.channel.Subscribe(realtime.RoomAdmin); err != nil {
		return fmt.Errorf("join admin room: %w", err)
	}
	a.unsubs = append(a.unsubs,
		a.channel.On(realtime.EventNewOrder, func(e realtime.Event) { a.onNewOrder(e) }),
		a.channel.On(realtime.EventOrderStatusUpdate, func(e realtime.Event) { a.onStatusUpdate(e) }),
		a.channel.On(realtime.EventOrderCompleted, func(e realtime.Event) { a.onCompleted(e) }),
		a.channel.On(realtime.EventOrderDeleted, func(e realtime.Event) { a.onDeleted(e) }),
		a.channel.On(realtime.EventNewItemsAdded, func(e realtime.Event) { a.onNewItems(e) }),
	)
	return nil
}

// UpdateStatus changes one order. Illegal transitions and completion with
// active sibling orders fail locally with no call made.
func (a *AdminController) UpdateStatus(ctx context.Context, orderID uint, next models.OrderStatus) (*models.Order, error) {
	order, ok := a.set.get(orderID)
	if !ok {
		return nil, fmt.Errorf("unknown order %d", orderID)
	}
	if err := policy.ValidateTransition(order.Status, next); err != nil {
		return nil, err
	}
	if next == models.OrderStatusCompleted {
		if err := policy.CanComplete(order, a.set.siblings(order)); err != nil {
			return nil, err
		}
	}

	updated, err := a.api.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}
	a.set.applyStatus(updated.ID, updated.Status, updated.UpdatedAt)
	return updated, nil
}

// BulkUpdateStatus validates the transition for every selected order first;
// any policy violation aborts the whole action before the network call.
func (a *AdminController) BulkUpdateStatus(ctx context.Context, orderIDs []uint, next models.OrderStatus) error {
	for _, id := range orderIDs {
		order, ok := a.set.get(id)
		if !ok {
			return fmt.Errorf("unknown order %d", id)
		}
		if err := policy.ValidateTransition(order.Status, next); err != nil {
			return fmt.Errorf("order %s: %w", order.OrderNumber, err)
		}
		if next == models.OrderStatusCompleted {
			if err := policy.CanComplete(order, a.set.siblings(order)); err != nil {
				return fmt.Errorf("order %s: %w", order.OrderNumber, err)
			}
		}
	}

	if err := a.api.BulkUpdateOrderStatus(ctx, orderIDs, next); err != nil {
		return err
	}
	// refetch rather than stamping with the local clock; a local timestamp
	// ahead of the server's would make the next push look stale
	for _, id := range orderIDs {
		order, err := a.api.GetOrderByID(ctx, id)
		if err != nil {
			slog.Warn("order refetch after bulk update failed", "order_id", id, "error", err)
			continue
		}
		a.set.upsert(*order)
	}
	return nil
}

// Delete removes the order on the backend and locally. The push fan-out
// clears it from the other surfaces.
func (a *AdminController) Delete(ctx context.Context, orderID uint) error {
	if err := a.api.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	a.set.remove(orderID)
	return nil
}

// Search runs a backend query and replaces the local table with the result.
func (a *AdminController) Search(ctx context.Context, f backend.SearchFilters) ([]models.Order, error) {
	orders, err := a.api.SearchOrders(ctx, f)
	if err != nil {
		return nil, err
	}
	a.set.load(orders)
	return orders, nil
}

// Table applies the dashboard filter and sort to all known orders.
func (a *AdminController) Table(filter models.OrderStatus, key SortKey) []models.Order {
	all := append(a.set.active(), a.set.completed()...)
	return FilterAndSort(all, filter, key)
}

func (a *AdminController) Active() []models.Order    { return a.set.active() }
func (a *AdminController) Completed() []models.Order { return a.set.completed() }

func (a *AdminController) Degraded() bool { return a.channel.Degraded() }

func (a *AdminController) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
}

func (a *AdminController) onNewOrder(e realtime.Event) {
	var payload realtime.NewOrder
	if err := e.Decode(&payload); err != nil {
		slog.Warn("bad new-order payload", "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := a.api.GetOrderByID(ctx, payload.ID)
	if err != nil {
		slog.Warn("new order fetch failed", "order_id", payload.ID, "error", err)
		return
	}
	a.set.upsert(*order)
}

func (a *AdminController) onStatusUpdate(e realtime.Event) {
	var update realtime.OrderStatusUpdate
	if err := e.Decode(&update); err != nil {
		return
	}
	a.set.applyStatus(update.OrderID, update.Status, update.Timestamp)
}

// onCompleted mirrors the kitchen handler: the payload has no timestamp, so
// the server state is refetched and applied under the guard.
func (a *AdminController) onCompleted(e realtime.Event) {
	var done realtime.OrderCompleted
	if err := e.Decode(&done); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := a.api.GetOrderByID(ctx, done.OrderID)
	if err != nil {
		slog.Warn("order refetch after order-completed failed", "order_id", done.OrderID, "error", err)
		return
	}
	if !a.set.applyStatus(order.ID, order.Status, order.UpdatedAt) {
		a.set.upsert(*order)
	}
}

func (a *AdminController) onDeleted(e realtime.Event) {
	var deleted realtime.OrderDeleted
	if err := e.Decode(&deleted); err != nil {
		return
	}
	a.set.remove(deleted.OrderID)
}

func (a *AdminController) onNewItems(e realtime.Event) {
	var added realtime.NewItemsAdded
	if err := e.Decode(&added); err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	order, err := a.api.GetOrderByID(ctx, added.OrderID)
	if err != nil {
		slog.Warn("order refetch after new-items-added failed", "order_id", added.OrderID, "error", err)
		return
	}
	a.set.upsert(*order)
}
