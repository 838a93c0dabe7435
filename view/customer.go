package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/backend"
	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

type CustomerView string

const (
	ViewMenu     CustomerView = "menu"
	ViewCart     CustomerView = "cart"
	ViewTracking CustomerView = "tracking"
)

type Notice string

const (
	NoticeNone           Notice = ""
	NoticeOrderPlaced    Notice = "order-placed"
	NoticeItemsAdded     Notice = "items-added"
	NoticeOrderCompleted Notice = "order-completed"
	NoticeOrderCancelled Notice = "order-cancelled"
)

// CustomerState is everything the customer surface renders. It only changes
// through ReduceCustomer.
type CustomerState struct {
	View        CustomerView
	Order       *models.Order
	Cart        []models.CartEntry
	Notice      Notice
	Degraded    bool
	LastApplied time.Time // timestamp guard for Order status
	BrowseUntil time.Time // manual-navigation grace deadline
}

// Action is a local user action or a normalized remote event. View selection
// is a pure reducer over the action stream, so manual navigation and
// automatic tracking promotion cannot race inside event callbacks.
type Action interface{ customerAction() }

// Loaded carries the initial snapshot: a tracked order (if an identifier was
// present) and the persisted cart.
type Loaded struct {
	Order *models.Order
	Cart  []models.CartEntry
}

// CartChanged carries the cart after a persistence round-trip.
type CartChanged struct{ Cart []models.CartEntry }

// OrderPlaced is the placement response. Merged means the backend folded the
// items into an existing order instead of opening a new one.
type OrderPlaced struct {
	Order  models.Order
	Merged bool
}

// ContinueOrdering is the manual navigation back to the menu.
type ContinueOrdering struct{}

// StatusPushed is an order-status-update event, or a late REST response
// normalized into the same shape.
type StatusPushed struct{ Update realtime.OrderStatusUpdate }

// ItemsRefreshed replaces the tracked order after a new-items-added refetch.
type ItemsRefreshed struct{ Order models.Order }

// OrderGone is a fresh start: the tracked order was deleted or the
// cancellation cooldown expired.
type OrderGone struct{}

// ConnectionChanged toggles the degraded-connection banner.
type ConnectionChanged struct{ Degraded bool }

func (Loaded) customerAction()            {}
func (CartChanged) customerAction()       {}
func (OrderPlaced) customerAction()       {}
func (ContinueOrdering) customerAction()  {}
func (StatusPushed) customerAction()      {}
func (ItemsRefreshed) customerAction()    {}
func (OrderGone) customerAction()         {}
func (ConnectionChanged) customerAction() {}

// ReduceCustomer applies one action. It never regresses the tracked order to
// a status carried by a stale event: updates apply only when their timestamp
// is not older than the last applied one.
func ReduceCustomer(s CustomerState, a Action, now time.Time) CustomerState {
	s.Notice = NoticeNone

	switch act := a.(type) {
	case Loaded:
		s.Order = act.Order
		s.Cart = act.Cart
		switch {
		case act.Order != nil:
			s.View = ViewTracking
			s.LastApplied = act.Order.UpdatedAt
		case len(act.Cart) > 0:
			s.View = ViewCart
		default:
			s.View = ViewMenu
		}

	case CartChanged:
		s.Cart = act.Cart

	case OrderPlaced:
		order := act.Order
		s.Order = &order
		s.Cart = nil
		s.View = ViewTracking
		s.LastApplied = order.UpdatedAt
		if s.LastApplied.IsZero() {
			s.LastApplied = now
		}
		// a merged placement is "items added", not a second order
		if act.Merged {
			s.Notice = NoticeItemsAdded
		} else {
			s.Notice = NoticeOrderPlaced
		}

	case ContinueOrdering:
		s.View = ViewMenu
		s.BrowseUntil = now.Add(ContinueGrace)

	case StatusPushed:
		if s.Order == nil || s.Order.ID != act.Update.OrderID {
			return s
		}
		if act.Update.Timestamp.Before(s.LastApplied) {
			return s // stale; a newer update already landed
		}
		order := *s.Order
		order.Status = act.Update.Status
		order.UpdatedAt = act.Update.Timestamp
		s.Order = &order
		s.LastApplied = act.Update.Timestamp

		switch act.Update.Status {
		case models.OrderStatusCancelled:
			s.Order = nil
			s.Cart = nil
			s.View = ViewMenu
			s.Notice = NoticeOrderCancelled
		case models.OrderStatusCompleted:
			s.Notice = NoticeOrderCompleted
		default:
			s = promoteToTracking(s, now)
		}

	case ItemsRefreshed:
		if s.Order == nil || s.Order.ID != act.Order.ID {
			return s
		}
		if act.Order.UpdatedAt.After(s.LastApplied) {
			s.LastApplied = act.Order.UpdatedAt
		}
		order := act.Order
		s.Order = &order
		s.Notice = NoticeItemsAdded
		s = promoteToTracking(s, now)

	case OrderGone:
		s.Order = nil
		s.Cart = nil
		s.View = ViewMenu

	case ConnectionChanged:
		s.Degraded = act.Degraded
	}

	return s
}

// promoteToTracking moves the view to tracking unless a manual navigation is
// still inside its grace window.
func promoteToTracking(s CustomerState, now time.Time) CustomerState {
	if s.View == ViewTracking {
		return s
	}
	if now.Before(s.BrowseUntil) {
		return s
	}
	s.View = ViewTracking
	return s
}

// SessionStore is the slice of the session repository the customer surface
// needs. Satisfied by *session.Repository.
type SessionStore interface {
	Get(key string) (models.Session, error)
	SetCart(key string, cart []models.CartEntry) error
	AddToCart(key string, entry models.CartEntry) error
	SetCustomer(key, name string) error
	SetInstructions(key, text string) error
	MarkCancelled(key string, marker models.CancelledOrderMarker) error
	Clear(key string) error
}

// CustomerAPI is the slice of the backend contract the customer surface needs.
type CustomerAPI interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest) (*backend.CreateOrderResult, error)
	GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
}

// CustomerController binds the reducer to the session store, the backend and
// the push channel for one table.
type CustomerController struct {
	mu    sync.Mutex
	state CustomerState

	table    models.Table
	key      string // session key, derived from the QR code
	sessions SessionStore
	api      CustomerAPI
	channel  PushChannel
	now      func() time.Time
	unsubs   []func()
}

func NewCustomerController(table models.Table, sessions SessionStore, api CustomerAPI, channel PushChannel) *CustomerController {
	return &CustomerController{
		table:    table,
		key:      table.QRCode,
		sessions: sessions,
		api:      api,
		channel:  channel,
		now:      time.Now,
	}
}

// Load restores the session, fetches the tracked order when an identifier is
// known, and wires the push subscriptions. A missing order is treated as
// absent state, not a failure: the customer lands on the menu.
func (c *CustomerController) Load(ctx context.Context, orderID uint) error {
	sess, err := c.sessions.Get(c.key)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var order *models.Order
	if orderID != 0 {
		order, err = c.api.GetOrderByID(ctx, orderID)
		if err != nil {
			slog.Warn("tracked order lookup failed; falling back to menu",
				"order_id", orderID, "error", err)
			order = nil
		}
	}

	c.dispatch(Loaded{Order: order, Cart: sess.Cart})

	if err := c.channel.Subscribe(realtime.TableRoom(c.table.TableNumber)); err != nil {
		return fmt.Errorf("join table room: %w", err)
	}
	if order != nil {
		if err := c.channel.Subscribe(realtime.CustomerRoom(order.ID)); err != nil {
			return fmt.Errorf("join customer room: %w", err)
		}
	}
	c.bind()
	return nil
}

// AddToCart persists the entry and refreshes the rendered cart.
func (c *CustomerController) AddToCart(entry models.CartEntry) error {
	if err := c.sessions.AddToCart(c.key, entry); err != nil {
		return err
	}
	return c.refreshCart()
}

// SetCart replaces the cart wholesale (quantity edits, removals).
func (c *CustomerController) SetCart(cart []models.CartEntry) error {
	if err := c.sessions.SetCart(c.key, cart); err != nil {
		return err
	}
	return c.refreshCart()
}

func (c *CustomerController) SetCustomer(name string) error {
	return c.sessions.SetCustomer(c.key, name)
}

func (c *CustomerController) SetInstructions(text string) error {
	return c.sessions.SetInstructions(c.key, text)
}

// PlaceOrder sends the cart to the backend. The backend decides whether the
// items merge into an existing order; either way the surface moves to
// tracking, with the notification picked accordingly.
func (c *CustomerController) PlaceOrder(ctx context.Context) (*backend.CreateOrderResult, error) {
	sess, err := c.sessions.Get(c.key)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if len(sess.Cart) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	req := backend.CreateOrderRequest{
		TableID:             c.table.ID,
		CustomerName:        sess.CustomerName,
		SpecialInstructions: sess.SpecialInstructions,
	}
	for _, entry := range sess.Cart {
		req.Items = append(req.Items, backend.CreateOrderItem{
			MenuItemID:      entry.MenuItemID,
			Quantity:        entry.Quantity,
			SpecialRequests: entry.SpecialRequests,
		})
	}

	res, err := c.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.sessions.SetCart(c.key, nil); err != nil {
		slog.Warn("cart not cleared after placement", "key", c.key, "error", err)
	}
	c.dispatch(OrderPlaced{Order: res.Order, Merged: res.Merged})

	if err := c.channel.Subscribe(realtime.CustomerRoom(res.Order.ID)); err != nil {
		slog.Warn("customer room join failed", "order_id", res.Order.ID, "error", err)
	}
	return res, nil
}

// ContinueOrdering navigates back to the menu, protected by the grace window.
func (c *CustomerController) ContinueOrdering() {
	c.dispatch(ContinueOrdering{})
}

// Reload refetches the tracked order, reconciling anything push delivery
// missed.
func (c *CustomerController) Reload(ctx context.Context) error {
	c.mu.Lock()
	order := c.state.Order
	c.mu.Unlock()
	if order == nil {
		return nil
	}
	fresh, err := c.api.GetOrderByID(ctx, order.ID)
	if err != nil {
		return err
	}
	c.dispatch(ItemsRefreshed{Order: *fresh})
	return nil
}

// State returns a copy for rendering.
func (c *CustomerController) State() CustomerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close releases the event subscriptions.
func (c *CustomerController) Close() {
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}

func (c *CustomerController) dispatch(a Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ReduceCustomer(c.state, a, c.now())
}

func (c *CustomerController) refreshCart() error {
	sess, err := c.sessions.Get(c.key)
	if err != nil {
		return err
	}
	c.dispatch(CartChanged{Cart: sess.Cart})
	return nil
}

// bind maps push events onto reducer actions.
func (c *CustomerController) bind() {
	c.unsubs = append(c.unsubs,
		c.channel.On(realtime.EventOrderStatusUpdate, func(e realtime.Event) {
			var update realtime.OrderStatusUpdate
			if err := e.Decode(&update); err != nil {
				slog.Warn("bad status-update payload", "error", err)
				return
			}
			if update.Status == models.OrderStatusCancelled && update.TableNumber == c.table.TableNumber {
				marker := models.CancelledOrderMarker{
					OrderID:     update.OrderID,
					TableNumber: update.TableNumber,
					Timestamp:   update.Timestamp,
				}
				if err := c.sessions.MarkCancelled(c.key, marker); err != nil {
					slog.Warn("cancelled marker not persisted", "error", err)
				}
			}
			c.dispatch(StatusPushed{Update: update})
		}),
		c.channel.On(realtime.EventOrderCompleted, func(e realtime.Event) {
			var done realtime.OrderCompleted
			if err := e.Decode(&done); err != nil {
				return
			}
			c.mu.Lock()
			tracked := c.state.Order != nil && c.state.Order.ID == done.OrderID
			c.mu.Unlock()
			if !tracked {
				return
			}
			// no timestamp in the payload; refetch and normalize into a
			// status update so the guard and the completion notice apply
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			fresh, err := c.api.GetOrderByID(ctx, done.OrderID)
			if err != nil {
				slog.Warn("order refetch after order-completed failed", "order_id", done.OrderID, "error", err)
				return
			}
			c.dispatch(StatusPushed{Update: realtime.OrderStatusUpdate{
				OrderID:   fresh.ID,
				Status:    fresh.Status,
				Timestamp: fresh.UpdatedAt,
			}})
		}),
		c.channel.On(realtime.EventOrderDeleted, func(e realtime.Event) {
			var deleted realtime.OrderDeleted
			if err := e.Decode(&deleted); err != nil {
				return
			}
			c.mu.Lock()
			tracked := c.state.Order != nil && c.state.Order.ID == deleted.OrderID
			c.mu.Unlock()
			if tracked {
				if err := c.sessions.Clear(c.key); err != nil {
					slog.Warn("session not cleared after delete", "error", err)
				}
				c.dispatch(OrderGone{})
			}
		}),
		c.channel.On(realtime.EventNewItemsAdded, func(e realtime.Event) {
			var added realtime.NewItemsAdded
			if err := e.Decode(&added); err != nil {
				return
			}
			c.mu.Lock()
			tracked := c.state.Order != nil && c.state.Order.ID == added.OrderID
			c.mu.Unlock()
			if !tracked {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := c.Reload(ctx); err != nil {
				slog.Warn("order refetch after new-items-added failed", "error", err)
			}
		}),
	)
}
