// Package view holds the per-surface controllers: the customer menu/cart/
// tracking reducer, the kitchen queue and the admin dashboard. Controllers
// reconcile optimistic local edits with push events and run the transition
// policy before every mutating call.
package view

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/backend"
	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

const (
	// ContinueGrace protects a manual "continue ordering" navigation from
	// being overridden by a same-tick tracking promotion.
	ContinueGrace = 10 * time.Second
	// CompletedGrace keeps a just-completed order on the active list briefly
	// so staff see the transition happen.
	CompletedGrace = 5 * time.Second
)

// OrderAPI is the slice of the backend contract the staff surfaces need.
// Satisfied by *backend.Client; narrow interface for testability.
type OrderAPI interface {
	UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error)
	BulkUpdateOrderStatus(ctx context.Context, orderIDs []uint, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID uint) error
	SearchOrders(ctx context.Context, f backend.SearchFilters) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error)
}

// PushChannel is the slice of the realtime channel controllers bind to.
// Satisfied by *realtime.Channel.
type PushChannel interface {
	Subscribe(room string) error
	On(name string, fn func(realtime.Event)) func()
	Degraded() bool
}

// orderSet is the shared local order list of the kitchen and admin surfaces:
// a status-partitioned set with per-order timestamp guards and the
// completed-display grace hold.
type orderSet struct {
	mu          sync.Mutex
	orders      map[uint]models.Order
	lastApplied map[uint]time.Time
	graceHold   map[uint]bool
	schedule    func(d time.Duration, fn func())
}

func newOrderSet() *orderSet {
	return &orderSet{
		orders:      make(map[uint]models.Order),
		lastApplied: make(map[uint]time.Time),
		graceHold:   make(map[uint]bool),
		schedule:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// load replaces the whole set (initial load or manual reconcile poll).
func (s *orderSet) load(orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = make(map[uint]models.Order, len(orders))
	s.lastApplied = make(map[uint]time.Time, len(orders))
	s.graceHold = make(map[uint]bool)
	for _, o := range orders {
		s.orders[o.ID] = o
		s.lastApplied[o.ID] = o.UpdatedAt
	}
}

// upsert inserts or replaces one order, keeping the newer timestamp.
func (s *orderSet) upsert(o models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if last, ok := s.lastApplied[o.ID]; ok && o.UpdatedAt.Before(last) {
		return
	}
	s.orders[o.ID] = o
	s.lastApplied[o.ID] = o.UpdatedAt
}

// applyStatus moves one order's status if the event is not older than the
// last applied update. A stale or unknown event is a no-op; state never
// regresses to what a late event carries.
func (s *orderSet) applyStatus(orderID uint, status models.OrderStatus, ts time.Time) bool {
	s.mu.Lock()

	o, ok := s.orders[orderID]
	if !ok || ts.Before(s.lastApplied[orderID]) {
		s.mu.Unlock()
		return false
	}
	wasActive := o.IsActive()
	o.Status = status
	o.UpdatedAt = ts
	s.orders[orderID] = o
	s.lastApplied[orderID] = ts
	startGrace := wasActive && status.IsTerminal()
	if startGrace {
		s.graceHold[orderID] = true
	}
	s.mu.Unlock()

	if startGrace {
		s.schedule(CompletedGrace, func() {
			s.mu.Lock()
			delete(s.graceHold, orderID)
			s.mu.Unlock()
		})
	}
	return true
}

func (s *orderSet) remove(orderID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, orderID)
	delete(s.lastApplied, orderID)
	delete(s.graceHold, orderID)
}

func (s *orderSet) get(orderID uint) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	return o, ok
}

// active returns the working list: non-terminal orders plus terminal ones
// still inside the display grace.
func (s *orderSet) active() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for id, o := range s.orders {
		if o.IsActive() || s.graceHold[id] {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

// completed returns terminal orders past their display grace.
func (s *orderSet) completed() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for id, o := range s.orders {
		if !o.IsActive() && !s.graceHold[id] {
			out = append(out, o)
		}
	}
	sortNewestFirst(out)
	return out
}

// siblings returns every known order for the same customer and table.
func (s *orderSet) siblings(o models.Order) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, other := range s.orders {
		if other.TableNumber == o.TableNumber && other.CustomerName == o.CustomerName {
			out = append(out, other)
		}
	}
	return out
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
