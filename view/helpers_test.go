package view

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/backend"
	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

// fakeChannel feeds events straight through a bus, standing in for the
// websocket channel.
type fakeChannel struct {
	bus      *realtime.Bus
	mu       sync.Mutex
	rooms    []string
	degraded bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{bus: realtime.NewBus()}
}

func (f *fakeChannel) Subscribe(room string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, room)
	return nil
}

func (f *fakeChannel) On(name string, fn func(realtime.Event)) func() {
	return f.bus.Subscribe(name, fn)
}

func (f *fakeChannel) Degraded() bool { return f.degraded }

func (f *fakeChannel) push(t *testing.T, name string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	f.bus.Publish(realtime.Event{ID: "test", Name: name, Payload: data})
}

// fakeAPI is an in-memory stand-in for the backend contract that counts
// mutating calls, so tests can assert a policy rejection made no call.
type fakeAPI struct {
	mu          sync.Mutex
	orders      map[uint]models.Order
	updateCalls int
	bulkCalls   int
	deleteCalls int
	updateErr   error
	createRes   *backend.CreateOrderResult
	createErr   error
	bulkStamp   time.Time // server-side updated_at applied by bulk updates
}

func newFakeAPI(orders ...models.Order) *fakeAPI {
	api := &fakeAPI{orders: make(map[uint]models.Order)}
	for _, o := range orders {
		api.orders[o.ID] = o
	}
	return api
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, backend.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	f.orders[orderID] = o
	return &o, nil
}

func (f *fakeAPI) BulkUpdateOrderStatus(_ context.Context, orderIDs []uint, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	for _, id := range orderIDs {
		o := f.orders[id]
		o.Status = status
		if f.bulkStamp.IsZero() {
			o.UpdatedAt = time.Now()
		} else {
			o.UpdatedAt = f.bulkStamp
		}
		f.orders[id] = o
	}
	return nil
}

func (f *fakeAPI) DeleteOrder(_ context.Context, orderID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	delete(f.orders, orderID)
	return nil
}

func (f *fakeAPI) SearchOrders(_ context.Context, _ backend.SearchFilters) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeAPI) GetOrderByID(_ context.Context, orderID uint) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, backend.ErrOrderNotFound
	}
	return &o, nil
}

func (f *fakeAPI) CreateOrder(_ context.Context, _ backend.CreateOrderRequest) (*backend.CreateOrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createRes == nil {
		return nil, fmt.Errorf("no create result configured")
	}
	f.orders[f.createRes.Order.ID] = f.createRes.Order
	return f.createRes, nil
}

func (f *fakeAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateCalls + f.bulkCalls + f.deleteCalls
}

// never leaves grace timers pending forever.
func never(_ time.Duration, _ func()) {}
