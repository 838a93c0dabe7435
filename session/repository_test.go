package session

import (
	"errors"
	"testing"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

const key = "table-qr-7f3a"

func newTestRepo(now *time.Time) *Repository {
	return NewRepository(NewMemoryStore()).WithClock(func() time.Time { return *now })
}

func TestCartRoundTrip(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	cart := []models.CartEntry{
		{MenuItemID: 11, Name: "Dal Makhani", Price: 12.5, Quantity: 2},
		{MenuItemID: 12, Name: "Naan", Price: 3, Quantity: 1},
	}
	if err := repo.SetCart(key, cart); err != nil {
		t.Fatal(err)
	}

	sess, err := repo.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Cart) != 2 || sess.Cart[0].MenuItemID != 11 || sess.Cart[1].Quantity != 1 {
		t.Errorf("cart did not round-trip: %+v", sess.Cart)
	}
	if got, want := models.CartTotal(sess.Cart), 12.5*2+3*1; got != want {
		t.Errorf("cart total = %v, want %v", got, want)
	}
}

func TestAddToCartIncrementsDuplicate(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	entry := models.CartEntry{MenuItemID: 11, Name: "Dal Makhani", Price: 12.5, Quantity: 2}
	if err := repo.AddToCart(key, entry); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddToCart(key, models.CartEntry{MenuItemID: 11, Name: "Dal Makhani", Price: 12.5, Quantity: 1}); err != nil {
		t.Fatal(err)
	}

	sess, _ := repo.Get(key)
	if len(sess.Cart) != 1 {
		t.Fatalf("duplicate add must not create a second entry: %+v", sess.Cart)
	}
	if sess.Cart[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", sess.Cart[0].Quantity)
	}
}

func TestStalenessCeilingWipesSession(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	if err := repo.SetCart(key, []models.CartEntry{{MenuItemID: 1, Quantity: 1, Price: 5}}); err != nil {
		t.Fatal(err)
	}

	now = now.Add(StaleAfter + time.Minute)
	sess, err := repo.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Cart) != 0 {
		t.Errorf("stale session should reload empty, got %+v", sess.Cart)
	}
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	if err := repo.SetCart(key, []models.CartEntry{{MenuItemID: 1, Quantity: 1, Price: 5}}); err != nil {
		t.Fatal(err)
	}

	now = now.Add(3 * time.Hour)
	if err := repo.Touch(key); err != nil {
		t.Fatal(err)
	}

	now = now.Add(3 * time.Hour) // 6h since write, 3h since touch
	sess, _ := repo.Get(key)
	if len(sess.Cart) != 1 {
		t.Error("touched session should survive the original ceiling")
	}
}

func TestEmptyCartClearsEntry(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	repo := NewRepository(store).WithClock(func() time.Time { return now })

	if err := repo.SetCart(key, []models.CartEntry{{MenuItemID: 1, Quantity: 1, Price: 5}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetCart(key, []models.CartEntry{}); err != nil {
		t.Fatal(err)
	}

	if _, _, ok, _ := store.Load(key); ok {
		t.Error("empty cart must delete the stored entry, not persist an empty list")
	}
}

func TestCancelledMarkerCooldownSweep(t *testing.T) {
	now := time.Now()
	repo := newTestRepo(&now)

	if err := repo.SetCart(key, []models.CartEntry{{MenuItemID: 1, Quantity: 1, Price: 5}}); err != nil {
		t.Fatal(err)
	}
	marker := models.CancelledOrderMarker{OrderID: 42, TableNumber: 7, Timestamp: now}
	if err := repo.MarkCancelled(key, marker); err != nil {
		t.Fatal(err)
	}

	// inside the cooldown the session and marker survive
	now = now.Add(CancelCooldown - time.Minute)
	got, err := repo.Cancelled(key)
	if err != nil || got == nil || got.OrderID != 42 {
		t.Fatalf("marker should survive the cooldown window: %+v, %v", got, err)
	}
	sess, _ := repo.Get(key)
	if len(sess.Cart) != 1 {
		t.Error("session should survive within cooldown")
	}

	// past the cooldown everything is swept for a fresh start
	now = now.Add(2 * time.Minute)
	sess, err = repo.Get(key)
	if err != nil {
		t.Fatal(err)
	}
	if !sess.IsEmpty() {
		t.Errorf("expected fresh start after cooldown, got %+v", sess)
	}
	if got, _ := repo.Cancelled(key); got != nil {
		t.Error("marker should be gone after the sweep")
	}
}

func TestStaleWriteRejected(t *testing.T) {
	store := NewMemoryStore()
	if err := store.Save(key, []byte("{}"), 5); err != nil {
		t.Fatal(err)
	}
	err := store.Save(key, []byte("{}"), 4)
	if !errors.Is(err, ErrStaleWrite) {
		t.Errorf("older version must be rejected, got %v", err)
	}
	if err := store.Save(key, []byte("{}"), 6); err != nil {
		t.Errorf("newer version must win: %v", err)
	}
}

func TestMalformedPayloadDegradesToEmpty(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore()
	repo := NewRepository(store).WithClock(func() time.Time { return now })

	if err := store.Save(key, []byte("{not json"), 1); err != nil {
		t.Fatal(err)
	}
	sess, err := repo.Get(key)
	if err != nil {
		t.Fatalf("malformed payload must not error: %v", err)
	}
	if !sess.IsEmpty() {
		t.Errorf("malformed payload should read as empty, got %+v", sess)
	}
}
