// Package session keeps the per-table cart, customer identity and special
// instructions between QR scans, with mutation timestamping and a staleness
// sweep so a returning customer never sees a dead cart.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

const (
	// StaleAfter is the ceiling on session age; anything older is wiped on load.
	StaleAfter = 4 * time.Hour
	// CancelCooldown is how long a cancelled-order marker lingers before the
	// sweep clears it together with all session data (fresh start).
	CancelCooldown = 5 * time.Minute
)

// blob is what actually gets persisted per table code: the session plus an
// optional cancelled-order marker.
type blob struct {
	Session   models.Session               `json:"session"`
	Cancelled *models.CancelledOrderMarker `json:"cancelled,omitempty"`
}

// Repository is the typed session store keyed by table/QR identifier.
type Repository struct {
	store Store
	now   func() time.Time
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

// WithClock overrides the time source.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// Get returns the session for key after running the staleness sweep, so
// callers never observe an expired cart.
func (r *Repository) Get(key string) (models.Session, error) {
	b, err := r.load(key)
	if err != nil {
		return models.Session{}, err
	}
	if r.sweep(key, &b) {
		return models.Session{}, nil
	}
	return b.Session, nil
}

// Cancelled returns the active cancelled-order marker for key, if any.
func (r *Repository) Cancelled(key string) (*models.CancelledOrderMarker, error) {
	b, err := r.load(key)
	if err != nil {
		return nil, err
	}
	if r.sweep(key, &b) {
		return nil, nil
	}
	return b.Cancelled, nil
}

// SetCart replaces the cart. An empty cart clears the entry rather than
// persisting an empty list, so shared-table devices never see
// empty-but-present state.
func (r *Repository) SetCart(key string, cart []models.CartEntry) error {
	return r.mutate(key, func(b *blob) {
		if len(cart) == 0 {
			b.Session.Cart = nil
			return
		}
		b.Session.Cart = cart
	})
}

// AddToCart appends an entry; a duplicate menu_item_id increments the
// existing quantity instead.
func (r *Repository) AddToCart(key string, entry models.CartEntry) error {
	return r.mutate(key, func(b *blob) {
		for i := range b.Session.Cart {
			if b.Session.Cart[i].MenuItemID == entry.MenuItemID {
				b.Session.Cart[i].Quantity += entry.Quantity
				if entry.SpecialRequests != "" {
					b.Session.Cart[i].SpecialRequests = entry.SpecialRequests
				}
				return
			}
		}
		b.Session.Cart = append(b.Session.Cart, entry)
	})
}

func (r *Repository) SetCustomer(key, name string) error {
	return r.mutate(key, func(b *blob) { b.Session.CustomerName = name })
}

func (r *Repository) SetInstructions(key, text string) error {
	return r.mutate(key, func(b *blob) { b.Session.SpecialInstructions = text })
}

// Touch refreshes the staleness timestamp without changing anything else.
func (r *Repository) Touch(key string) error {
	return r.mutate(key, func(b *blob) {})
}

// MarkCancelled records a cancelled push event for the table. The session
// survives until the cooldown sweep clears everything.
func (r *Repository) MarkCancelled(key string, marker models.CancelledOrderMarker) error {
	return r.mutate(key, func(b *blob) { b.Cancelled = &marker })
}

// Clear wipes all keyed data for the table.
func (r *Repository) Clear(key string) error {
	return r.store.Delete(key)
}

// load reads and decodes the blob; malformed data degrades to empty state.
func (r *Repository) load(key string) (blob, error) {
	data, version, ok, err := r.store.Load(key)
	if err != nil {
		return blob{}, fmt.Errorf("load session %q: %w", key, err)
	}
	if !ok {
		return blob{}, nil
	}
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		slog.Warn("discarding malformed session payload", "key", key, "error", err)
		return blob{}, nil
	}
	b.Session.Version = version
	return b, nil
}

// sweep wipes the key when the session aged past the ceiling or a cancelled
// marker outlived its cooldown. Returns true when the data was cleared.
func (r *Repository) sweep(key string, b *blob) bool {
	now := r.now()
	if b.Cancelled != nil && now.Sub(b.Cancelled.Timestamp) > CancelCooldown {
		if err := r.store.Delete(key); err != nil {
			slog.Warn("cancelled-order sweep failed", "key", key, "error", err)
		}
		return true
	}
	if !b.Session.LastMutatedAt.IsZero() && now.Sub(b.Session.LastMutatedAt) > StaleAfter {
		if err := r.store.Delete(key); err != nil {
			slog.Warn("stale-session sweep failed", "key", key, "error", err)
		}
		return true
	}
	return false
}

func (r *Repository) mutate(key string, apply func(*blob)) error {
	b, err := r.load(key)
	if err != nil {
		return err
	}
	if r.sweep(key, &b) {
		b = blob{}
	}
	apply(&b)

	if b.Session.IsEmpty() && b.Cancelled == nil {
		return r.store.Delete(key)
	}

	b.Session.LastMutatedAt = r.now()
	b.Session.Version++
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode session %q: %w", key, err)
	}
	if err := r.store.Save(key, data, b.Session.Version); err != nil {
		return fmt.Errorf("save session %q: %w", key, err)
	}
	return nil
}
