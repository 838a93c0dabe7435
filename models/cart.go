package models

import "time"

// CartEntry is a pre-order item held client-side. Entries are unique by
// menu_item_id; adding the same item again increments the quantity.
type CartEntry struct {
	MenuItemID      uint    `json:"menu_item_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	SpecialRequests string  `json:"special_requests,omitempty"`
}

// Session is everything persisted for one table/QR identifier between scans.
type Session struct {
	Cart                []CartEntry `json:"cart,omitempty"`
	CustomerName        string      `json:"customer_name,omitempty"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	LastMutatedAt       time.Time   `json:"last_mutated_at"`
	Version             int64       `json:"version"`
}

// CancelledOrderMarker records a cancelled push event for a table. After the
// cooldown elapses a sweep clears the marker and all session data.
type CancelledOrderMarker struct {
	OrderID     uint      `json:"order_id"`
	TableNumber int       `json:"table_number"`
	Timestamp   time.Time `json:"timestamp"`
}

// CartTotal sums price x quantity over all entries.
func CartTotal(cart []CartEntry) float64 {
	total := 0.0
	for _, entry := range cart {
		total += entry.Price * float64(entry.Quantity)
	}
	return total
}

// IsEmpty reports whether nothing worth keeping is stored.
func (s Session) IsEmpty() bool {
	return len(s.Cart) == 0 && s.CustomerName == "" && s.SpecialInstructions == ""
}
