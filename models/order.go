package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	// Order statuses (dine-in flow)
	OrderStatusPending   OrderStatus = "pending"   // Order placed, waiting for the kitchen
	OrderStatusPreparing OrderStatus = "preparing" // Kitchen is working on it
	OrderStatusReady     OrderStatus = "ready"     // Ready to be served
	OrderStatusCompleted OrderStatus = "completed" // Served and settled
	OrderStatusCancelled OrderStatus = "cancelled" // Cancelled before completion
)

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OrderNumber  string      `gorm:"uniqueIndex" json:"order_number"`
	TableNumber  int         `gorm:"index" json:"table_number"`
	CustomerName string      `json:"customer_name"`
	Status       OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	Items        []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount  float64     `json:"total_amount"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderItem keeps its own created_at even when items are appended to an
// existing order; newness highlighting and session grouping depend on it.
type OrderItem struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	OrderID             uint      `gorm:"index" json:"order_id"`
	MenuItemID          uint      `json:"menu_item_id"`
	Name                string    `json:"name"`
	Quantity            int       `json:"quantity"`
	UnitPrice           float64   `json:"unit_price"`
	TotalPrice          float64   `json:"total_price"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// IsTerminal reports whether no further status change is accepted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// IsActive reports whether the order still needs attention on a surface.
func (o Order) IsActive() bool {
	return !o.Status.IsTerminal()
}

// Map string to OrderStatus
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(OrderStatusPending):
		return OrderStatusPending, nil
	case string(OrderStatusPreparing):
		return OrderStatusPreparing, nil
	case string(OrderStatusReady):
		return OrderStatusReady, nil
	case string(OrderStatusCompleted):
		return OrderStatusCompleted, nil
	case string(OrderStatusCancelled):
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}
