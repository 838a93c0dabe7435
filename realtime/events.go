package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
)

// Event names carried over the wire.
const (
	EventNewOrder          = "new-order"
	EventOrderStatusUpdate = "order-status-update"
	EventOrderCompleted    = "order-completed"
	EventOrderDeleted      = "order-deleted"
	EventNewItemsAdded     = "new-items-added"
)

// Rooms a surface joins explicitly; there is no implicit global subscription.
const (
	RoomAdmin   = "admin"
	RoomKitchen = "kitchen"
)

func TableRoom(tableNumber int) string {
	return fmt.Sprintf("table:%d", tableNumber)
}

func CustomerRoom(orderID uint) string {
	return fmt.Sprintf("customer:%d", orderID)
}

// Event is the envelope every push message travels in.
type Event struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Room    string          `json:"room,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the payload into v.
func (e Event) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

type NewOrder struct {
	ID          uint               `json:"id"`
	OrderNumber string             `json:"orderNumber"`
	TableNumber int                `json:"tableNumber"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount float64            `json:"totalAmount"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type OrderStatusUpdate struct {
	OrderID     uint               `json:"orderId"`
	Status      models.OrderStatus `json:"status"`
	Timestamp   time.Time          `json:"timestamp"`
	TableNumber int                `json:"tableNumber"`
}

type OrderCompleted struct {
	OrderID uint `json:"orderId"`
}

type OrderDeleted struct {
	OrderID     uint `json:"orderId"`
	TableNumber int  `json:"tableNumber"`
}

type NewItemsAdded struct {
	OrderID uint `json:"orderId"`
}
