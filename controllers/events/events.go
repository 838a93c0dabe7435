package eventControllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
)

// publishInput is what the order service posts after a committed mutation.
// Surfaces get the event fanned out to every room it concerns.
type publishInput struct {
	Name        string          `json:"name" binding:"required"`
	TableNumber int             `json:"table_number"`
	OrderID     uint            `json:"order_id"`
	Payload     json.RawMessage `json:"payload" binding:"required"`
}

// POST /internal/events
func Publish(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input publishInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		switch input.Name {
		case realtime.EventNewOrder, realtime.EventOrderStatusUpdate,
			realtime.EventOrderCompleted, realtime.EventOrderDeleted,
			realtime.EventNewItemsAdded:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event name"})
			return
		}

		// staff rooms always hear about order lifecycle changes
		hub.Broadcast(realtime.RoomAdmin, input.Name, input.Payload)
		hub.Broadcast(realtime.RoomKitchen, input.Name, input.Payload)
		if input.TableNumber != 0 {
			hub.Broadcast(realtime.TableRoom(input.TableNumber), input.Name, input.Payload)
		}
		if input.OrderID != 0 {
			hub.Broadcast(realtime.CustomerRoom(input.OrderID), input.Name, input.Payload)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Event published"})
	}
}
