package routes

import (
	"github.com/gin-gonic/gin"

	eventControllers "github.com/yaman786/sangeet-restaurant-website-sub001/controllers/events"
	sessionControllers "github.com/yaman786/sangeet-restaurant-website-sub001/controllers/session"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
	"github.com/yaman786/sangeet-restaurant-website-sub001/session"
)

// SetupRoutes wires the realtime hub and the session endpoints.
func SetupRoutes(r *gin.Engine, repo *session.Repository, hub *realtime.Hub) {
	// websocket endpoint for real-time order updates
	r.GET("/ws", hub.Handler())

	// order service posts committed mutations here for fan-out
	r.POST("/internal/events", eventControllers.Publish(hub))

	sessions := r.Group("/session")
	{
		sessions.GET("", sessionControllers.GetSession(repo))
		sessions.PUT("/cart", sessionControllers.SetCart(repo))
		sessions.POST("/cart/items", sessionControllers.AddCartItem(repo))
		sessions.PUT("/customer", sessionControllers.SetCustomer(repo))
		sessions.PUT("/instructions", sessionControllers.SetInstructions(repo))
		sessions.DELETE("", sessionControllers.ClearSession(repo))
	}
}
