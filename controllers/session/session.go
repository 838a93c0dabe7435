package sessionControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/session"
)

// tableCode pulls the session key from the query string.
func tableCode(c *gin.Context) (string, bool) {
	code := c.Query("table_code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table_code is required"})
		return "", false
	}
	return code, true
}

// GET /session
func GetSession(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		sess, err := repo.Get(code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// PUT /session/cart
func SetCart(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		var cart []models.CartEntry
		if err := c.ShouldBindJSON(&cart); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := repo.SetCart(code, cart); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart saved"})
	}
}

// POST /session/cart/items
func AddCartItem(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		var entry models.CartEntry
		if err := c.ShouldBindJSON(&entry); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if entry.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
			return
		}
		if err := repo.AddToCart(code, entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item"})
			return
		}
		sess, err := repo.Get(code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		c.JSON(http.StatusOK, sess.Cart)
	}
}

type customerInput struct {
	Name string `json:"name" binding:"required"`
}

// PUT /session/customer
func SetCustomer(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		var input customerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := repo.SetCustomer(code, input.Name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save customer name"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer name saved"})
	}
}

type instructionsInput struct {
	Text string `json:"text"`
}

// PUT /session/instructions
func SetInstructions(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		var input instructionsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if err := repo.SetInstructions(code, input.Text); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save instructions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Instructions saved"})
	}
}

// DELETE /session
func ClearSession(repo *session.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, ok := tableCode(c)
		if !ok {
			return
		}
		if err := repo.Clear(code); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Session cleared"})
	}
}
