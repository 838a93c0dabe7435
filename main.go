package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yaman786/sangeet-restaurant-website-sub001/config"
	"github.com/yaman786/sangeet-restaurant-website-sub001/models"
	"github.com/yaman786/sangeet-restaurant-website-sub001/realtime"
	"github.com/yaman786/sangeet-restaurant-website-sub001/routes"
	"github.com/yaman786/sangeet-restaurant-website-sub001/session"
)

func main() {
	log.Println("✅ Starting sync gateway...")

	cfg := config.Load()

	// Init DB
	db := initDatabase(cfg.DatabaseURL)

	// Auto-migrate session storage
	if err := db.AutoMigrate(&models.SessionRecord{}); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	repo := session.NewRepository(session.NewGormStore(db))
	hub := realtime.NewHub()

	// Gin setup
	r := gin.Default()

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, repo, hub)

	// Start server
	log.Printf("🚀 Gateway running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	return db
}
