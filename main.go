package main

import (
	"log"
	"net/http"

	"stream-insights/internal/api"
	"stream-insights/internal/config"
	"stream-insights/internal/database"
	"stream-insights/internal/store"
	"stream-insights/internal/twitch"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	db, err := database.Initialize(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	st := store.New(db)

	// Live status and VOD refresh need platform credentials; the rest of
	// the dashboard works from stored samples without them.
	var tw *twitch.Client
	if cfg.HasTwitchCredentials() {
		tw, err = twitch.NewClient(cfg.TwitchClientID, cfg.TwitchClientSecret)
		if err != nil {
			log.Fatal("Failed to create twitch client:", err)
		}
	} else {
		log.Println("TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET not set; live status and VOD refresh disabled")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, st, tw)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
