package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"wanderplan/config"
	"wanderplan/handlers"
	"wanderplan/services"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	cfg := config.Load()

	// Initialize provider clients with injected credentials
	services.InitSearch(cfg)
	services.InitFlights(cfg)
	services.InitResolver()
	services.InitLLM(cfg)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Routes
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler)
		api.POST("/plan", handlers.PlanHandler)
		api.POST("/flights", handlers.FlightsHandler)
		api.POST("/hotels", handlers.HotelsHandler)
		api.POST("/activities/prices", handlers.ActivityPricesHandler)
		api.POST("/itinerary/pdf", handlers.ItineraryPDFHandler)
	}

	log.Printf("WanderPlan backend starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
