package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shabasam/bookaspot-main/internal/booking"
	"github.com/shabasam/bookaspot-main/internal/database"
	"github.com/shabasam/bookaspot-main/internal/handlers"
	"github.com/shabasam/bookaspot-main/internal/middleware"
	"github.com/shabasam/bookaspot-main/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Initialize Redis (optional - availability reads fall back to the DB)
	var cache booking.Cache
	redisClient, err := services.NewRedisClient()
	if err != nil {
		log.Printf("Redis initialization warning: %v", err)
	} else {
		cache = services.NewCache(redisClient)
	}

	// Initialize Storage (S3 or local fallback)
	storage, err := services.NewStorage()
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	// Booking core
	directory := booking.NewDirectory(db)
	bookingSvc := booking.NewService(db, directory, cache)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored venue photos
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		api.GET("/venues/search", handlers.SearchVenues(db))
		api.GET("/venues/:id", handlers.GetVenue(db))
		api.GET("/venues/:id/availability", handlers.GetAvailability(bookingSvc))

		if os.Getenv("DEV_TOKENS") == "true" {
			api.POST("/auth/dev-token", handlers.DevToken())
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Venue directory routes
			venues := protected.Group("/venues")
			{
				venues.POST("", handlers.CreateVenue(db))
				venues.GET("", handlers.GetMyVenues(db))
				venues.PUT("/:id", handlers.UpdateVenue(db))
				venues.GET("/:id/pending-count", handlers.GetPendingCount(bookingSvc))
				venues.POST("/:id/photos", handlers.UploadVenuePhoto(db, storage))
				venues.DELETE("/:id/photos/:photoId", handlers.DeleteVenuePhoto(db, storage))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(bookingSvc, hub))
				bookings.POST("/block", handlers.BlockDate(bookingSvc, hub))
				bookings.GET("", handlers.ListBookings(bookingSvc))
				bookings.GET("/:id", handlers.GetBooking(bookingSvc))
				bookings.PATCH("/:id/status", handlers.UpdateBookingStatus(bookingSvc, hub))
				bookings.DELETE("/:id", handlers.DeleteBooking(bookingSvc, hub))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
