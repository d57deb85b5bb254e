package main

import (
	"context"  // context package is needed for Redis operations
	"log"      // log package is needed for logging
	"net/http" // Shared HTTP client for video downloads
	"strings"  // Splitting the CORS origin list

	"veno_backend/internal/api"        // Custom package for API handlers
	"veno_backend/internal/config"     // Custom package for configuration
	"veno_backend/internal/generation" // Generation workflow service
	"veno_backend/internal/middleware" // Custom package for middleware
	"veno_backend/internal/provider"   // Upstream video provider client
	"veno_backend/internal/realtime"   // Change notification hub
	"veno_backend/internal/store"      // Persistence layer

	"github.com/gin-contrib/cors"  // CORS for browser clients
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Wire the application services
	st := store.New(db)
	hub := realtime.NewHub()
	videoProvider := provider.New(cfg.ProviderBaseURL, cfg.ProviderTimeout)
	generator := generation.New(st, videoProvider, generation.Config{
		PremiumPrice:   cfg.PremiumPrice,
		DailyFreeLimit: cfg.DailyFreeLimit,
		PollInterval:   cfg.PollInterval,
		MaxAttempts:    cfg.PollMaxAttempt,
	})
	downloadClient := &http.Client{} // No timeout: downloads stream until done

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// CORS for the browser SPA
	corsCfg := cors.DefaultConfig()
	if cfg.CORSOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CORSOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// Auth routes (rate limited per client IP)
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, 10))
	authGroup.POST("/register", api.RegisterHandler(st)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(st, cfg.JWTSecret))

	// Public prompt catalog
	r.GET("/prompts", api.ListPromptsHandler())

	// Authenticated routes
	userGroup := r.Group("/")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.POST("/videos", api.GenerateVideoHandler(generator, redisClient, hub)) // Generation endpoint
	userGroup.GET("/videos", api.ListVideosHandler(st, redisClient))                 // Video history endpoint
	userGroup.GET("/videos/stats", api.VideoStatsHandler(st, redisClient))
	userGroup.GET("/videos/:id/share", api.ShareVideoHandler(st))
	userGroup.GET("/videos/:id/download", api.DownloadVideoHandler(st, downloadClient))
	userGroup.GET("/profile", api.GetProfileHandler(st, redisClient, cfg.DailyFreeLimit))
	userGroup.PATCH("/profile", api.UpdateProfileHandler(st, redisClient, hub))
	userGroup.GET("/wallet", api.GetWalletHandler(st, redisClient)) // Wallet balance endpoint
	userGroup.POST("/wallet/topups", api.CreateTopupHandler(st, redisClient, hub, cfg.MinTopupAmount))
	userGroup.GET("/wallet/topups", api.ListOwnTopupsHandler(st))
	userGroup.GET("/events", api.EventsHandler(hub)) // SSE change notifications

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(st))
	adminGroup.GET("/topups", api.ListTopupsHandler(st, redisClient))
	adminGroup.POST("/topups/:id/approve", api.ApproveTopupHandler(st, redisClient, hub))
	adminGroup.POST("/topups/:id/reject", api.RejectTopupHandler(st, redisClient, hub))
	adminGroup.GET("/videos", api.AdminListVideosHandler(st, redisClient))
	adminGroup.DELETE("/videos/:id", api.AdminDeleteVideoHandler(st, redisClient, hub))

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
