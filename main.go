// File: stayhaven/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhaven/config"
	"stayhaven/cron"
	"stayhaven/database"
	bookingRepo "stayhaven/database/repository/booking"
	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/handlers"
	"stayhaven/middleware"
	"stayhaven/routes"
	ai "stayhaven/services/assistant"
	"stayhaven/services/booking"
	"stayhaven/services/property"
	"stayhaven/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// repositories.
	propRepo := propertyRepo.NewMongoPropertyRepo()
	bkRepo := bookingRepo.NewMongoBookingRepo()
	if err := propRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure property indexes: %v", err)
	}
	if err := bkRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// services.
	propertyService := &property.DefaultPropertyService{
		Repo: propRepo,
	}
	bookingService := &booking.DefaultBookingService{
		PropertyRepo: propRepo,
		BookingRepo:  bkRepo,
	}

	registry := ai.NewToolRegistry(bookingService, propertyService, time.Now)
	model, err := ai.NewGeminiModel(config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel, registry)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize gemini model: %v", err)
	}
	assistantService := ai.NewDefaultAssistantService(model, registry)

	propertyHandler := handlers.NewPropertyHandler(propertyService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterPropertyRoutes(router, propertyHandler)
	routes.RegisterBookingRoutes(router, bookingHandler)
	routes.RegisterAssistantRoutes(router, assistantHandler)
	routes.RegisterHealthRoute(router)

	utils.StartHealthMonitor([]*redis.Client{utils.GetCacheClient(), utils.GetAuthCacheClient()}, database.MongoClient)
	cron.InitCompletionWorker(bkRepo)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
