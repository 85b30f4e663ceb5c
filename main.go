// File: huduma/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"huduma/config"
	"huduma/cron"
	"huduma/database"
	bookingRepo "huduma/database/repository/booking"
	userRepo "huduma/database/repository/user"
	"huduma/handlers"
	"huduma/middleware"
	"huduma/routes"
	"huduma/services/availability"
	"huduma/services/gateway"
	"huduma/services/notification"
	"huduma/services/quoteflow"
	"huduma/services/tasks"
	"huduma/services/wallet"
	"huduma/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	users := userRepo.NewMongoUserRepo()

	// services.
	notificationService, err := notification.NewDefaultNotificationService(users)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	flowService := &quoteflow.DefaultQuoteFlowService{
		Store:        quoteflow.NewRedisFlowStore(utils.GetFlowCacheClient()),
		Bookings:     bookings,
		Availability: availability.NewClient(),
		Wallet:       wallet.NewClient(utils.GetFlowCacheClient()),
		Gateway:      gateway.NewClient(),
		Notifier:     notificationService,
		Reminders:    tasks.NewScheduler(),
		Logger:       logger,
	}

	quoteFlowHandler := handlers.NewQuoteFlowHandler(flowService, logger)

	// Background worker for segment due-date reminders.
	cron.InitReminderWorker(notificationService)

	// Register routes.
	routes.RegisterRoutes(router, quoteFlowHandler)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetFlowCacheClient(), utils.GetAuthCacheClient()},
		database.MongoClient,
	)

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
