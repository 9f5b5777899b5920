package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/halildurmus/hotdeals-backend/config"
	"github.com/halildurmus/hotdeals-backend/internal/app/controller"
	"github.com/halildurmus/hotdeals-backend/internal/app/repository"
	"github.com/halildurmus/hotdeals-backend/internal/app/service"
	"github.com/halildurmus/hotdeals-backend/internal/db"
	"github.com/halildurmus/hotdeals-backend/internal/middleware"
	"github.com/halildurmus/hotdeals-backend/internal/router"
	"github.com/halildurmus/hotdeals-backend/internal/scheduler"
	"github.com/halildurmus/hotdeals-backend/pkg/logger"
	"github.com/halildurmus/hotdeals-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting hotdeals backend server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis is optional; view counting falls back to the database without it
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, view counters use the database", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	userRepo := repository.NewUserRepository(db.GetDB())
	dealRepo := repository.NewDealRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo)
	storeService := service.NewStoreService(storeRepo)
	userService := service.NewUserService(userRepo)
	dealService := service.NewDealService(dealRepo, userRepo, storeRepo, commentRepo, categoryService, cfg.Deal.LockTimeout)
	commentService := service.NewCommentService(commentRepo, dealRepo, userRepo)

	// Initialize controllers
	categoryController := controller.NewCategoryController(categoryService)
	storeController := controller.NewStoreController(storeService, dealService)
	userController := controller.NewUserController(userService, dealService, commentService)
	dealController := controller.NewDealController(dealService)
	commentController := controller.NewCommentController(commentService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the maintenance scheduler
	dealScheduler := scheduler.NewDealScheduler(dealRepo, cfg)
	if err := dealScheduler.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", err)
	}
	defer dealScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		categoryController,
		storeController,
		userController,
		dealController,
		commentController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
