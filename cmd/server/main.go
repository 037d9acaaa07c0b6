package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/threadline-shop/threadline-backend/config"
	"github.com/threadline-shop/threadline-backend/internal/app/controller"
	"github.com/threadline-shop/threadline-backend/internal/app/repository"
	"github.com/threadline-shop/threadline-backend/internal/app/service"
	"github.com/threadline-shop/threadline-backend/internal/db"
	"github.com/threadline-shop/threadline-backend/internal/middleware"
	"github.com/threadline-shop/threadline-backend/internal/router"
	"github.com/threadline-shop/threadline-backend/internal/scheduler"
	"github.com/threadline-shop/threadline-backend/internal/storage"
	"github.com/threadline-shop/threadline-backend/pkg/kv"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
	"github.com/threadline-shop/threadline-backend/pkg/mailer"
	appredis "github.com/threadline-shop/threadline-backend/pkg/redis"
)

// redisTokenStore adapts the package-level Redis blacklist to the auth
// middleware's TokenStore.
type redisTokenStore struct{}

func (redisTokenStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return appredis.IsTokenBlacklisted(ctx, token)
}

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

	logger.Info("Starting Threadline Backend Server", map[string]interface{}{
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

	// Run migrations and seed the starter catalog
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs guest carts and the logout token blacklist. Without it
	// guest carts live in process memory and logout skips revocation.
	var guestStore kv.Store
	var tokenStore middleware.TokenStore
	var revokeToken controller.TokenRevoker
	if err := appredis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory guest carts", map[string]interface{}{
			"error": err.Error(),
		})
		guestStore = kv.NewMemoryStore()
	} else {
		defer func() {
			if err := appredis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
		guestStore = kv.NewRedisStore(appredis.GetClient())
		tokenStore = redisTokenStore{}
		revokeToken = appredis.BlacklistToken
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	guestCartRepo := repository.NewGuestCartRepository(guestStore, cfg.Cart.GuestCartTTL)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	guestCartService := service.NewGuestCartService(guestCartRepo, productRepo, cartService)

	receiptDispatcher := service.NewReceiptDispatcher(
		orderRepo,
		mailer.NewSMTPMailer(&cfg.SMTP),
	)
	orderService := service.NewOrderService(orderRepo, cartRepo, productRepo, receiptDispatcher)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret, revokeToken)
	productController := controller.NewProductController(productService)
	cartController := controller.NewCartController(cartService, guestCartService)
	guestCartController := controller.NewGuestCartController(guestCartService)
	orderController := controller.NewOrderController(orderService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, tokenStore)

	// Stale user carts are swept on a cron schedule
	cartCleanup := scheduler.NewCartCleanupScheduler(
		cartRepo,
		cfg.Cart.CleanupSchedule,
		cfg.Cart.StaleCartAge,
	)
	if err := cartCleanup.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		guestCartController,
		orderController,
		uploadController,
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
