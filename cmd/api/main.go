package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/internal/auth"
	"storefront-service/internal/cache"
	"storefront-service/internal/clover"
	"storefront-service/internal/config"
	"storefront-service/internal/handlers"
	"storefront-service/internal/inventory"
	"storefront-service/internal/kafka"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting Storefront Service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
	)

	if cfg.CloverConfigured() {
		appLogger.Info("🛒 Clover Configuration",
			zap.String("base_url", cfg.CloverBaseURL),
			zap.String("merchant_id", cfg.CloverMerchantID),
			zap.Int("page_size", cfg.UpstreamPageSize),
			zap.Duration("page_delay", cfg.UpstreamPageDelay),
			zap.Duration("cache_ttl", cfg.CacheTTL),
		)
	} else {
		appLogger.Warn("🛒 Clover credentials missing - serving empty catalog",
			zap.String("note", "Set CLOVER_API_KEY and CLOVER_MERCHANT_ID to enable the upstream"),
		)
	}

	if cfg.UseCache {
		appLogger.Info("💾 Cache Configuration (Optional)",
			zap.String("redis_host", cfg.RedisHost),
			zap.String("redis_port", cfg.RedisPort),
			zap.Bool("enabled", cfg.UseCache),
		)
	} else {
		appLogger.Info("💾 Cache Configuration",
			zap.Bool("enabled", false),
			zap.String("note", "Shared cache is disabled (USE_CACHE=false)"),
		)
	}

	if cfg.UseKafka {
		appLogger.Info("📡 Kafka Configuration (Optional - for snapshot invalidation)",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopicInventory),
			zap.String("group_id", cfg.KafkaGroupID),
		)
	} else {
		appLogger.Info("📡 Kafka Configuration",
			zap.Bool("enabled", false),
			zap.String("note", "Kafka is disabled (USE_KAFKA=false)"),
		)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// CORS middleware (must be first to handle preflight requests)
	router.Use(middleware.CORSMiddleware())

	router.Use(middleware.RecoveryHandler(appLogger))
	router.Use(logger.GinMiddleware(appLogger))

	// Request ID middleware (must be early in the chain)
	router.Use(middleware.RequestIDMiddleware(appLogger))

	// Error handler middleware
	router.Use(middleware.ErrorHandler(appLogger))

	// Initialize Clover client
	cloverClient := clover.NewClient(clover.Options{
		BaseURL:    cfg.CloverBaseURL,
		APIKey:     cfg.CloverAPIKey,
		MerchantID: cfg.CloverMerchantID,
		PageSize:   cfg.UpstreamPageSize,
		PageDelay:  cfg.UpstreamPageDelay,
		Timeout:    cfg.UpstreamTimeout,
	}, appLogger)

	// Initialize shared cache (optional)
	var sharedCache cache.Cache
	if cfg.UseCache {
		appLogger.Info("🔧 Initializing cache (Redis)...")
		sharedCache = cache.New(cache.RedisOptions{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, appLogger)
		appLogger.Info("✅ Cache initialized successfully")
	} else {
		appLogger.Info("⏭️  Skipping cache initialization (USE_CACHE=false)")
	}

	// Initialize snapshot store (optional)
	var snapshotStore *inventory.SnapshotStore
	if cfg.SnapshotPath != "" {
		appLogger.Info("🔧 Initializing snapshot store (SQLite)...", zap.String("path", cfg.SnapshotPath))
		store, err := inventory.NewSnapshotStore(cfg.SnapshotPath)
		if err != nil {
			appLogger.Warn("Failed to initialize snapshot store, continuing without warm start", zap.Error(err))
		} else {
			snapshotStore = store
			defer snapshotStore.Close()
			appLogger.Info("✅ Snapshot store initialized successfully")
		}
	} else {
		appLogger.Info("⏭️  Skipping snapshot store (SNAPSHOT_PATH not set)")
	}

	// Initialize inventory service
	inventoryService := inventory.NewService(appLogger, cloverClient, inventory.Options{
		TTL:        cfg.CacheTTL,
		Configured: cfg.CloverConfigured(),
		Shared:     sharedCache,
		Store:      snapshotStore,
	})

	// Initialize Kafka consumer for snapshot invalidation (optional)
	if cfg.UseKafka {
		appLogger.Info("🔧 Initializing Kafka consumer for snapshot invalidation...")
		kafkaConsumer, err := kafka.NewConsumer(cfg, inventoryService, appLogger)
		if err != nil {
			appLogger.Warn("Failed to initialize Kafka consumer, continuing without invalidation", zap.Error(err))
		} else {
			ctx, cancel := context.WithCancel(context.Background())
			defer func() {
				cancel()
				kafkaConsumer.Close()
			}()
			kafkaConsumer.Start(ctx)
			appLogger.Info("✅ Kafka consumer started for snapshot invalidation")
		}
	}

	// Initialize handlers
	productsHandler := handlers.NewProductsHandler(appLogger, inventoryService)
	sessionVerifier := auth.NewSessionVerifier(cfg.SessionJWTSecret, appLogger)
	sessionHandler := auth.NewSessionHandler(sessionVerifier, appLogger)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", productsHandler.Health)

		api.GET("/products", productsHandler.GetProducts)
		api.GET("/products/bestsellers", productsHandler.GetBestSellers)
		api.GET("/products/newarrivals", productsHandler.GetNewArrivals)
		api.GET("/products/category/:category", productsHandler.GetProductsByCategory)

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/session", sessionHandler.GetSession)
		}
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.Info("🌐 Starting HTTP server", zap.String("address", ":"+cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}
