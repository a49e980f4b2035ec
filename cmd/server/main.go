package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"guidely/internal/config"
	"guidely/internal/handlers"
	"guidely/internal/middleware"
	"guidely/internal/repositories/mongodb"
	"guidely/internal/services"
	"guidely/pkg/cache"
	"guidely/pkg/database"
	"guidely/pkg/logger"
	"guidely/pkg/mailer"
	"guidely/pkg/payment"
	"guidely/pkg/sms"
	"guidely/pkg/storage"
	"guidely/pkg/websocket"
	"guidely/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Mongo
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(indexCtx); err != nil {
		appLogger.Fatalf("Failed to ensure indexes: %v", err)
	}

	// Redis
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisCache.Close()

	// Payment gateway
	gateway := buildGateway(cfg, appLogger)

	// Outbound providers
	mailSender := mailer.NewMailer(cfg.SMTP)
	smsProvider := buildSMSProvider(cfg)
	storageProvider := buildStorageProvider(cfg, appLogger)

	// Websocket hub
	wsHandler := websocket.NewHandler()

	// Repositories
	accountRepo := mongodb.NewAccountRepository(db.Database)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	packageRepo := mongodb.NewPackageRepository(db.Database)
	enrollmentRepo := mongodb.NewEnrollmentRepository(db.Database)
	transactionRepo := mongodb.NewTransactionRepository(db.Database)
	blogRepo := mongodb.NewBlogRepository(db.Database)
	leadRepo := mongodb.NewLeadRepository(db.Database)

	// Services
	notificationService := services.NewNotificationService(mailSender, smsProvider, cfg.App.Name, cfg.App.FrontendURL, appLogger)
	authService := services.NewAuthService(accountRepo, redisCache, notificationService, cfg.Security, cfg.App.FrontendURL, appLogger)
	bookingService := services.NewBookingService(bookingRepo, packageRepo, accountRepo, notificationService, wsHandler, cfg.Payment.Currency, appLogger)
	paymentService := services.NewPaymentService(gateway, transactionRepo, bookingRepo, notificationService, wsHandler, cfg.App.FrontendURL, cfg.Payment.Currency, appLogger)
	packageService := services.NewPackageService(packageRepo, appLogger)
	enrollmentService := services.NewEnrollmentService(enrollmentRepo, paymentService, authService, notificationService, storageProvider, cfg.App.FrontendURL, appLogger)
	contentService := services.NewContentService(blogRepo, leadRepo, appLogger)

	// Enrollment fee settlement loops back from payments.
	paymentService.SetEnrollmentSettler(enrollmentService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Security)
	packageHandler := handlers.NewPackageHandler(packageService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	contentHandler := handlers.NewContentHandler(contentService)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))

	v1 := router.Group("/api/v1")
	{
		routes.SetupAuthRoutes(v1, authHandler, cfg.Security)
		routes.SetupPackageRoutes(v1, packageHandler, cfg.Security)
		routes.SetupBookingRoutes(v1, bookingHandler, cfg.Security)
		routes.SetupPaymentRoutes(v1, paymentHandler, cfg.Security)
		routes.SetupEnrollmentRoutes(v1, enrollmentHandler, cfg.Security)
		routes.SetupContentRoutes(v1, contentHandler, cfg.Security)
	}

	router.GET("/ws", middleware.AuthRequired(cfg.Security), wsHandler.HandleWebSocket)

	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.Local.BasePath)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		appLogger.Fatalf("Server stopped: %v", err)
	}
}

func buildGateway(cfg *config.Config, appLogger *logger.Logger) payment.Gateway {
	switch cfg.Payment.DefaultProvider {
	case "stripe":
		appLogger.Info("Using Stripe payment gateway")
		return payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret)
	default:
		appLogger.Info("Using Razorpay payment gateway")
		return payment.NewRazorpayProvider(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
		)
	}
}

func buildSMSProvider(cfg *config.Config) sms.Provider {
	if !cfg.SMS.Enabled {
		return sms.NoopProvider{}
	}
	return sms.NewTwilioProvider(
		cfg.SMS.Twilio.AccountSID,
		cfg.SMS.Twilio.AuthToken,
		cfg.SMS.Twilio.FromNumber,
	)
}

func buildStorageProvider(cfg *config.Config, appLogger *logger.Logger) storage.Provider {
	if cfg.Storage.Provider == "s3" {
		provider, err := storage.NewAWSS3Storage(cfg.Storage.AWS.Region, cfg.Storage.AWS.Bucket, cfg.Storage.AWS.CDNDomain)
		if err != nil {
			appLogger.Fatalf("Failed to initialize S3 storage: %v", err)
		}
		return provider
	}

	provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
	if err != nil {
		appLogger.Fatalf("Failed to initialize local storage: %v", err)
	}
	return provider
}
