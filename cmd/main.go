package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"github.com/jonboulle/clockwork"

	"clubops/internal/caching"
	"clubops/internal/handlers"
	"clubops/internal/jobs"
	"clubops/internal/jobs/background"
	"clubops/internal/middleware"
	"clubops/internal/repositories"
	"clubops/internal/services"
	"clubops/pkg/database"
)

const version = "1.0.0"

func main() {
	ctx := context.Background()

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(ctx); err != nil {
		log.Printf("WARNING: failed to ensure receipt bucket exists: %v", err)
	}

	// Create repositories
	memberRepo := repositories.NewMemberRepo(pool)
	planRepo := repositories.NewSubscriptionTypeRepo(pool)
	methodRepo := repositories.NewPaymentMethodRepo(pool)
	subscriptionRepo := repositories.NewSubscriptionRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Wall clock, injected so tests can substitute a fake one
	clock := clockwork.NewRealClock()

	// Create services
	memberSvc := services.NewMemberService(memberRepo, cacheSvc)
	planSvc := services.NewPlanService(planRepo)
	subscriptionSvc := services.NewSubscriptionService(pool, subscriptionRepo, memberRepo, planRepo, methodRepo, cacheSvc, clock)

	// Background jobs
	alertSvc := jobs.NewExpiryAlertService(subscriptionRepo, memberRepo, clock)
	scheduler := background.NewJobScheduler(alertSvc, cacheSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create handlers
	memberHandlers := handlers.NewMemberHandlers(memberSvc)
	planHandlers := handlers.NewPlanHandlers(planSvc)
	methodHandlers := handlers.NewPaymentMethodHandlers(methodRepo)
	subscriptionHandlers := handlers.NewSubscriptionHandlers(subscriptionSvc)
	receiptHandlers := handlers.NewReceiptHandlers(minioSvc)
	dashboardHandlers := handlers.NewDashboardHandlers(cacheSvc, alertSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes (require JWT)
	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))

	// Member routes
	v1.GET("/members", memberHandlers.ListMembers)
	v1.POST("/members", memberHandlers.CreateMember)
	v1.GET("/members/:id", memberHandlers.GetMember)
	v1.PUT("/members/:id", memberHandlers.UpdateMember)
	v1.DELETE("/members/:id", memberHandlers.DeleteMember)
	v1.GET("/members/:id/subscriptions", subscriptionHandlers.ListMemberSubscriptions)

	// Plan routes
	v1.GET("/plans", planHandlers.ListPlans)
	v1.POST("/plans", planHandlers.CreatePlan)
	v1.GET("/plans/:id", planHandlers.GetPlan)
	v1.PUT("/plans/:id", planHandlers.UpdatePlan)
	v1.DELETE("/plans/:id", planHandlers.DeletePlan)

	// Payment method routes
	v1.GET("/payment-methods", methodHandlers.ListPaymentMethods)
	v1.POST("/payment-methods", methodHandlers.CreatePaymentMethod)
	v1.DELETE("/payment-methods/:id", methodHandlers.DeletePaymentMethod)

	// Subscription routes
	v1.GET("/subscriptions", subscriptionHandlers.ListSubscriptions)
	v1.POST("/subscriptions", subscriptionHandlers.CreateSubscription)
	v1.GET("/subscriptions/:id", subscriptionHandlers.GetSubscription)
	v1.POST("/subscriptions/:id/payments", subscriptionHandlers.RecordPayment)
	v1.POST("/subscriptions/:id/freezes", subscriptionHandlers.RequestFreeze)
	v1.DELETE("/subscriptions/:id/freezes/:freezeId", subscriptionHandlers.CancelFreeze)
	v1.POST("/subscriptions/:id/cancel", subscriptionHandlers.CancelSubscription)
	v1.POST("/subscriptions/:id/renew", subscriptionHandlers.RenewSubscription)
	v1.POST("/subscriptions/:id/check-in", subscriptionHandlers.CheckIn)

	// Receipt routes
	v1.POST("/payments/:id/receipt", receiptHandlers.UploadReceipt)
	v1.GET("/payments/:id/receipt", receiptHandlers.GetReceiptURL)

	// Dashboard routes
	v1.GET("/dashboard/status-counts", dashboardHandlers.GetStatusCounts)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Clubops server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
