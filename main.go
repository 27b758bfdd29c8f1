package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/yashrajoria/storefront-service/cache"
	apperrors "github.com/yashrajoria/storefront-service/common/errors"
	"github.com/yashrajoria/storefront-service/common/logger"
	"github.com/yashrajoria/storefront-service/config"
	"github.com/yashrajoria/storefront-service/controllers"
	"github.com/yashrajoria/storefront-service/database"
	"github.com/yashrajoria/storefront-service/events"
	"github.com/yashrajoria/storefront-service/middleware"
	aws_pkg "github.com/yashrajoria/storefront-service/pkg/aws"
	"github.com/yashrajoria/storefront-service/repository"
	"github.com/yashrajoria/storefront-service/routes"
	"github.com/yashrajoria/storefront-service/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "storefront-service"

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env, nil)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- AWS setup (only when something needs it) ---
	var awsCfg *sdkaws.Config
	if cfg.UseSecrets || cfg.CloudWatchEnabled || cfg.OrderSNSTopicARN != "" {
		loaded, err := aws_pkg.LoadAWSConfig(ctx)
		if err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
		awsCfg = &loaded
	}

	if cfg.CloudWatchEnabled {
		cw, err := aws_pkg.NewCloudWatchLogsClient(ctx, *awsCfg, cfg.CloudWatchGroup, serviceName)
		if err != nil {
			log.Warn("CloudWatch Logs unavailable, logging to console only", zap.Error(err))
		} else if teed, err := logger.New(cfg.Env, cw); err == nil {
			log = teed
		}
	}
	defer func() { _ = log.Sync() }()

	if cfg.UseSecrets {
		if err := cfg.ApplySecrets(ctx, aws_pkg.NewSecretsClient(*awsCfg)); err != nil {
			log.Fatal("Failed to load database credentials from Secrets Manager", zap.Error(err))
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// --- Database ---
	db, err := database.ConnectPostgres(cfg.DSN(), log)
	if err != nil {
		log.Fatal("Could not connect to PostgreSQL", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}
	store := repository.NewGormStore(db)

	// --- Redis (optional) ---
	var (
		redisClient  *redis.Client
		productCache services.ProductCache
		idempotency  services.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("Redis unavailable, running without cache and idempotency", zap.Error(err))
		} else {
			productCache = cache.NewProductCache(redisClient, cfg.CacheTTL, log)
			idempotency = cache.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		}
	} else {
		log.Warn("REDIS_URL not set, running without cache and idempotency")
	}

	// --- Order events (optional) ---
	var (
		kafkaProducer *events.KafkaProducer
		producer      events.MessageProducer
		snsPublisher  aws_pkg.SNSPublisher
		publisher     services.EventPublisher
	)
	if len(cfg.KafkaBrokers) > 0 {
		kafkaProducer = events.NewKafkaProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, log)
		producer = kafkaProducer
	}
	if cfg.OrderSNSTopicARN != "" {
		snsPublisher = aws_pkg.NewSNSClient(*awsCfg)
	}
	if producer != nil || snsPublisher != nil {
		publisher = events.NewOrderPublisher(producer, snsPublisher, cfg.OrderSNSTopicARN, log)
	} else {
		log.Warn("No Kafka brokers or SNS topic configured, order events are disabled")
	}

	// --- CloudWatch metrics (optional) ---
	var metricsClient *aws_pkg.MetricsClient
	if cfg.CloudWatchEnabled {
		metricsClient = aws_pkg.NewMetricsClient(*awsCfg, cfg.MetricsNamespace, true)
	}

	// --- Dependency injection ---
	catalogService := services.NewCatalogService(store, productCache, metricsClient, log)
	cartService := services.NewCartService(store, metricsClient, log)
	checkoutService := services.NewCheckoutService(store, idempotency, productCache, publisher, metricsClient, log)
	orderService := services.NewOrderService(repository.NewGormOrderRepository(db), log)
	wishlistService := services.NewWishlistService(store, log)
	adminService := services.NewAdminService(store, productCache, log)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	rateLimiter := middleware.NewRateLimiter(middleware.PerMinute(cfg.RateLimit), cfg.RateLimitBurst, 5*time.Minute)
	defer rateLimiter.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(metricsClient, serviceName))
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(rateLimiter.Middleware())
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, routes.Controllers{
		Catalog:  controllers.NewCatalogController(catalogService),
		Cart:     controllers.NewCartController(cartService),
		Checkout: controllers.NewCheckoutController(checkoutService),
		Orders:   controllers.NewOrderController(orderService),
		Wishlist: controllers.NewWishlistController(wishlistService),
		Admin:    controllers.NewAdminController(adminService),
	}, middleware.AuthMiddleware(middleware.AuthConfig{
		LoginURL:  cfg.LoginURL,
		JWTSecret: cfg.JWTSecret,
	}))

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Storefront service started", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Error("Server error", zap.Error(err))
	}

	// --- Release resources ---
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			log.Error("Kafka producer close error", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("Storefront service stopped gracefully")
}
