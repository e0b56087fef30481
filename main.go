package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/apperrors"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/controllers"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/database"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/events"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/logger"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/middleware"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	aws_pkg "github.com/Jaypatel0924/Sweet-Shop-Management-System/pkg/aws"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/repository"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/routes"
	"github.com/Jaypatel0924/Sweet-Shop-Management-System/services"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const serviceName = "sweet-shop"

func main() {
	log := logger.Initialize(getEnv("APP_ENV", "development"))
	defer log.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal("Config load failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Stores ---
	db, err := database.ConnectPostgres(cfg.Postgres)
	if err != nil {
		log.Fatal("Could not connect to PostgreSQL", zap.Error(err))
	}
	defer database.ClosePostgres(db)
	if err := models.Migrate(db); err != nil {
		log.Fatal("Migration failed", zap.Error(err))
	}

	mongoDB, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Close()

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	var awsCfg sdkaws.Config
	if needsAWS(cfg) {
		if awsCfg, err = aws_pkg.LoadAWSConfig(ctx); err != nil {
			log.Fatal("Failed to load AWS config", zap.Error(err))
		}
	}

	if cfg.LogGroup != "" {
		cwWriter, err := aws_pkg.NewCloudWatchLogsWriter(ctx, awsCfg, cfg.LogGroup, serviceName)
		if err != nil {
			log.Warn("CloudWatch logs init failed (non-fatal)", zap.Error(err))
		} else {
			flushCtx, stopFlush := context.WithCancel(context.Background())
			go cwWriter.Run(flushCtx, 5*time.Second)
			defer func() {
				stopFlush()
				_ = cwWriter.Sync()
			}()
			log = logger.Tee(cwWriter, zap.InfoLevel)
		}
	}

	var sweetRepo repository.SweetRepository
	switch cfg.SweetStore {
	case SweetStoreDynamoDB:
		sweetRepo = repository.NewDynamoSweetRepository(database.NewDynamoClient(awsCfg), cfg.DynamoSweetsTable)
	default:
		mongoSweets := repository.NewMongoSweetRepository(mongoDB.DB)
		if err := mongoSweets.EnsureIndexes(ctx); err != nil {
			log.Warn("Failed to create sweet indexes", zap.Error(err))
		}
		sweetRepo = mongoSweets
	}

	orderRepo := repository.NewMongoOrderRepository(mongoDB.DB)
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Warn("Failed to create order indexes", zap.Error(err))
	}
	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewRedisCartRepository(redisClient, cfg.CartTTL)

	// --- Integrations ---
	metricsClient := aws_pkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.MetricsEnabled)

	var gateway services.PaymentGateway
	if cfg.StripeSecretKey != "" {
		gateway = services.NewStripeGateway(cfg.StripeSecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, using local payment intents")
		gateway = services.LocalPaymentGateway{}
	}

	var publisher events.Publisher
	switch cfg.EventBus {
	case EventBusSNS:
		publisher = aws_pkg.NewSNSClient(awsCfg)
	case EventBusSQS:
		publisher = aws_pkg.NewSQSClient(awsCfg)
	case EventBusAMQP:
		amqpPub, err := events.DialAMQP(cfg.AMQPURL)
		if err != nil {
			log.Fatal("Could not connect to RabbitMQ", zap.Error(err))
		}
		defer amqpPub.Close()
		publisher = amqpPub
	case EventBusKafka:
		kafkaPub := events.NewKafkaPublisher(cfg.KafkaBrokers)
		defer kafkaPub.Close()
		publisher = kafkaPub
	}
	orderEvents := events.NewOrderEvents(publisher, cfg.OrderEventsTopic, log)

	var presigner services.ObjectPresigner
	if cfg.ImageBucket != "" {
		presigner = aws_pkg.NewS3Presigner(awsCfg, cfg.ImageBucket)
	}

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(userRepo, tokenService, log)
	sweetService := services.NewSweetService(sweetRepo, metricsClient, log)
	orderService := services.NewOrderService(orderRepo, gateway, orderEvents, metricsClient, services.OrderServiceConfig{
		Currency:      cfg.Currency,
		SigningSecret: cfg.PaymentSigningSecret,
	}, log)
	cartService := services.NewCartService(cartRepo, log)
	imageService := services.NewImageService(sweetRepo, presigner, services.ImageServiceConfig{
		PublicBaseURL: cfg.ImagePublicBaseURL,
		Expiry:        cfg.ImageURLExpiry,
	}, log)

	if cfg.SeedData {
		seeder := services.NewSeeder(userRepo, sweetRepo, services.SeedConfig{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			DemoUsers:     !cfg.IsProduction(),
		}, log)
		if err := seeder.Run(ctx); err != nil {
			log.Error("Seeding failed", zap.Error(err))
		}
	}

	// --- HTTP router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		apperrors.Recovery(),
		middleware.RequestID(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Metrics(metricsClient, serviceName),
		middleware.RequestLogger(log),
		middleware.Timeout(cfg.RequestTimeout),
	)

	authLimiter := middleware.NewRateLimiter(rate.Limit(float64(cfg.AuthRatePerMin)/60), cfg.AuthRateBurst, 10*time.Minute)
	defer authLimiter.Stop()

	routes.RegisterRoutes(r, routes.Handlers{
		Auth:   controllers.NewAuthController(authService),
		Sweets: controllers.NewSweetController(sweetService, imageService),
		Orders: controllers.NewOrderController(orderService),
		Cart:   controllers.NewCartController(cartService),
	}, tokenService, authLimiter)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		log.Info("Sweet Shop API starting", zap.String("port", cfg.Port), zap.String("sweet_store", cfg.SweetStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down Sweet Shop API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Sweet Shop API stopped gracefully")
}

// needsAWS reports whether any enabled integration talks to AWS.
func needsAWS(cfg *Config) bool {
	return cfg.SweetStore == SweetStoreDynamoDB ||
		cfg.EventBus == EventBusSNS ||
		cfg.EventBus == EventBusSQS ||
		cfg.MetricsEnabled ||
		cfg.LogGroup != "" ||
		cfg.ImageBucket != ""
}
