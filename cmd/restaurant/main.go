package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/restaurant-backend/internal/config"
	"github.com/tair/restaurant-backend/internal/health"
	"github.com/tair/restaurant-backend/internal/inventory"
	inventoryrepo "github.com/tair/restaurant-backend/internal/inventory/repository"
	"github.com/tair/restaurant-backend/internal/menu"
	menurepo "github.com/tair/restaurant-backend/internal/menu/repository"
	"github.com/tair/restaurant-backend/internal/order"
	orderdomain "github.com/tair/restaurant-backend/internal/order/domain"
	orderrepo "github.com/tair/restaurant-backend/internal/order/repository"
	"github.com/tair/restaurant-backend/internal/payment"
	paymentrepo "github.com/tair/restaurant-backend/internal/payment/repository"
	"github.com/tair/restaurant-backend/internal/reservation"
	reservationrepo "github.com/tair/restaurant-backend/internal/reservation/repository"
	reservationcommand "github.com/tair/restaurant-backend/internal/reservation/usecase/command"
	"github.com/tair/restaurant-backend/internal/table"
	tablerepo "github.com/tair/restaurant-backend/internal/table/repository"
	"github.com/tair/restaurant-backend/internal/user"
	userrepo "github.com/tair/restaurant-backend/internal/user/repository"
	usercommand "github.com/tair/restaurant-backend/internal/user/usecase/command"
	"github.com/tair/restaurant-backend/kafka"
	"github.com/tair/restaurant-backend/pkg/auth"
	"github.com/tair/restaurant-backend/pkg/cache"
	"github.com/tair/restaurant-backend/pkg/database"
	"github.com/tair/restaurant-backend/pkg/grpcserver"
	"github.com/tair/restaurant-backend/pkg/httpx"
	"github.com/tair/restaurant-backend/pkg/logger"
	"github.com/tair/restaurant-backend/pkg/ratelimit"
	"github.com/tair/restaurant-backend/pkg/tracing"
)

const (
	metricsNamespace    = "restaurant"
	shutdownTimeout     = 15 * time.Second
	healthProbeTimeout  = 3 * time.Second
	grpcHealthInterval  = 15 * time.Second
	redisConnectTimeout = 3 * time.Second
)

// eventBus is the publisher surface every module needs
type eventBus interface {
	PublishReservationEvent(ctx context.Context, event kafka.ReservationEvent) error
	PublishOrderEvent(ctx context.Context, event kafka.OrderEvent) error
	PublishStockEvent(ctx context.Context, event kafka.StockEvent) error
	Close() error
}

type migrator interface {
	AutoMigrate() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("restaurant-backend", true)
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	logger.Init(cfg.Service.Name, cfg.Service.IsDevelopment())
	logger.SetLevel(cfg.Service.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.Service.Name).
		Str("version", cfg.Service.Version).
		Str("environment", cfg.Service.Environment).
		Str("log_level", cfg.Service.LogLevel).
		Msg("Starting restaurant backend")

	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		SampleRatio:    cfg.Tracing.SampleRatio,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	db, err := database.NewGormConnection(cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	if err := migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	vocabulary := orderdomain.Vocabulary{
		Statuses: cfg.OrderStatus.Statuses,
		Initial:  cfg.OrderStatus.Initial,
		Paid:     cfg.OrderStatus.Paid,
		Kitchen:  cfg.OrderStatus.Kitchen,
	}
	if err := seed(ctx, db, cfg, vocabulary); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to seed reference data")
	}

	redisClient := newRedisClient(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	events := newEventBus(cfg.Kafka)
	defer events.Close()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	metrics := httpx.NewMetrics(metricsNamespace, prometheus.DefaultRegisterer)
	authenticator := httpx.NewAuthenticator(tokens)

	router := mux.NewRouter()
	middlewareConfig := httpx.DefaultMiddlewareConfig(cfg.Service.Name, cfg.Service.RequestTimeout)
	httpx.RegisterMiddlewares(router, middlewareConfig)

	if err := registerModules(router, metrics, authenticator, db, cfg, vocabulary, redisClient, tokens, events); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handlers")
	}

	checker := health.NewChecker(cfg.Service.Name, healthProbeTimeout)
	checker.Register("database", sqlDB.PingContext, true)
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}, false)
	}
	if publisher, ok := events.(*kafka.Publisher); ok {
		checker.Register("kafka", publisher.Ping, false)
	}
	router.HandleFunc("/health", checker.Handler).Methods("GET")
	router.HandleFunc("/health/live", checker.Live).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	if cfg.Kafka.Enabled {
		consumer, err := startConsumer(ctx, db, cfg.Kafka, events)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to start Kafka consumer, paid orders will not consume stock")
		} else {
			defer consumer.Close()
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Service.HTTPPort,
		Handler:           httpx.CORS(middlewareConfig, router),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.Service.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("health_endpoint", "/health").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	grpcServer := grpcserver.New(cfg.Service.Name, sqlDB, grpcserver.NewMetrics(metricsNamespace, prometheus.DefaultRegisterer))
	lis, err := net.Listen("tcp", ":"+cfg.Service.GRPCPort)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", cfg.Service.GRPCPort).Msg("Failed to listen for gRPC")
	}
	go grpcServer.WatchHealth(ctx, grpcHealthInterval)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
	grpcServer.Shutdown(shutdownCtx)
	logger.Logger.Info().Msg("Servers stopped")
}

// migrate creates the schema; referenced tables come first
func migrate(db *gorm.DB) error {
	migrators := []migrator{
		tablerepo.NewGormTableRepository(db),
		userrepo.NewGormUserRepository(db),
		menurepo.NewGormCategoryRepository(db),
		menurepo.NewGormDishRepository(db),
		reservationrepo.NewGormReservationRepository(db),
		orderrepo.NewGormStatusRepository(db),
		orderrepo.NewGormOrderRepository(db),
		inventoryrepo.NewGormIngredientRepository(db),
		paymentrepo.NewGormPaymentRepository(db),
	}
	for _, m := range migrators {
		if err := m.AutoMigrate(); err != nil {
			return err
		}
	}
	return nil
}

// seed installs the order status vocabulary and the first admin account
func seed(ctx context.Context, db *gorm.DB, cfg *config.Config, vocabulary orderdomain.Vocabulary) error {
	statuses, err := order.InitializeStatusHandler(db, vocabulary)
	if err != nil {
		return err
	}
	if err := statuses.Seed(ctx); err != nil {
		return err
	}

	if cfg.Admin.Password == "" {
		logger.Logger.Warn().Msg("ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}
	bootstrap, err := user.InitializeBootstrapAdminHandler(db)
	if err != nil {
		return err
	}
	return bootstrap.Handle(ctx, usercommand.BootstrapAdminCommand{
		Username: cfg.Admin.Username,
		Password: cfg.Admin.Password,
	})
}

// newRedisClient returns nil when Redis is disabled or unreachable; the menu
// cache and login limiter then pass everything through
func newRedisClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if !cfg.Enabled {
		logger.Logger.Info().Msg("Redis disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("addr", cfg.Addr).
			Msg("Redis unavailable, caching and rate limiting disabled")
		client.Close()
		return nil
	}

	logger.Logger.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return client
}

func newEventBus(cfg config.KafkaConfig) eventBus {
	if !cfg.Enabled {
		logger.Logger.Info().Msg("Kafka disabled, events are dropped")
		return kafka.NopPublisher{}
	}
	publisher, err := kafka.NewPublisher(cfg.Brokers)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create Kafka publisher, events are dropped")
		return kafka.NopPublisher{}
	}
	return publisher
}

// startConsumer records production stock movements for paid orders
func startConsumer(ctx context.Context, db *gorm.DB, cfg config.KafkaConfig, events eventBus) (*kafka.Consumer, error) {
	produce, err := inventory.InitializeProduceOrderHandler(db, events)
	if err != nil {
		return nil, err
	}

	consumer, err := kafka.NewConsumer(cfg.Brokers, cfg.GroupID)
	if err != nil {
		return nil, err
	}
	consumer.RegisterHandler(kafka.EventTypeOrderPaid, produce.Handle)
	consumer.Start(ctx)
	return consumer, nil
}

func registerModules(
	router *mux.Router,
	metrics *httpx.Metrics,
	authenticator *httpx.Authenticator,
	db *gorm.DB,
	cfg *config.Config,
	vocabulary orderdomain.Vocabulary,
	redisClient *redis.Client,
	tokens *auth.TokenManager,
	events eventBus,
) error {
	tables := table.ProvideTableRepository(db)
	reservations := reservation.ProvideReservationRepository(db)
	users := user.ProvideUserRepository(db)
	dishes := menu.ProvideDishRepository(db)
	orders := order.ProvideOrderRepository(db)
	statuses := order.ProvideStatusRepository(db)

	tableHandler, err := table.InitializeHTTPHandler(db)
	if err != nil {
		return err
	}
	reservationHandler, err := reservation.InitializeHTTPHandler(db, tables, events, reservationcommand.Settings{
		DefaultDurationMinutes: int(cfg.Reservation.DefaultDuration / time.Minute),
	})
	if err != nil {
		return err
	}
	menuHandler, err := menu.InitializeHTTPHandler(db, cache.NewResponseCache(redisClient, "menu", cfg.Redis.CacheTTL))
	if err != nil {
		return err
	}
	loginLimiter := ratelimit.NewLimiter(redisClient, "login", cfg.Redis.LoginRateLimit, cfg.Redis.LoginRateWindow)
	userHandler, err := user.InitializeHTTPHandler(db, tokens, loginLimiter)
	if err != nil {
		return err
	}
	orderHandler, err := order.InitializeHTTPHandler(db, tables, reservations, users, dishes, events, vocabulary)
	if err != nil {
		return err
	}
	inventoryHandler, err := inventory.InitializeHTTPHandler(db, dishes, orders, events)
	if err != nil {
		return err
	}
	paymentHandler, err := payment.InitializeHTTPHandler(db, orders, statuses, events)
	if err != nil {
		return err
	}

	tableHandler.RegisterRoutes(router, metrics, authenticator)
	reservationHandler.RegisterRoutes(router, metrics, authenticator)
	menuHandler.RegisterRoutes(router, metrics, authenticator)
	userHandler.RegisterRoutes(router, metrics, authenticator)
	orderHandler.RegisterRoutes(router, metrics, authenticator)
	inventoryHandler.RegisterRoutes(router, metrics, authenticator)
	paymentHandler.RegisterRoutes(router, metrics, authenticator)

	logger.Logger.Info().Msg("HTTP routes registered")
	return nil
}
