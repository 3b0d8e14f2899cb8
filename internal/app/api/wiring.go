package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogmemory "github.com/Apurer/store-admin-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/store-admin-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/store-admin-api/internal/domains/catalog/ports"
	ordersrediscache "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/cache/redis"
	catalogbridge "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/catalog"
	orderskafka "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/events/kafka"
	"github.com/Apurer/store-admin-api/internal/domains/orders/adapters/external/fake"
	ordersstripe "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/external/stripe"
	ordersmemory "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/store-admin-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	"github.com/Apurer/store-admin-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/store-admin-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/store-admin-api/internal/platform/postgres"
)

// Dependencies is the orders service with every adapter the configuration enabled.
type Dependencies struct {
	Service ordersports.Service
	cleanup []func()
}

// Close releases connections in reverse order of acquisition.
func (d *Dependencies) Close() {
	for i := len(d.cleanup) - 1; i >= 0; i-- {
		d.cleanup[i]()
	}
}

// BuildOrders wires repositories, cache, events and the payment provider. Missing infrastructure falls back to memory.
func BuildOrders(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) *Dependencies {
	logger := effectiveLogger(instruments)
	deps := &Dependencies{}

	db, closeDB := platformpostgres.Open(ctx, cfg.PostgresDSN, logger, postgresOptions(cfg)...)
	deps.cleanup = append(deps.cleanup, closeDB)
	if db == nil {
		logger.Warn("falling back to in-memory repositories")
	} else {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to in-memory repositories", slog.String("error", err.Error()))
			db = nil
		}
	}

	repo, states, products, stores := buildRepositories(db)
	if rdb := buildRedis(ctx, cfg, logger); rdb != nil {
		deps.cleanup = append(deps.cleanup, func() { _ = rdb.Close() })
		states = ordersrediscache.NewStateCache(states, rdb,
			ordersrediscache.WithTTL(cfg.OrderStatesCacheTTL),
			ordersrediscache.WithLogger(logger),
		)
		logger.Info("order states cached in redis", slog.String("addr", cfg.RedisAddr))
	}

	opts := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := orderskafka.NewPublisher(orderskafka.NewWriter(cfg.KafkaBrokers, logger), cfg.OrderEventsTopic)
		deps.cleanup = append(deps.cleanup, func() { _ = publisher.Close() })
		opts = append(opts, ordersapp.WithEventPublisher(publisher))
		logger.Info("order events published to kafka", slog.String("topic", cfg.OrderEventsTopic))
	}

	core := ordersapp.NewService(
		repo,
		states,
		catalogbridge.NewReader(products),
		catalogbridge.NewStoreDirectory(stores),
		buildPayments(cfg, logger),
		ordersapp.Config{
			Currency:                   cfg.CheckoutCurrency,
			InitialStateID:             cfg.InitialOrderStateID,
			StorefrontURL:              cfg.StorefrontURL,
			RequireDeleteAuthorization: cfg.DeleteRequireAuth,
		},
		opts...,
	)
	deps.Service = ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return deps
}

func buildRepositories(db *gorm.DB) (ordersports.Repository, ordersports.StateRepository, catalogports.Repository, catalogports.StoreRepository) {
	if db == nil {
		return ordersmemory.NewRepository(),
			ordersmemory.NewStateRepository(ordersdomain.DefaultStates()...),
			catalogmemory.NewRepository(),
			catalogmemory.NewStoreRepository()
	}
	return orderspostgres.NewRepository(db),
		orderspostgres.NewStateRepository(db),
		catalogpostgres.NewRepository(db),
		catalogpostgres.NewStoreRepository(db)
}

func buildRedis(ctx context.Context, cfg Config, logger *slog.Logger) *goredis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, order states served from the repository", slog.String("error", err.Error()))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

func buildPayments(cfg Config, logger *slog.Logger) ordersports.PaymentSessionProvider {
	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, using the fake payment provider")
		return fake.NewProvider()
	}
	return ordersstripe.NewProvider(cfg.StripeSecretKey, ordersstripe.WithLogger(logger))
}

// ConnectTemporal dials the cluster with tracing and the process logger.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer("temporal-client"),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}

func postgresOptions(cfg Config) []platformpostgres.Option {
	opts := []platformpostgres.Option{
		platformpostgres.WithPool(cfg.PostgresMaxConns, cfg.PostgresMaxConns/2, 30*time.Minute),
	}
	if strings.EqualFold(cfg.LogLevel, "debug") {
		opts = append(opts, platformpostgres.WithQueryLogging(gormlogger.Info))
	}
	return opts
}
