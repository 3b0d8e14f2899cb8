package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storeserver "github.com/Apurer/store-admin-api/go"
	ordersworkflows "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/workflows"
	ordersports "github.com/Apurer/store-admin-api/internal/domains/orders/ports"
	"github.com/Apurer/store-admin-api/internal/platform/auth"
	platformmetrics "github.com/Apurer/store-admin-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/store-admin-api/internal/platform/observability"
)

const serviceName = "store-admin-api"

// Run boots the store admin HTTP API with observability, repositories and workflows wired.
// It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	deps := BuildOrders(ctx, cfg, instruments)
	defer deps.Close()

	var checkoutWorkflows ordersports.CheckoutWorkflows = ordersworkflows.NewInlineCheckoutWorkflows(deps.Service)
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running checkout inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		checkoutWorkflows = ordersworkflows.NewTemporalCheckoutWorkflows(
			temporalClient,
			ordersworkflows.WithFallback(checkoutWorkflows),
			ordersworkflows.WithLogger(logger),
		)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret)
	if err != nil {
		logger.Warn("AUTH_JWT_SECRET not set, every request is anonymous and order updates answer 401")
	}

	serverMetrics := platformmetrics.NewServerMetrics("api", nil)
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		cors.New(storeserver.CORSConfig(cfg.CORSAllowOrigins)),
		serverMetrics.Middleware(),
		auth.Middleware(verifier),
	)
	engine.GET("/metrics", gin.WrapH(serverMetrics.Handler()))
	router := storeserver.NewRouterWithGinEngine(engine, storeserver.ApiHandleFunctions{
		CheckoutAPI:    storeserver.NewCheckoutAPI(deps.Service, checkoutWorkflows, logger),
		OrdersAPI:      storeserver.NewOrdersAPI(deps.Service, logger),
		OrderStatesAPI: storeserver.NewOrderStatesAPI(deps.Service, logger),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("store admin API listening", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("store admin API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down store admin API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
