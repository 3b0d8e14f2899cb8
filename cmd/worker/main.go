package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"

	appapi "github.com/Apurer/store-admin-api/internal/app/api"
	platformobservability "github.com/Apurer/store-admin-api/internal/platform/observability"
	checkoutactivities "github.com/Apurer/store-admin-api/internal/platform/temporal/activities/checkout"
	checkoutworkflows "github.com/Apurer/store-admin-api/internal/platform/temporal/workflows/checkout"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := appapi.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Options{
		ServiceName:  "store-admin-worker",
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	deps := appapi.BuildOrders(ctx, cfg, instruments)
	defer deps.Close()
	acts := checkoutactivities.NewActivities(deps.Service)

	temporalClient, err := appapi.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflows.CheckoutTaskQueue, worker.Options{})
	checkoutworkflows.Register(w)
	w.RegisterActivityWithOptions(acts.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})
	w.RegisterActivityWithOptions(acts.StartPayment, activity.RegisterOptions{Name: checkoutactivities.StartPaymentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflows.CheckoutTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
