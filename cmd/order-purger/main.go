package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	appapi "github.com/Apurer/store-admin-api/internal/app/api"
	orderspostgres "github.com/Apurer/store-admin-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/Apurer/store-admin-api/internal/domains/orders/application"
	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	platformobservability "github.com/Apurer/store-admin-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/store-admin-api/internal/platform/postgres"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
)

// openDB is replaced in tests.
var openDB = platformpostgres.Open

// order-purger deletes unpaid orders left in the initial state, such as those whose payment session was never created.
func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout))
}

// run returns the process exit code so deferred cleanup always executes.
func run(ctx context.Context, args []string, out io.Writer) int {
	flags := flag.NewFlagSet("order-purger", flag.ContinueOnError)
	flags.SetOutput(out)
	dryRun := flags.Bool("dry-run", false, "list stale orders without deleting them")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	bootLogger := platformobservability.NewLogger(out, "info")
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		bootLogger.Warn("failed to load .env", slog.String("error", err.Error()))
	}
	cfg, err := appapi.LoadConfig()
	if err != nil {
		bootLogger.Error("invalid configuration", slog.String("error", err.Error()))
		return exitFailure
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	logger := platformobservability.NewLogger(out, cfg.LogLevel)
	db, cleanup := openDB(ctx, cfg.PostgresDSN, logger, platformpostgres.WithPool(2, 1, 0))
	defer cleanup()
	if db == nil {
		logger.Error("POSTGRES_DSN not set or connection failed; cannot purge orders")
		return exitFailure
	}

	// Only the order repository is touched; the collaborators needed for checkout stay nil.
	service := ordersapp.NewService(
		orderspostgres.NewRepository(db),
		orderspostgres.NewStateRepository(db),
		nil, nil, nil,
		ordersapp.Config{InitialStateID: cfg.InitialOrderStateID, Currency: cfg.CheckoutCurrency},
		ordersapp.WithLogger(logger),
	)
	result, err := service.PurgeStaleOrders(ctx, orderstypes.PurgeInput{
		OlderThan: cfg.StaleOrderMaxAge,
		Limit:     cfg.StaleOrderPurgeLimit,
		DryRun:    *dryRun || cfg.StaleOrderPurgeDryRun,
	})
	if err != nil {
		logger.Error("failed to purge orders", slog.String("error", err.Error()))
		return exitFailure
	}
	logger.Info("order purge completed",
		slog.Int("matched", result.Matched),
		slog.Int("deleted", result.Deleted),
		slog.Duration("older_than", cfg.StaleOrderMaxAge),
	)
	return exitOK
}
