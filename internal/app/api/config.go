package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API, worker and purger processes.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	PostgresDSN         string
	PostgresMaxConns    int
	RedisAddr           string
	OrderStatesCacheTTL time.Duration
	KafkaBrokers        []string
	OrderEventsTopic    string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	StripeSecretKey     string
	StorefrontURL       string
	CheckoutCurrency    string
	InitialOrderStateID string

	JWTSecret             string
	DeleteRequireAuth     bool
	CORSAllowOrigins      []string
	OTLPEndpoint          string
	OTLPInsecure          bool
	StaleOrderMaxAge      time.Duration
	StaleOrderPurgeLimit  int
	StaleOrderPurgeDryRun bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                  envDefault("PORT", "8080"),
		Environment:           envDefault("ENVIRONMENT", "local"),
		LogLevel:              envDefault("LOG_LEVEL", "info"),
		PostgresDSN:           strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:             strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:      envDefault("ORDER_EVENTS_TOPIC", "orders.events"),
		TemporalAddress:       envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:     envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:      isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		StripeSecretKey:       strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
		StorefrontURL:         envDefault("FRONTEND_STORE_URL", "http://localhost:3001"),
		CheckoutCurrency:      strings.ToUpper(envDefault("CHECKOUT_CURRENCY", "USD")),
		InitialOrderStateID:   envDefault("INITIAL_ORDER_STATE_ID", "1"),
		JWTSecret:             strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")),
		DeleteRequireAuth:     isTruthy(os.Getenv("ORDERS_DELETE_REQUIRE_AUTH")),
		CORSAllowOrigins:      splitList(os.Getenv("CORS_ALLOW_ORIGINS")),
		OTLPEndpoint:          strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:          strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")) != "0",
		StaleOrderPurgeDryRun: isTruthy(os.Getenv("STALE_ORDER_PURGE_DRY_RUN")),
	}
	if len(cfg.CheckoutCurrency) != 3 {
		return Config{}, fmt.Errorf("CHECKOUT_CURRENCY must be a three-letter ISO code")
	}

	ttlMinutes, err := positiveInt("ORDER_STATES_CACHE_TTL_MINUTES", 10)
	if err != nil {
		return Config{}, err
	}
	cfg.OrderStatesCacheTTL = time.Duration(ttlMinutes) * time.Minute

	if cfg.PostgresMaxConns, err = positiveInt("POSTGRES_MAX_OPEN_CONNS", 10); err != nil {
		return Config{}, err
	}

	maxAgeHours, err := positiveInt("STALE_ORDER_MAX_AGE_HOURS", 24)
	if err != nil {
		return Config{}, err
	}
	cfg.StaleOrderMaxAge = time.Duration(maxAgeHours) * time.Hour

	if cfg.StaleOrderPurgeLimit, err = positiveInt("STALE_ORDER_PURGE_LIMIT", 100); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
