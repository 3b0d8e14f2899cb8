package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "CHECKOUT_CURRENCY", "INITIAL_ORDER_STATE_ID", "KAFKA_BROKERS", "CORS_ALLOW_ORIGINS", "ORDERS_DELETE_REQUIRE_AUTH", "ORDER_STATES_CACHE_TTL_MINUTES", "STALE_ORDER_MAX_AGE_HOURS", "STALE_ORDER_PURGE_LIMIT", "POSTGRES_MAX_OPEN_CONNS"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "USD", cfg.CheckoutCurrency)
	require.Equal(t, "1", cfg.InitialOrderStateID)
	require.Empty(t, cfg.KafkaBrokers)
	require.False(t, cfg.DeleteRequireAuth)
	require.Equal(t, 10*time.Minute, cfg.OrderStatesCacheTTL)
	require.Equal(t, 24*time.Hour, cfg.StaleOrderMaxAge)
	require.Equal(t, 100, cfg.StaleOrderPurgeLimit)
	require.Equal(t, 10, cfg.PostgresMaxConns)
}

func TestLoadConfig_ParsesListsAndFlags(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example")
	t.Setenv("ORDERS_DELETE_REQUIRE_AUTH", "true")
	t.Setenv("CHECKOUT_CURRENCY", "eur")
	t.Setenv("STALE_ORDER_MAX_AGE_HOURS", "6")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, []string{"https://shop.example"}, cfg.CORSAllowOrigins)
	require.True(t, cfg.DeleteRequireAuth)
	require.Equal(t, "EUR", cfg.CheckoutCurrency)
	require.Equal(t, 6*time.Hour, cfg.StaleOrderMaxAge)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	t.Setenv("STALE_ORDER_MAX_AGE_HOURS", "-1")
	_, err := LoadConfig()
	require.ErrorContains(t, err, "STALE_ORDER_MAX_AGE_HOURS")

	t.Setenv("STALE_ORDER_MAX_AGE_HOURS", "")
	t.Setenv("CHECKOUT_CURRENCY", "dollars")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "CHECKOUT_CURRENCY")
}
