package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().HTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DefaultConfig().NotifyPollInterval, cfg.NotifyPollInterval)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.InDelta(t, 0.1, cfg.PaymentDeclineRate, 1e-9)
	assert.Equal(t, int64(100), cfg.DefaultStockLevel)
	assert.True(t, cfg.SeedMenu)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("RESTAURANT_HTTP_ADDR", "127.0.0.1:18080")
	t.Setenv("RESTAURANT_LOG_LEVEL", " DEBUG ")
	t.Setenv("RESTAURANT_LOG_FORMAT", "json")
	t.Setenv("RESTAURANT_CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("RESTAURANT_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("RESTAURANT_NOTIFY_POLL_INTERVAL", "250ms")
	t.Setenv("RESTAURANT_NOTIFY_BATCH_SIZE", "7")
	t.Setenv("RESTAURANT_PAYMENT_DECLINE_RATE", "0")
	t.Setenv("RESTAURANT_STOCK_DEFAULT_LEVEL", "5")
	t.Setenv("RESTAURANT_SEED_MENU", "false")
	t.Setenv("RESTAURANT_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:18080", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 250*time.Millisecond, cfg.NotifyPollInterval)
	assert.Equal(t, 7, cfg.NotifyBatchSize)
	assert.Zero(t, cfg.PaymentDeclineRate)
	assert.Equal(t, int64(5), cfg.DefaultStockLevel)
	assert.False(t, cfg.SeedMenu)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RESTAURANT_METRICS_ADDR=127.0.0.1:19090\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("RESTAURANT_METRICS_ADDR") })

	cfg, err := LoadConfig(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:19090", cfg.MetricsAddr)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"RESTAURANT_PAYMENT_DECLINE_RATE":   "1.5",
		"RESTAURANT_LOG_FORMAT":             "xml",
		"RESTAURANT_LOG_LEVEL":              "loud",
		"RESTAURANT_NOTIFY_BATCH_SIZE":      "0",
		"RESTAURANT_NOTIFY_MAX_RETRY_DELAY": "1ms",
		"RESTAURANT_STOCK_DEFAULT_LEVEL":    "-1",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestConfig_ValidateKafkaTopics(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KafkaBrokers = []string{"localhost:9092"}
	require.NoError(t, cfg.Validate())

	cfg.KafkaDLQTopic = ""
	require.Error(t, cfg.Validate())
}
