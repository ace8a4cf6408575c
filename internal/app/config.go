package app

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envPrefix = "RESTAURANT"

// Config описывает настройки запуска сервиса.
type Config struct {
	ServiceName string
	HTTPAddr    string
	MetricsAddr string
	GRPCAddr    string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	KafkaBrokers  []string
	KafkaClientID string
	KafkaTopic    string
	KafkaDLQTopic string

	NotifyPollInterval  time.Duration
	NotifyBatchSize     int
	NotifyMaxAttempts   int
	NotifyRetryDelay    time.Duration
	NotifyMaxRetryDelay time.Duration
	NotifyMaxPending    int
	NotifyMaxAge        time.Duration

	PaymentDeclineRate     float64
	PaymentBreakerFailures int
	PaymentBreakerReset    time.Duration
	PaymentRefundAttempts  int

	DefaultStockLevel int64
	SeedMenu          bool

	JaegerEndpoint  string
	ShutdownTimeout time.Duration
}

// DefaultConfig возвращает настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "restaurant-service",
		HTTPAddr:           ":8080",
		MetricsAddr:        ":9090",
		GRPCAddr:           ":50051",
		LogLevel:           "info",
		LogFormat:          "text",
		CORSOrigins:        []string{"*"},
		KafkaClientID:      "restaurant-service",
		KafkaTopic:         "restaurant.notifications",
		KafkaDLQTopic:      "restaurant.notifications.dlq",

		NotifyPollInterval:  time.Second,
		NotifyBatchSize:     100,
		NotifyMaxAttempts:   3,
		NotifyRetryDelay:    50 * time.Millisecond,
		NotifyMaxRetryDelay: 30 * time.Second,
		NotifyMaxPending:    1000,
		NotifyMaxAge:        5 * time.Minute,

		PaymentDeclineRate:     0.1,
		PaymentBreakerFailures: 5,
		PaymentBreakerReset:    30 * time.Second,
		PaymentRefundAttempts:  3,

		DefaultStockLevel: 100,
		SeedMenu:          true,
		ShutdownTimeout:   5 * time.Second,
	}
}

// LoadConfig читает RESTAURANT_* переменные окружения поверх значений по умолчанию.
// Файлы envFiles загружаются через godotenv и не перекрывают уже заданные переменные;
// отсутствующий файл не считается ошибкой.
func LoadConfig(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	def := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service.name", def.ServiceName)
	v.SetDefault("http.addr", def.HTTPAddr)
	v.SetDefault("metrics.addr", def.MetricsAddr)
	v.SetDefault("grpc.addr", def.GRPCAddr)
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)
	v.SetDefault("cors.origins", strings.Join(def.CORSOrigins, ","))
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.client_id", def.KafkaClientID)
	v.SetDefault("kafka.topic", def.KafkaTopic)
	v.SetDefault("kafka.dlq_topic", def.KafkaDLQTopic)
	v.SetDefault("notify.poll_interval", def.NotifyPollInterval)
	v.SetDefault("notify.batch_size", def.NotifyBatchSize)
	v.SetDefault("notify.max_attempts", def.NotifyMaxAttempts)
	v.SetDefault("notify.retry_delay", def.NotifyRetryDelay)
	v.SetDefault("notify.max_retry_delay", def.NotifyMaxRetryDelay)
	v.SetDefault("notify.max_pending", def.NotifyMaxPending)
	v.SetDefault("notify.max_age", def.NotifyMaxAge)
	v.SetDefault("payment.decline_rate", def.PaymentDeclineRate)
	v.SetDefault("payment.breaker_failures", def.PaymentBreakerFailures)
	v.SetDefault("payment.breaker_reset", def.PaymentBreakerReset)
	v.SetDefault("payment.refund_attempts", def.PaymentRefundAttempts)
	v.SetDefault("stock.default_level", def.DefaultStockLevel)
	v.SetDefault("seed.menu", def.SeedMenu)
	v.SetDefault("jaeger.endpoint", "")
	v.SetDefault("shutdown.timeout", def.ShutdownTimeout)

	cfg := Config{
		ServiceName:        v.GetString("service.name"),
		HTTPAddr:           v.GetString("http.addr"),
		MetricsAddr:        v.GetString("metrics.addr"),
		GRPCAddr:           v.GetString("grpc.addr"),
		LogLevel:           strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
		LogFormat:          strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		CORSOrigins:        splitList(v.GetString("cors.origins")),
		KafkaBrokers:       splitList(v.GetString("kafka.brokers")),
		KafkaClientID:      v.GetString("kafka.client_id"),
		KafkaTopic:         v.GetString("kafka.topic"),
		KafkaDLQTopic:      v.GetString("kafka.dlq_topic"),

		NotifyPollInterval:  v.GetDuration("notify.poll_interval"),
		NotifyBatchSize:     v.GetInt("notify.batch_size"),
		NotifyMaxAttempts:   v.GetInt("notify.max_attempts"),
		NotifyRetryDelay:    v.GetDuration("notify.retry_delay"),
		NotifyMaxRetryDelay: v.GetDuration("notify.max_retry_delay"),
		NotifyMaxPending:    v.GetInt("notify.max_pending"),
		NotifyMaxAge:        v.GetDuration("notify.max_age"),

		PaymentDeclineRate:     v.GetFloat64("payment.decline_rate"),
		PaymentBreakerFailures: v.GetInt("payment.breaker_failures"),
		PaymentBreakerReset:    v.GetDuration("payment.breaker_reset"),
		PaymentRefundAttempts:  v.GetInt("payment.refund_attempts"),

		DefaultStockLevel: v.GetInt64("stock.default_level"),
		SeedMenu:          v.GetBool("seed.menu"),
		JaegerEndpoint:    strings.TrimSpace(v.GetString("jaeger.endpoint")),
		ShutdownTimeout:   v.GetDuration("shutdown.timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" || c.MetricsAddr == "" || c.GRPCAddr == "" {
		errs = append(errs, errors.New("http, metrics and grpc addresses are required"))
	}
	if c.LogLevel != "" {
		if _, err := log.ParseLevel(c.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unsupported log format %q", c.LogFormat))
	}
	if c.PaymentDeclineRate < 0 || c.PaymentDeclineRate > 1 {
		errs = append(errs, fmt.Errorf("payment decline rate %v is outside [0, 1]", c.PaymentDeclineRate))
	}
	if c.PaymentBreakerFailures <= 0 || c.PaymentRefundAttempts <= 0 {
		errs = append(errs, errors.New("payment breaker failures and refund attempts must be positive"))
	}
	if c.DefaultStockLevel < 0 {
		errs = append(errs, fmt.Errorf("default stock level %d is negative", c.DefaultStockLevel))
	}
	if c.NotifyBatchSize <= 0 || c.NotifyMaxAttempts <= 0 {
		errs = append(errs, errors.New("notification batch size and max attempts must be positive"))
	}
	if c.NotifyPollInterval <= 0 {
		errs = append(errs, errors.New("notification poll interval must be positive"))
	}
	if c.NotifyRetryDelay < 0 || c.NotifyMaxRetryDelay < c.NotifyRetryDelay {
		errs = append(errs, errors.New("notification retry delay must be non-negative and not exceed max retry delay"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if len(c.KafkaBrokers) > 0 && (c.KafkaTopic == "" || c.KafkaDLQTopic == "") {
		errs = append(errs, errors.New("kafka topics are required when brokers are set"))
	}
	return errors.Join(errs...)
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
