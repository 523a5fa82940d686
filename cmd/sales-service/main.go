package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/app"
)

// Переменные окружения, которыми переопределяется конфигурация.
const (
	envHTTPAddr                    = "SALES_HTTP_ADDR"
	envMetricsAddr                 = "SALES_METRICS_ADDR"
	envStorageDriver               = "SALES_STORAGE_DRIVER"
	envPostgresDSN                 = "SALES_POSTGRES_DSN"
	envPostgresAutoMigrate         = "SALES_POSTGRES_AUTO_MIGRATE"
	envKafkaBrokers                = "KAFKA_BROKERS"
	envOutboxPollInterval          = "SALES_OUTBOX_POLL_INTERVAL"
	envOutboxBatchSize             = "SALES_OUTBOX_BATCH_SIZE"
	envOutboxMaxAttempts           = "SALES_OUTBOX_MAX_ATTEMPTS"
	envOutboxRetryDelay            = "SALES_OUTBOX_RETRY_DELAY"
	envIdempotencyCleanupInterval  = "SALES_IDEMPOTENCY_CLEANUP_INTERVAL"
	envIdempotencyCleanupBatchSize = "SALES_IDEMPOTENCY_CLEANUP_BATCH_SIZE"
)

// envLookup абстрагирует os.LookupEnv, чтобы конфигурацию можно было тестировать.
type envLookup func(key string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfigFromEnv формирует конфигурацию приложения из переменных окружения.
// Невалидные значения не прерывают запуск: остаётся значение по умолчанию,
// а проблема возвращается в warnings.
func readConfigFromEnv(lookup envLookup) (app.Config, []string) {
	cfg := app.DefaultConfig()
	var warnings []string

	if v, ok := lookup(envHTTPAddr); ok && strings.TrimSpace(v) != "" {
		cfg.HTTPAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envMetricsAddr); ok && strings.TrimSpace(v) != "" {
		cfg.MetricsAddr = strings.TrimSpace(v)
	}
	if v, ok := lookup(envStorageDriver); ok && strings.TrimSpace(v) != "" {
		cfg.StorageDriver = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(envPostgresDSN); ok && strings.TrimSpace(v) != "" {
		cfg.PostgresDSN = strings.TrimSpace(v)
	}
	if v, ok := lookup(envPostgresAutoMigrate); ok {
		if parsed, err := parseBool(v); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envPostgresAutoMigrate, err))
		} else {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v, ok := lookup(envKafkaBrokers); ok {
		cfg.KafkaBrokers = strings.TrimSpace(v)
	}
	if v, ok := lookup(envOutboxPollInterval); ok {
		if parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxPollInterval, err))
		} else {
			cfg.OutboxPollInterval = parsed
		}
	}
	if v, ok := lookup(envOutboxBatchSize); ok {
		if parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxBatchSize, err))
		} else {
			cfg.OutboxBatchSize = parsed
		}
	}
	if v, ok := lookup(envOutboxMaxAttempts); ok {
		if parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxMaxAttempts, err))
		} else {
			cfg.OutboxMaxAttempts = parsed
		}
	}
	if v, ok := lookup(envOutboxRetryDelay); ok {
		if parsed, err := parseDuration(v, func(d time.Duration) bool { return d >= 0 }, "must be >= 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envOutboxRetryDelay, err))
		} else {
			cfg.OutboxRetryDelay = parsed
		}
	}
	if v, ok := lookup(envIdempotencyCleanupInterval); ok {
		if parsed, err := parseDuration(v, func(d time.Duration) bool { return d > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envIdempotencyCleanupInterval, err))
		} else {
			cfg.IdempotencyCleanupInterval = parsed
		}
	}
	if v, ok := lookup(envIdempotencyCleanupBatchSize); ok {
		if parsed, err := parseInt(v, func(n int) bool { return n > 0 }, "must be > 0"); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", envIdempotencyCleanupBatchSize, err))
		} else {
			cfg.IdempotencyCleanupBatchSize = parsed
		}
	}

	return cfg, warnings
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", value)
	}
}

func parseInt(value string, valid func(int) bool, constraint string) (int, error) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid int value %q", value)
	}
	if !valid(parsed) {
		return 0, fmt.Errorf("value %d %s", parsed, constraint)
	}
	return parsed, nil
}

func parseDuration(value string, valid func(time.Duration) bool, constraint string) (time.Duration, error) {
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid duration value %q", value)
	}
	if !valid(parsed) {
		return 0, fmt.Errorf("value %s %s", parsed, constraint)
	}
	return parsed, nil
}

func main() {
	setupLogger()

	cfg, warnings := readConfigFromEnv(os.LookupEnv)
	for _, warning := range warnings {
		log.Warnf("конфигурация: %s", warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"storage":      cfg.StorageDriver,
	}).Info("запускаем SalesService")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("SalesService остановлен")
}
