package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/sales/internal/health"
	"github.com/vladislavdragonenkov/sales/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/sales/internal/service/customers"
	"github.com/vladislavdragonenkov/sales/internal/service/idempotency"
	"github.com/vladislavdragonenkov/sales/internal/service/orders"
	"github.com/vladislavdragonenkov/sales/internal/service/outbox"
	"github.com/vladislavdragonenkov/sales/internal/service/products"
	"github.com/vladislavdragonenkov/sales/internal/service/rest"
	"github.com/vladislavdragonenkov/sales/internal/version"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	IdempotencyCleanupInterval  time.Duration
	IdempotencyCleanupBatchSize int
}

// DefaultConfig возвращает базовые настройки: in-memory хранилище,
// REST API на :8080 и метрики на :9090.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",

		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,

		OutboxPollInterval: time.Second,
		OutboxBatchSize:    100,
		OutboxMaxAttempts:  3,
		OutboxRetryDelay:   50 * time.Millisecond,

		IdempotencyCleanupInterval:  10 * time.Minute,
		IdempotencyCleanupBatchSize: 500,
	}
}

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if store != nil {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}
	}()

	// Kafka опционален: без brokers outbox-события остаются в таблице.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	defer closeKafka(kafkaProducer, logger)

	serviceLogger := logger.WithField("layer", "service")
	createCustomer := customers.NewCreateService(deps.Customers, deps.Outbox, serviceLogger)
	createProduct := products.NewCreateService(deps.Products, deps.Outbox, serviceLogger)
	createOrder := orders.NewCreateService(deps.Customers, deps.Products, deps.Orders, deps.Outbox, serviceLogger)
	queryOrder := orders.NewQueryService(deps.Orders, serviceLogger)

	httpLogger := logger.WithField("layer", "http")
	handler := rest.NewHandler(createCustomer, createProduct, createOrder, queryOrder, deps.Customers, deps.Products, httpLogger)
	idemMiddleware := rest.NewIdempotencyMiddleware(deps.Idempotency, httpLogger)
	router := rest.NewRouter(handler, idemMiddleware)

	if kafkaProducer != nil {
		outboxWorker := outbox.NewWorker(
			deps.Outbox,
			kafka.NewOutboxPublisher(kafkaProducer),
			outbox.WithLogger(logger.WithField("layer", "outbox")),
			outbox.WithDLQPublisher(kafka.NewDLQPublisher(kafkaProducer)),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
		go outboxWorker.Run(ctx)
	}

	cleanupWorker := idempotency.NewCleanupWorker(
		deps.Idempotency,
		idempotency.WithLogger(logger.WithField("layer", "idempotency")),
		idempotency.WithInterval(cfg.IdempotencyCleanupInterval),
		idempotency.WithBatchSize(cfg.IdempotencyCleanupBatchSize),
	)
	go cleanupWorker.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.String())
	if store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewSimpleChecker("postgres", func() error {
			return store.Ping(context.Background())
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
