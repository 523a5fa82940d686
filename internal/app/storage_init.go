package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/sales/internal/storage/postgres"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// initStorage собирает зависимости для выбранного драйвера хранилища.
// Для postgres возвращает также Store, чтобы приложение могло повесить
// на него health-check и закрыть подключение при остановке.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, *postgres.Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	switch driver {
	case "", StorageDriverMemory:
		logger.Info("используем in-memory хранилище")
		return NewDependencies(logger), nil, nil

	case StorageDriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			return nil, nil, errors.New("postgres storage driver requires a DSN")
		}

		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}

		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, nil, fmt.Errorf("apply migrations: %w", err)
			}
			logger.Info("миграции применены")
		}

		logger.Info("используем postgres хранилище")
		return NewPostgresDependencies(store, logger), store, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
