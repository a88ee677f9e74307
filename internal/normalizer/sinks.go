package normalizer

import (
	"context"
	"fmt"

	"llamaworker/internal/config"
	"llamaworker/internal/logger"
	"llamaworker/internal/storage"
	"llamaworker/internal/storage/postgres"
)

// OpenSinks returns the downstream sinks enabled in cfg, in addition to the JSON files.
// The returned close function releases them and is never nil.
func OpenSinks(ctx context.Context, cfg *config.Config, log *logger.Logger) ([]storage.RecordSink, func(), error) {
	if !cfg.Storage.Postgres.Enabled {
		return nil, func() {}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.Storage.Postgres.DSN)
	if err != nil {
		return nil, func() {}, fmt.Errorf("open postgres sink: %w", err)
	}

	log.Info("postgres sink enabled")

	return []storage.RecordSink{postgres.NewRecordStore(pool)}, pool.Close, nil
}
