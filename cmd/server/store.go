package main

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen11/todo-service/internal/adapters/store/cosmosstore"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/redisstore"
	"github.com/jsamuelsen11/todo-service/internal/adapters/store/resilient"
	"github.com/jsamuelsen11/todo-service/internal/platform/config"
	"github.com/jsamuelsen11/todo-service/internal/platform/telemetry"
)

// openStore builds the repository selected by cfg.Driver and wraps it with
// the circuit breaker, rate limiter and instrumentation. The returned close
// function releases the engine connection and is never nil.
func openStore(cfg *config.StoreConfig, metrics *telemetry.Metrics, logger *slog.Logger) (*resilient.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		return resilient.New(memory.New(cfg.PageSize), cfg.Driver, cfg, metrics, logger), noop, nil

	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		st := redisstore.New(rdb, cfg.Redis.KeyPrefix, cfg.PageSize)
		return resilient.New(st, cfg.Driver, cfg, metrics, logger), st.Close, nil

	case config.DriverCosmos:
		st, err := cosmosstore.New(cosmosstore.Config{
			ConnectionString: cfg.Cosmos.ConnectionString,
			Database:         cfg.Cosmos.Database,
			Container:        cfg.Cosmos.Container,
			PageSize:         cfg.PageSize,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening cosmos store: %w", err)
		}
		return resilient.New(st, cfg.Driver, cfg, metrics, logger), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
