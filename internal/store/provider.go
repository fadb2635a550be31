package store

import (
	"context"

	"github.com/jackpalacios/jackstatz/pkg/db"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Options struct {
	Backend     string
	DatabaseURL string
}

// Open picks the store at startup.
// The memory backend is only used when asked for. Otherwise Postgres is tried and,
// when it can't be reached or migrated, the read-only defaults are served for the rest of the process.
// A Postgres store that goes away later falls back to the defaults per call, see NewFallback.
func Open(ctx context.Context, logger log.Logger, opts Options) (Store, error) {
	defaults, err := LoadDefaults()
	if err != nil {
		return nil, err
	}
	if opts.Backend == BackendMemory {
		logger.WithCtx(ctx).Info().Msg("Serving game state from memory")
		return NewMemory(defaults), nil
	}

	pool, err := db.NewPostgresConnection(ctx, logger, opts.DatabaseURL)
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Msg("Datastore unreachable, serving built-in defaults read-only")
		return NewStatic(defaults), nil
	}
	pg, err := NewPostgres(ctx, pool, defaults, logger)
	if err != nil {
		_ = pool.Close()
		logger.WithCtx(ctx).Warn().Err(err).Msg("Datastore couldn't be prepared, serving built-in defaults read-only")
		return NewStatic(defaults), nil
	}
	return NewFallback(pg, defaults, logger), nil
}
