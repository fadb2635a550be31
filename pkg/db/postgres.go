// Initialization of the Postgres connection pool used by the game state store.

package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackpalacios/jackstatz/pkg/log"
)

// Opens a pgx backed database/sql pool and pings it once.
// An empty dsn means no database was configured.
func NewPostgresConnection(ctx context.Context, logger log.Logger, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("no DATABASE_URL configured")
	}
	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(5)
	pool.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	logger.WithCtx(ctx).Info().Msg("Checking Postgres Connection . . .")
	if err := pool.PingContext(pingCtx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	logger.WithCtx(ctx).Info().Msg("Connection to Postgres Successful")
	return pool, nil
}
