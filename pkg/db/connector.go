// Initialization of the Redis client used internally in JackStatz.

package db

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jackpalacios/jackstatz/pkg/log"
)

// RedisDB represents a redis client connection to be used internally in JackStatz.
type RedisDB struct {
	client *redis.Client
}

// Connection settings of the redis-server.
type RedisOptions struct {
	Addr     string
	Port     string
	Password string
	DB       int
}

// Client returns the redis client wrapped by RedisDB.
func (db *RedisDB) Client() *redis.Client {
	return db.client
}

// Returns a new Redis DB connection wrapped up by RedisDB struct.
// The connection is lazy, CheckDbConnection tells whether the redis-server is actually reachable.
func NewDbConnection(ctx context.Context, logger log.Logger, opts RedisOptions) (*RedisDB, error) {
	if opts.Addr == "" || opts.Port == "" {
		logger.WithCtx(ctx).Error().Msg("Redis address or port missing")
		return nil, errors.New("improper redis options")
	}
	// Initializing a connection to Redis-server
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr + ":" + opts.Port,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 2 * time.Second,
	})
	return &RedisDB{client: client}, nil
}

// Helper to check connection status of redis client to redis-server.
// Equivalent to a PING request on redis-server, returns PONG on success.
func (db *RedisDB) CheckDbConnection(ctx context.Context, logger log.Logger) error {
	logger.WithCtx(ctx).Info().Msg("Checking Redis Connection . . .")
	// Pinging the Redis-server to check connection status
	if cnterr := db.Client().Ping(ctx).Err(); cnterr != nil {
		// Most likely, DB connection failure
		logger.WithCtx(ctx).Error().Err(cnterr).Msg("Redis client couldn't PING the redis-server.")
		return cnterr
	}
	// Connection successful
	logger.WithCtx(ctx).Info().Msg("Connection to Redis Successful")
	return nil
}

// Helper to clean up test db after finishing JackStatz tests.
func (db *RedisDB) CleanTestDbData(ctx context.Context, logger log.Logger) {
	if db.Client().Options().DB == 1 {
		if dberr := db.Client().FlushDB(ctx).Err(); dberr != nil {
			// Error during flushing test db
			logger.Error().Err(dberr).Msg("Error occured during the execution of FlushDB() in db.CleanTestDbData")
		}
	}
}

// Helper to close the RedisDB client, should be called before closing the server.
func (db *RedisDB) CloseDbConnection(ctx context.Context) error {
	return db.Client().Close()
}
