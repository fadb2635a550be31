// sse repository keeps the ids of the viewers connected to each process in a Redis set per instance.
// Only diagnostics read it, the registry itself never depends on it.

package sse

import (
	"context"

	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/pkg/db"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

const presencePrefix = "jackstatz:sse_clients:"

// PresenceKey is the Redis set holding the viewer ids of one instance.
func PresenceKey(instance string) string {
	return presencePrefix + instance
}

type Repository interface {
	// AddClient records an incoming (SSE) viewer id.
	AddClient(ctx context.Context, logger log.Logger, id string) error
	// RemoveClient removes a disconnected viewer id.
	RemoveClient(ctx context.Context, logger log.Logger, id string) error
	// CountClients returns how many viewer ids are recorded across every instance, enabled is false without a Redis connection.
	CountClients(ctx context.Context, logger log.Logger) (count int64, enabled bool, err error)
	// Clear removes the ids recorded by this instance, used at startup since ids of a dead process never get removed.
	Clear(ctx context.Context, logger log.Logger) error
}

// repository struct of sse Repository.
// Object of this will be passed around from main to internal.
// Helps to access the repository layer interface and call methods.
type repository struct {
	db  *db.RedisDB
	key string
}

// Returns a new instance of sse repository for other packages to access its interface.
// instance names this process, restarts of the same instance reuse its set.
// Without a Redis connection every call is a no-op.
func NewRepository(dbwrp *db.RedisDB, instance string) Repository {
	if dbwrp == nil {
		return noopRepository{}
	}
	return repository{db: dbwrp, key: PresenceKey(instance)}
}

// Returns nil if the viewer got successfully added into the DB.
func (r repository) AddClient(ctx context.Context, logger log.Logger, id string) error {
	if dberr := r.db.Client().SAdd(ctx, r.key, id).Err(); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of SAdd in sse.AddClient")
		return errors.InternalServerError("")
	}
	return nil
}

// Returns nil if the viewer got successfully removed from the DB.
func (r repository) RemoveClient(ctx context.Context, logger log.Logger, id string) error {
	if dberr := r.db.Client().SRem(ctx, r.key, id).Err(); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of SRem in sse.RemoveClient")
		return errors.InternalServerError("")
	}
	return nil
}

func (r repository) CountClients(ctx context.Context, logger log.Logger) (int64, bool, error) {
	var total int64
	iter := r.db.Client().Scan(ctx, 0, presencePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count, dberr := r.db.Client().SCard(ctx, iter.Val()).Result()
		if dberr != nil {
			logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of SCard in sse.CountClients")
			return 0, true, errors.InternalServerError("")
		}
		total += count
	}
	if dberr := iter.Err(); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of Scan in sse.CountClients")
		return 0, true, errors.InternalServerError("")
	}
	return total, true, nil
}

func (r repository) Clear(ctx context.Context, logger log.Logger) error {
	if dberr := r.db.Client().Del(ctx, r.key).Err(); dberr != nil {
		logger.WithCtx(ctx).Error().Err(dberr).Msg("Error occured during execution of Del in sse.Clear")
		return errors.InternalServerError("")
	}
	return nil
}

type noopRepository struct{}

func (noopRepository) AddClient(context.Context, log.Logger, string) error    { return nil }
func (noopRepository) RemoveClient(context.Context, log.Logger, string) error { return nil }
func (noopRepository) Clear(context.Context, log.Logger) error                { return nil }
func (noopRepository) CountClients(context.Context, log.Logger) (int64, bool, error) {
	return 0, false, nil
}
