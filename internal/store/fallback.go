package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"sync/atomic"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/pkg/log"
)

// fallback serves the built-in defaults whenever the primary datastore can't be reached.
// Every call goes to the primary first, so the store recovers on its own once the database is back.
type fallback struct {
	primary  Store
	defaults Store
	degraded atomic.Bool
	logger   log.Logger
}

// NewFallback wraps primary so reads fall back to defaults and writes fail with ErrUnavailable
// while the primary is unreachable.
func NewFallback(primary Store, defaults Defaults, logger log.Logger) Store {
	return &fallback{primary: primary, defaults: NewStatic(defaults), logger: logger}
}

// Unreachable reports whether err means the datastore itself couldn't be talked to.
func Unreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connerr *pgconn.ConnectError
	if errors.As(err, &connerr) {
		return true
	}
	var neterr net.Error
	if errors.As(err, &neterr) {
		return true
	}
	// Class 08 is connection exception, 57P covers server shutdown and startup.
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return strings.HasPrefix(pgerr.Code, "08") || strings.HasPrefix(pgerr.Code, "57P")
	}
	return false
}

// Records the outcome of a primary call, true means the defaults must answer instead.
func (f *fallback) failed(ctx context.Context, op string, err error) bool {
	if !Unreachable(err) {
		if f.degraded.CompareAndSwap(true, false) {
			f.logger.WithCtx(ctx).Info().Str("op", op).Msg("Datastore reachable again, writes accepted")
		}
		return false
	}
	if !f.degraded.Swap(true) {
		f.logger.WithCtx(ctx).Warn().Err(err).Str("op", op).Msg("Datastore unreachable, serving built-in defaults read-only")
	}
	return true
}

func (f *fallback) Tier() string    { return f.primary.Tier() }
func (f *fallback) Available() bool { return !f.degraded.Load() }

func (f *fallback) CurrentLiveGame(ctx context.Context) (entity.LiveGame, error) {
	game, err := f.primary.CurrentLiveGame(ctx)
	if f.failed(ctx, "current_live_game", err) {
		return f.defaults.CurrentLiveGame(ctx)
	}
	return game, err
}

func (f *fallback) CreateLiveGame(ctx context.Context) (entity.LiveGame, error) {
	game, err := f.primary.CreateLiveGame(ctx)
	if f.failed(ctx, "create_live_game", err) {
		return entity.LiveGame{}, ErrUnavailable
	}
	return game, err
}

func (f *fallback) LiveGame(ctx context.Context, id int64) (entity.LiveGame, error) {
	game, err := f.primary.LiveGame(ctx, id)
	if f.failed(ctx, "live_game", err) {
		return f.defaults.LiveGame(ctx, id)
	}
	return game, err
}

func (f *fallback) write(ctx context.Context, op string, err error) error {
	if f.failed(ctx, op, err) {
		return ErrUnavailable
	}
	return err
}

func (f *fallback) UpdatePlayerStat(ctx context.Context, id int64, team string, playerIndex int, statType string, value int) error {
	return f.write(ctx, "update_player_stat", f.primary.UpdatePlayerStat(ctx, id, team, playerIndex, statType, value))
}

func (f *fallback) UpdateTeamName(ctx context.Context, id int64, team, name string) error {
	return f.write(ctx, "update_team_name", f.primary.UpdateTeamName(ctx, id, team, name))
}

func (f *fallback) UpdatePlayerName(ctx context.Context, id int64, team string, playerIndex int, name string) error {
	return f.write(ctx, "update_player_name", f.primary.UpdatePlayerName(ctx, id, team, playerIndex, name))
}

func (f *fallback) ListBuddies(ctx context.Context) ([]entity.Buddy, error) {
	buddies, err := f.primary.ListBuddies(ctx)
	if f.failed(ctx, "list_buddies", err) {
		return f.defaults.ListBuddies(ctx)
	}
	return buddies, err
}

func (f *fallback) AddBuddy(ctx context.Context, buddy entity.Buddy) (entity.Buddy, error) {
	saved, err := f.primary.AddBuddy(ctx, buddy)
	if f.failed(ctx, "add_buddy", err) {
		return entity.Buddy{}, ErrUnavailable
	}
	return saved, err
}

func (f *fallback) ListGames(ctx context.Context) ([]entity.CompletedGame, error) {
	games, err := f.primary.ListGames(ctx)
	if f.failed(ctx, "list_games", err) {
		return f.defaults.ListGames(ctx)
	}
	return games, err
}

func (f *fallback) AddGame(ctx context.Context, game entity.CompletedGame) (entity.CompletedGame, error) {
	saved, err := f.primary.AddGame(ctx, game)
	if f.failed(ctx, "add_game", err) {
		return entity.CompletedGame{}, ErrUnavailable
	}
	return saved, err
}

func (f *fallback) Close(ctx context.Context) error { return f.primary.Close(ctx) }
