// Service layer of the internal package games.

package games

import (
	"context"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/validations"
)

// Service layer of internal package games which keeps Jack's game log.
type Service interface {
	// Game log with its aggregates, readOnly is set when new games are refused.
	gamelog(context.Context) ([]entity.CompletedGame, entity.PlayerStats, bool, error)
	// Validates and records a finished game.
	addgame(context.Context, entity.CompletedGameForm) (entity.CompletedGame, error)
}

type service struct {
	store  store.Store
	logger log.Logger
}

func NewService(gameStore store.Store, logger log.Logger) Service {
	validations.RegisterCustomValidations()
	return service{store: gameStore, logger: logger}
}

func (s service) gamelog(ctx context.Context) ([]entity.CompletedGame, entity.PlayerStats, bool, error) {
	games, dberr := s.store.ListGames(ctx)
	if dberr != nil {
		s.logger.WithCtx(ctx).Error().Err(dberr).Msg("Couldn't list completed games")
		return nil, entity.PlayerStats{}, false, errors.InternalServerError("Couldn't load the game log.")
	}
	return games, Stats(games), !s.store.Available(), nil
}

func (s service) addgame(ctx context.Context, form entity.CompletedGameForm) (entity.CompletedGame, error) {
	game, valerr := gameFromForm(form)
	if valerr != nil {
		return entity.CompletedGame{}, valerr
	}
	if !s.store.Available() {
		return entity.CompletedGame{}, errors.ServiceUnavailable("Games can't be recorded while the datastore is unavailable.")
	}
	saved, dberr := s.store.AddGame(ctx, game)
	if dberr != nil {
		s.logger.WithCtx(ctx).Error().Err(dberr).Str("opponent", game.Opponent).Msg("Couldn't save completed game")
		return entity.CompletedGame{}, errors.InternalServerError("Couldn't save the game.")
	}
	return saved, nil
}
