package store

import (
	"context"
	"time"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

// static serves the built-in defaults when no datastore could be reached.
// Reads always succeed, writes always fail with ErrUnavailable.
type static struct {
	game    entity.LiveGame
	buddies []entity.Buddy
}

func NewStatic(defaults Defaults) Store {
	return &static{
		game:    defaults.NewLiveGame(0, time.Now()),
		buddies: defaults.SeedBuddies(),
	}
}

func (s *static) Tier() string    { return TierStatic }
func (s *static) Available() bool { return false }

func (s *static) CurrentLiveGame(context.Context) (entity.LiveGame, error) {
	return s.game.Clone(), nil
}

func (s *static) CreateLiveGame(context.Context) (entity.LiveGame, error) {
	return entity.LiveGame{}, ErrUnavailable
}

func (s *static) LiveGame(context.Context, int64) (entity.LiveGame, error) {
	return s.game.Clone(), nil
}

func (s *static) UpdatePlayerStat(context.Context, int64, string, int, string, int) error {
	return ErrUnavailable
}

func (s *static) UpdateTeamName(context.Context, int64, string, string) error {
	return ErrUnavailable
}

func (s *static) UpdatePlayerName(context.Context, int64, string, int, string) error {
	return ErrUnavailable
}

func (s *static) ListBuddies(context.Context) ([]entity.Buddy, error) {
	out := make([]entity.Buddy, len(s.buddies))
	copy(out, s.buddies)
	return out, nil
}

func (s *static) AddBuddy(context.Context, entity.Buddy) (entity.Buddy, error) {
	return entity.Buddy{}, ErrUnavailable
}

func (s *static) ListGames(context.Context) ([]entity.CompletedGame, error) {
	return []entity.CompletedGame{}, nil
}

func (s *static) AddGame(context.Context, entity.CompletedGame) (entity.CompletedGame, error) {
	return entity.CompletedGame{}, ErrUnavailable
}

func (s *static) Close(context.Context) error { return nil }
