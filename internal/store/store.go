// Package store holds the game state of JackStatz: the live game scoreboard, the sports buddies and the completed games.
// A Store is picked at startup, see Open.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

var (
	// ErrUnavailable is returned by writes when only the built-in defaults are being served.
	ErrUnavailable = errors.New("store: datastore unavailable")
	// ErrNotFound is returned when a live game id doesn't exist.
	ErrNotFound = errors.New("store: live game not found")
	// ErrInvalidSlot is returned when a team or player index doesn't address a player slot.
	ErrInvalidSlot = errors.New("store: no such team or player slot")
	// ErrInvalidStat is returned for a stat type a player doesn't have.
	ErrInvalidStat = errors.New("store: unknown stat type")
)

// Tier names reported by Store.Tier.
const (
	TierPostgres = "postgres"
	TierMemory   = "memory"
	TierStatic   = "static"
)

type Store interface {
	// Tier names the backend serving requests.
	Tier() string
	// Available is false when writes are refused.
	Available() bool

	// CurrentLiveGame returns the latest live game, creating a seeded one when there is none.
	CurrentLiveGame(ctx context.Context) (entity.LiveGame, error)
	// CreateLiveGame starts a new live game from the default rosters.
	CreateLiveGame(ctx context.Context) (entity.LiveGame, error)
	// LiveGame returns the live game with the given id.
	LiveGame(ctx context.Context, id int64) (entity.LiveGame, error)
	// UpdatePlayerStat overwrites one counter of one player slot.
	UpdatePlayerStat(ctx context.Context, id int64, team string, playerIndex int, statType string, value int) error
	// UpdateTeamName renames a team.
	UpdateTeamName(ctx context.Context, id int64, team, name string) error
	// UpdatePlayerName renames one player slot.
	UpdatePlayerName(ctx context.Context, id int64, team string, playerIndex int, name string) error

	ListBuddies(ctx context.Context) ([]entity.Buddy, error)
	AddBuddy(ctx context.Context, buddy entity.Buddy) (entity.Buddy, error)

	ListGames(ctx context.Context) ([]entity.CompletedGame, error)
	AddGame(ctx context.Context, game entity.CompletedGame) (entity.CompletedGame, error)

	Close(ctx context.Context) error
}

// Looks up the player slot addressed by team and index.
func playerSlot(game *entity.LiveGame, team string, playerIndex int) (*entity.PlayerStat, error) {
	snapshot, ok := game.Team(team)
	if !ok || playerIndex < 0 || playerIndex >= len(snapshot.Players) {
		return nil, ErrInvalidSlot
	}
	return &snapshot.Players[playerIndex], nil
}

func applyStat(game *entity.LiveGame, team string, playerIndex int, statType string, value int) error {
	player, err := playerSlot(game, team, playerIndex)
	if err != nil {
		return err
	}
	if !player.SetStat(statType, value) {
		return ErrInvalidStat
	}
	return nil
}

func applyTeamName(game *entity.LiveGame, team, name string) error {
	snapshot, ok := game.Team(team)
	if !ok {
		return ErrInvalidSlot
	}
	snapshot.Name = strings.TrimSpace(name)
	return nil
}

func applyPlayerName(game *entity.LiveGame, team string, playerIndex int, name string) error {
	player, err := playerSlot(game, team, playerIndex)
	if err != nil {
		return err
	}
	player.Name = strings.TrimSpace(name)
	return nil
}
