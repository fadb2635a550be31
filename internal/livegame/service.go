// Service layer of the internal package livegame.
// Applies scoreboard changes to the store and hands every accepted change to the broadcast registry.

package livegame

import (
	"context"
	goerrors "errors"

	"github.com/jackpalacios/jackstatz/internal/entity"
	"github.com/jackpalacios/jackstatz/internal/errors"
	"github.com/jackpalacios/jackstatz/internal/sse"
	"github.com/jackpalacios/jackstatz/internal/store"
	"github.com/jackpalacios/jackstatz/pkg/log"
	"github.com/jackpalacios/jackstatz/pkg/validations"
)

// Service layer of internal package livegame which encapsulates the live scoreboard logic of JackStatz.
type Service interface {
	// Returns the current live game, creating one if needed.
	currentgame(ctx context.Context) (entity.LiveGame, bool, error)
	// Sets one stat of one player and broadcasts a stat_update.
	updateplayerstat(ctx context.Context, req entity.StatUpdateRequest) (entity.StatUpdateResult, error)
	// Renames a team and broadcasts a team_name_update.
	updateteamname(ctx context.Context, req entity.TeamNameUpdateRequest) (entity.NameUpdateResult, error)
	// Renames a player and broadcasts a player_name_update.
	updateplayername(ctx context.Context, req entity.PlayerNameUpdateRequest) (entity.NameUpdateResult, error)
}

// Broadcaster fans an event out to the live game viewers, sse.Service is one.
type Broadcaster interface {
	Broadcast(ctx context.Context, event entity.BroadcastEvent) int
}

// Object of this will be passed around from main to routers to API.
// Helps to access the service layer interface and call methods.
// Also helps to pass objects to be used from outer layer.
type service struct {
	store       store.Store
	broadcaster Broadcaster
	logger      log.Logger
}

// Helps to access the service layer interface and call methods. Service object is passed from main.
func NewService(gameStore store.Store, broadcaster Broadcaster, logger log.Logger) Service {
	validations.RegisterCustomValidations()
	return service{store: gameStore, broadcaster: broadcaster, logger: logger}
}

func (s service) currentgame(ctx context.Context) (entity.LiveGame, bool, error) {
	game, err := s.store.CurrentLiveGame(ctx)
	if err != nil {
		s.logger.WithCtx(ctx).Error().Err(err).Msg("Couldn't load the current live game")
		return entity.LiveGame{}, false, errors.InternalServerError("Couldn't load the live game.")
	}
	return game, !s.store.Available(), nil
}

// Resolves the game a request addresses, no id means the current live game.
func (s service) gameID(ctx context.Context, id entity.GameID) (int64, error) {
	if id.Set {
		return id.Value, nil
	}
	game, err := s.store.CurrentLiveGame(ctx)
	if err != nil {
		return 0, s.storeError(ctx, err)
	}
	// The defaults answered, there is no game to write to
	if !s.store.Available() {
		return 0, errors.ServiceUnavailable("")
	}
	return game.ID, nil
}

// Maps store failures onto responses, everything unknown is a failed write.
func (s service) storeError(ctx context.Context, err error) error {
	switch {
	case goerrors.Is(err, store.ErrUnavailable):
		return errors.ServiceUnavailable("")
	case goerrors.Is(err, store.ErrNotFound):
		return errors.NotFound("Live game not found.")
	case goerrors.Is(err, store.ErrInvalidSlot):
		return errors.GenerateValidationErrorResponse([]error{errors.New("player_index:no such player slot")})
	case goerrors.Is(err, store.ErrInvalidStat):
		return errors.GenerateValidationErrorResponse([]error{errors.New("stat_type:unknown stat_type")})
	}
	s.logger.WithCtx(ctx).Error().Err(err).Msg("Live game write failed")
	return errors.InternalServerError("Couldn't save the change.")
}

// Re-reads the game after a write, totals always come from this fresh copy.
func (s service) freshgame(ctx context.Context, id int64) (entity.LiveGame, error) {
	game, err := s.store.LiveGame(ctx, id)
	if err != nil {
		s.logger.WithCtx(ctx).Error().Err(err).Int64("game_id", id).Msg("Couldn't re-read the live game after a write")
		return entity.LiveGame{}, errors.InternalServerError("Change saved but the scoreboard couldn't be refreshed.")
	}
	return game, nil
}

func (s service) updateplayerstat(ctx context.Context, req entity.StatUpdateRequest) (entity.StatUpdateResult, error) {
	if valerr := validateStatUpdate(&req); valerr != nil {
		return entity.StatUpdateResult{}, valerr
	}
	id, err := s.gameID(ctx, req.GameID)
	if err != nil {
		return entity.StatUpdateResult{}, err
	}
	if dberr := s.store.UpdatePlayerStat(ctx, id, req.Team, *req.PlayerIndex, req.StatType, *req.Value); dberr != nil {
		return entity.StatUpdateResult{}, s.storeError(ctx, dberr)
	}

	game, err := s.freshgame(ctx, id)
	if err != nil {
		return entity.StatUpdateResult{}, err
	}
	team, _ := game.Team(req.Team)
	player := team.Players[*req.PlayerIndex]
	value, _ := player.Stat(req.StatType)
	totals := game.Totals()

	s.broadcaster.Broadcast(ctx, sse.NewEvent(entity.EventStatUpdate, entity.StatUpdateData{
		Team:        req.Team,
		PlayerIndex: *req.PlayerIndex,
		StatType:    req.StatType,
		Value:       value,
		TotalPoints: player.TotalPoints(),
		TeamTotals:  totals,
	}))
	return entity.StatUpdateResult{Success: true, TotalPoints: player.TotalPoints(), TeamTotals: totals}, nil
}

func (s service) updateteamname(ctx context.Context, req entity.TeamNameUpdateRequest) (entity.NameUpdateResult, error) {
	if valerr := validateTeamNameUpdate(&req); valerr != nil {
		return entity.NameUpdateResult{}, valerr
	}
	id, err := s.gameID(ctx, req.GameID)
	if err != nil {
		return entity.NameUpdateResult{}, err
	}
	if dberr := s.store.UpdateTeamName(ctx, id, req.Team, req.TeamName); dberr != nil {
		return entity.NameUpdateResult{}, s.storeError(ctx, dberr)
	}

	game, err := s.freshgame(ctx, id)
	if err != nil {
		return entity.NameUpdateResult{}, err
	}
	team, _ := game.Team(req.Team)
	s.broadcaster.Broadcast(ctx, sse.NewEvent(entity.EventTeamNameUpdate, entity.TeamNameData{
		Team:     req.Team,
		TeamName: team.Name,
	}))
	return entity.NameUpdateResult{Success: true, Team: req.Team, Name: team.Name}, nil
}

func (s service) updateplayername(ctx context.Context, req entity.PlayerNameUpdateRequest) (entity.NameUpdateResult, error) {
	if valerr := validatePlayerNameUpdate(&req); valerr != nil {
		return entity.NameUpdateResult{}, valerr
	}
	id, err := s.gameID(ctx, req.GameID)
	if err != nil {
		return entity.NameUpdateResult{}, err
	}
	if dberr := s.store.UpdatePlayerName(ctx, id, req.Team, *req.PlayerIndex, req.PlayerName); dberr != nil {
		return entity.NameUpdateResult{}, s.storeError(ctx, dberr)
	}

	game, err := s.freshgame(ctx, id)
	if err != nil {
		return entity.NameUpdateResult{}, err
	}
	team, _ := game.Team(req.Team)
	name := team.Players[*req.PlayerIndex].Name
	s.broadcaster.Broadcast(ctx, sse.NewEvent(entity.EventPlayerNameUpdate, entity.PlayerNameData{
		Team:        req.Team,
		PlayerIndex: *req.PlayerIndex,
		PlayerName:  name,
	}))
	return entity.NameUpdateResult{Success: true, Team: req.Team, PlayerIndex: req.PlayerIndex, Name: name}, nil
}
