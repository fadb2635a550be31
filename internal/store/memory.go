package store

import (
	"context"
	"sync"
	"time"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

// memory keeps everything in process, used for development and tests.
type memory struct {
	mu       sync.Mutex
	defaults Defaults
	games    map[int64]entity.LiveGame
	latest   int64
	buddies  []entity.Buddy
	finished []entity.CompletedGame
	now      func() time.Time
}

func NewMemory(defaults Defaults) Store {
	buddies := defaults.SeedBuddies()
	return &memory{
		defaults: defaults,
		games:    make(map[int64]entity.LiveGame),
		buddies:  buddies,
		now:      time.Now,
	}
}

func (m *memory) Tier() string    { return TierMemory }
func (m *memory) Available() bool { return true }

func (m *memory) CurrentLiveGame(ctx context.Context) (entity.LiveGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.latest == 0 {
		return m.createLocked(), nil
	}
	return m.games[m.latest].Clone(), nil
}

func (m *memory) CreateLiveGame(ctx context.Context) (entity.LiveGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLocked(), nil
}

func (m *memory) createLocked() entity.LiveGame {
	m.latest++
	game := m.defaults.NewLiveGame(m.latest, m.now())
	m.games[game.ID] = game
	return game.Clone()
}

func (m *memory) LiveGame(ctx context.Context, id int64) (entity.LiveGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return entity.LiveGame{}, ErrNotFound
	}
	return game.Clone(), nil
}

// Applies fn to a copy of the game and keeps the copy only when fn succeeds.
func (m *memory) update(id int64, fn func(*entity.LiveGame) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return ErrNotFound
	}
	game = game.Clone()
	if err := fn(&game); err != nil {
		return err
	}
	m.games[id] = game
	return nil
}

func (m *memory) UpdatePlayerStat(ctx context.Context, id int64, team string, playerIndex int, statType string, value int) error {
	return m.update(id, func(g *entity.LiveGame) error {
		return applyStat(g, team, playerIndex, statType, value)
	})
}

func (m *memory) UpdateTeamName(ctx context.Context, id int64, team, name string) error {
	return m.update(id, func(g *entity.LiveGame) error {
		return applyTeamName(g, team, name)
	})
}

func (m *memory) UpdatePlayerName(ctx context.Context, id int64, team string, playerIndex int, name string) error {
	return m.update(id, func(g *entity.LiveGame) error {
		return applyPlayerName(g, team, playerIndex, name)
	})
}

func (m *memory) ListBuddies(ctx context.Context) ([]entity.Buddy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Buddy, len(m.buddies))
	copy(out, m.buddies)
	return out, nil
}

func (m *memory) AddBuddy(ctx context.Context, buddy entity.Buddy) (entity.Buddy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var maxID int64
	for _, b := range m.buddies {
		if b.ID > maxID {
			maxID = b.ID
		}
	}
	buddy.ID = maxID + 1
	if buddy.CreatedAt == "" {
		buddy.CreatedAt = m.now().UTC().Format("2006-01-02")
	}
	m.buddies = append(m.buddies, buddy)
	return buddy, nil
}

func (m *memory) ListGames(ctx context.Context) ([]entity.CompletedGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.CompletedGame, len(m.finished))
	copy(out, m.finished)
	return out, nil
}

func (m *memory) AddGame(ctx context.Context, game entity.CompletedGame) (entity.CompletedGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game.ID = int64(len(m.finished) + 1)
	m.finished = append(m.finished, game)
	return game, nil
}

func (m *memory) Close(context.Context) error { return nil }
