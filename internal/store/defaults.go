package store

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults seeds new live games and every store that starts empty.
type Defaults struct {
	LiveGame struct {
		Team1 entity.TeamSnapshot `yaml:"team1"`
		Team2 entity.TeamSnapshot `yaml:"team2"`
	} `yaml:"live_game"`
	Buddies []entity.Buddy `yaml:"buddies"`
}

// LoadDefaults parses the built-in defaults.
func LoadDefaults() (Defaults, error) {
	return ParseDefaults(defaultsYAML)
}

func ParseDefaults(raw []byte) (Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Defaults{}, fmt.Errorf("store: parsing defaults: %w", err)
	}
	if len(d.LiveGame.Team1.Players) == 0 || len(d.LiveGame.Team1.Players) != len(d.LiveGame.Team2.Players) {
		return Defaults{}, fmt.Errorf("store: defaults need the same non-zero number of players on both teams")
	}
	return d, nil
}

// NewLiveGame returns a zeroed live game with the default rosters.
func (d Defaults) NewLiveGame(id int64, now time.Time) entity.LiveGame {
	return entity.LiveGame{
		ID:        id,
		Team1:     d.LiveGame.Team1.Clone(),
		Team2:     d.LiveGame.Team2.Clone(),
		Status:    entity.GameStatusActive,
		CreatedAt: now.UTC(),
	}
}

func (d Defaults) SeedBuddies() []entity.Buddy {
	out := make([]entity.Buddy, len(d.Buddies))
	copy(out, d.Buddies)
	return out
}
