// Structure of the Live Game Model in JackStatz.

package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Team keys, a LiveGame always has exactly these two teams.
const (
	Team1 = "team1"
	Team2 = "team2"
)

// Stat types a scorekeeper is allowed to change.
const (
	StatPoints2  = "points_2"
	StatPoints3  = "points_3"
	StatAssists  = "assists"
	StatRebounds = "rebounds"
	StatSteals   = "steals"
)

// Live game status written when a game is created.
const GameStatusActive = "active"

// One player slot of a team, addressed by its index within TeamSnapshot.Players.
// Saved as an element of the team's JSON document.
type PlayerStat struct {
	JerseyNumber int    `json:"jersey_number" yaml:"jersey_number"`
	Name         string `json:"name" yaml:"name"`
	Position     string `json:"position" yaml:"position"`
	Points2      int    `json:"points_2" yaml:"points_2"`
	Points3      int    `json:"points_3" yaml:"points_3"`
	Assists      int    `json:"assists" yaml:"assists"`
	Rebounds     int    `json:"rebounds" yaml:"rebounds"`
	Steals       int    `json:"steals" yaml:"steals"`
}

// Points scored by the player, two point makes count 2 and three point makes count 3.
func (p PlayerStat) TotalPoints() int {
	return p.Points2*2 + p.Points3*3
}

func (p *PlayerStat) field(statType string) *int {
	switch statType {
	case StatPoints2:
		return &p.Points2
	case StatPoints3:
		return &p.Points3
	case StatAssists:
		return &p.Assists
	case StatRebounds:
		return &p.Rebounds
	case StatSteals:
		return &p.Steals
	}
	return nil
}

// Stat returns the counter named by statType.
func (p PlayerStat) Stat(statType string) (int, bool) {
	f := p.field(statType)
	if f == nil {
		return 0, false
	}
	return *f, true
}

// SetStat overwrites the counter named by statType, false if there is no such counter.
func (p *PlayerStat) SetStat(statType string, value int) bool {
	f := p.field(statType)
	if f == nil {
		return false
	}
	*f = value
	return true
}

// One side of the scoreboard.
type TeamSnapshot struct {
	Name    string       `json:"name" yaml:"name"`
	Players []PlayerStat `json:"players" yaml:"players"`
}

// Sum of every player's points.
func (t TeamSnapshot) TotalPoints() int {
	total := 0
	for _, p := range t.Players {
		total += p.TotalPoints()
	}
	return total
}

// Returns a copy which doesn't share the players slice.
func (t TeamSnapshot) Clone() TeamSnapshot {
	players := make([]PlayerStat, len(t.Players))
	copy(players, t.Players)
	return TeamSnapshot{Name: t.Name, Players: players}
}

type TeamTotals struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// Saved in DB as a row of live_games.
type LiveGame struct {
	ID        int64        `json:"game_id"`
	Team1     TeamSnapshot `json:"team1"`
	Team2     TeamSnapshot `json:"team2"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Team returns the snapshot addressed by key, team1 or team2.
func (g *LiveGame) Team(key string) (*TeamSnapshot, bool) {
	switch key {
	case Team1:
		return &g.Team1, true
	case Team2:
		return &g.Team2, true
	}
	return nil, false
}

// Freshly computed point totals of both teams.
func (g LiveGame) Totals() TeamTotals {
	return TeamTotals{Team1: g.Team1.TotalPoints(), Team2: g.Team2.TotalPoints()}
}

func (g LiveGame) Clone() LiveGame {
	g.Team1 = g.Team1.Clone()
	g.Team2 = g.Team2.Clone()
	return g
}

// GameID identifies a live game in requests.
// Scoreboard clients send it either as a JSON number or as a string, a missing or null id means the current game.
type GameID struct {
	Value int64
	Set   bool
}

func NewGameID(v int64) GameID {
	return GameID{Value: v, Set: true}
}

func (id *GameID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = GameID{}
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = GameID{}
			return nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("game_id must be a positive integer, got %s", string(b))
	}
	*id = GameID{Value: v, Set: true}
	return nil
}

func (id GameID) MarshalJSON() ([]byte, error) {
	if !id.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(id.Value, 10)), nil
}

// Body of POST /update_player_stat.
type StatUpdateRequest struct {
	GameID      GameID `json:"game_id" valid:"-"`
	Team        string `json:"team" valid:"required~team:team is required,in(team1|team2)~team:team must be team1 or team2"`
	PlayerIndex *int   `json:"player_index" valid:"-"`
	StatType    string `json:"stat_type" valid:"required~stat_type:stat_type is required,in(points_2|points_3|assists|rebounds|steals)~stat_type:unknown stat_type"`
	Value       *int   `json:"value" valid:"-"`
}

// Body of POST /update_team_name.
type TeamNameUpdateRequest struct {
	GameID   GameID `json:"game_id" valid:"-"`
	Team     string `json:"team" valid:"required~team:team is required,in(team1|team2)~team:team must be team1 or team2"`
	TeamName string `json:"team_name" valid:"required~team_name:team_name is required,runelength(1|40)~team_name:team_name must be 1 to 40 characters,displayname~team_name:team_name must be printable"`
}

// Body of POST /update_player_name.
type PlayerNameUpdateRequest struct {
	GameID      GameID `json:"game_id" valid:"-"`
	Team        string `json:"team" valid:"required~team:team is required,in(team1|team2)~team:team must be team1 or team2"`
	PlayerIndex *int   `json:"player_index" valid:"-"`
	PlayerName  string `json:"player_name" valid:"required~player_name:player_name is required,runelength(1|40)~player_name:player_name must be 1 to 40 characters,displayname~player_name:player_name must be printable"`
}

// Response of a successful stat update.
type StatUpdateResult struct {
	Success     bool       `json:"success"`
	TotalPoints int        `json:"total_points"`
	TeamTotals  TeamTotals `json:"team_totals"`
}

// Response of a successful rename.
type NameUpdateResult struct {
	Success     bool   `json:"success"`
	Team        string `json:"team"`
	PlayerIndex *int   `json:"player_index,omitempty"`
	Name        string `json:"name"`
}
