// Structure of Server-Side-Events (SSE) Model in JackStatz.

package entity

// Kinds of BroadcastEvent.
const (
	EventConnected        = "connected"
	EventHeartbeat        = "heartbeat"
	EventStatUpdate       = "stat_update"
	EventTeamNameUpdate   = "team_name_update"
	EventPlayerNameUpdate = "player_name_update"
)

// Message sent to the viewers of the live game, serialized as the data line of an SSE frame.
type BroadcastEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// Data of a stat_update event.
type StatUpdateData struct {
	Team        string     `json:"team"`
	PlayerIndex int        `json:"player_index"`
	StatType    string     `json:"stat_type"`
	Value       int        `json:"value"`
	TotalPoints int        `json:"total_points"`
	TeamTotals  TeamTotals `json:"team_totals"`
}

// Data of a team_name_update event.
type TeamNameData struct {
	Team     string `json:"team"`
	TeamName string `json:"team_name"`
}

// Data of a player_name_update event.
type PlayerNameData struct {
	Team        string `json:"team"`
	PlayerIndex int    `json:"player_index"`
	PlayerName  string `json:"player_name"`
}

// Registry size reported by /api/sse/stats.
type SSEStats struct {
	Subscribers int `json:"subscribers"`
}
