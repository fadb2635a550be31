// Structure of the Completed Game Model in JackStatz.

package entity

// Final box score of one finished game, never changed once recorded.
// Saved in DB as a row of basketball_games.
type CompletedGame struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Opponent  string `json:"opponent"`
	Result    string `json:"result"`
	Points    int    `json:"points"`
	Rebounds  int    `json:"rebounds"`
	Assists   int    `json:"assists"`
	Steals    int    `json:"steals"`
	Blocks    int    `json:"blocks"`
	Turnovers int    `json:"turnovers"`
	Minutes   int    `json:"minutes"`
}

const (
	ResultWin  = "win"
	ResultLoss = "loss"
)

// Form posted to /add_game.
type CompletedGameForm struct {
	Date      string `form:"date" valid:"required~date:date is required,isodate~date:date must be YYYY-MM-DD"`
	Opponent  string `form:"opponent" valid:"required~opponent:opponent is required,runelength(1|60)~opponent:opponent is too long"`
	Result    string `form:"result" valid:"required~result:result is required,in(win|loss)~result:result must be win or loss"`
	Points    string `form:"points" valid:"int~points:points must be a number,range(0|500)~points:points is out of range,optional"`
	Rebounds  string `form:"rebounds" valid:"int~rebounds:rebounds must be a number,range(0|200)~rebounds:rebounds is out of range,optional"`
	Assists   string `form:"assists" valid:"int~assists:assists must be a number,range(0|200)~assists:assists is out of range,optional"`
	Steals    string `form:"steals" valid:"int~steals:steals must be a number,range(0|200)~steals:steals is out of range,optional"`
	Blocks    string `form:"blocks" valid:"int~blocks:blocks must be a number,range(0|200)~blocks:blocks is out of range,optional"`
	Turnovers string `form:"turnovers" valid:"int~turnovers:turnovers must be a number,range(0|200)~turnovers:turnovers is out of range,optional"`
	Minutes   string `form:"minutes" valid:"int~minutes:minutes must be a number,range(0|300)~minutes:minutes is out of range,optional"`
}

// Aggregates over every completed game, averages are rounded to one decimal.
type PlayerStats struct {
	GamesPlayed   int     `json:"games_played"`
	Wins          int     `json:"wins"`
	WinPercentage float64 `json:"win_percentage"`
	AvgPoints     float64 `json:"avg_points"`
	AvgRebounds   float64 `json:"avg_rebounds"`
	AvgAssists    float64 `json:"avg_assists"`
	AvgSteals     float64 `json:"avg_steals"`
	AvgBlocks     float64 `json:"avg_blocks"`
}
