package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

// JackStats shows the aggregates over every completed game and the game log.
func JackStats(stats entity.PlayerStats, games []entity.CompletedGame, readOnly bool, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		h.raw(`<h1>Jack's Stats</h1>`)
		readOnlyBanner(h, readOnly)
		errorBanner(h, errMsg)

		h.raw(`<table id="stats"><tr><th>Games</th><th>Wins</th><th>Win %</th><th>PTS</th><th>REB</th><th>AST</th><th>STL</th><th>BLK</th></tr><tr>`)
		h.rawf(`<td>%d</td><td>%d</td>`, stats.GamesPlayed, stats.Wins)
		for _, v := range []float64{stats.WinPercentage, stats.AvgPoints, stats.AvgRebounds, stats.AvgAssists, stats.AvgSteals, stats.AvgBlocks} {
			h.rawf(`<td>%s</td>`, strconv.FormatFloat(v, 'f', 1, 64))
		}
		h.raw(`</tr></table>`)

		h.raw(`<h2>Game log</h2>`)
		if len(games) == 0 {
			h.raw(`<p>No games recorded yet.</p>`)
		} else {
			h.raw(`<table><thead><tr><th>Date</th><th>Opponent</th><th>Result</th><th>PTS</th><th>REB</th><th>AST</th>` +
				`<th>STL</th><th>BLK</th><th>TO</th><th>MIN</th></tr></thead><tbody>`)
			for _, g := range games {
				h.raw(`<tr><td>`)
				h.text(g.Date)
				h.raw(`</td><td>`)
				h.text(g.Opponent)
				h.raw(`</td><td>`)
				h.text(g.Result)
				h.raw(`</td>`)
				for _, v := range []int{g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks, g.Turnovers, g.Minutes} {
					h.rawf(`<td>%d</td>`, v)
				}
				h.raw(`</tr>`)
			}
			h.raw(`</tbody></table>`)
		}

		h.raw(`<h2>Add a game</h2><form method="post" action="/add_game">`)
		h.raw(`<label>Date <input type="date" name="date" required></label> `)
		h.raw(`<label>Opponent <input name="opponent" required></label> `)
		h.raw(`<label>Result <select name="result"><option>win</option><option>loss</option></select></label> `)
		for _, f := range []string{"points", "rebounds", "assists", "steals", "blocks", "turnovers", "minutes"} {
			h.raw(`<label>`)
			h.text(f)
			h.raw(` <input type="number" min="0" value="0" name="`)
			h.text(f)
			h.raw(`"></label> `)
		}
		h.raw(`<button type="submit">Save</button></form>`)
		return h.err
	})
	return page("Jack", body)
}
