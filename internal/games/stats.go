package games

import (
	"math"

	"github.com/jackpalacios/jackstatz/internal/entity"
)

// Stats aggregates the completed games. Every figure is zero when no game was played.
func Stats(games []entity.CompletedGame) entity.PlayerStats {
	if len(games) == 0 {
		return entity.PlayerStats{}
	}
	var wins, points, rebounds, assists, steals, blocks int
	for _, g := range games {
		if g.Result == entity.ResultWin {
			wins++
		}
		points += g.Points
		rebounds += g.Rebounds
		assists += g.Assists
		steals += g.Steals
		blocks += g.Blocks
	}
	n := float64(len(games))
	return entity.PlayerStats{
		GamesPlayed:   len(games),
		Wins:          wins,
		WinPercentage: round1(float64(wins) / n * 100),
		AvgPoints:     round1(float64(points) / n),
		AvgRebounds:   round1(float64(rebounds) / n),
		AvgAssists:    round1(float64(assists) / n),
		AvgSteals:     round1(float64(steals) / n),
		AvgBlocks:     round1(float64(blocks) / n),
	}
}

// round1 rounds halves to even, 0.25 becomes 0.2.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
