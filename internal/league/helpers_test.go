package league

import (
	"fmt"
	"time"
)

// eleven starters in roster order, then the bench
var squadPositions = []string{
	"GK", "LB", "CB", "CB", "RB", "DM", "CM", "AM", "LW", "RW", "ST",
	"GK", "CB", "CM", "CAM", "ST", "LW", "RB",
}

func ptr[T any](v T) *T { return &v }

// testTeam builds a full 18-man squad where every player has the same value
// and overall.
func testTeam(id string, value, overall float64) TeamInput {
	t := TeamInput{ID: id, Name: "Team " + id}
	for i, pos := range squadPositions {
		t.Players = append(t.Players, PlayerInput{
			ID:          fmt.Sprintf("%s-%d", id, i),
			Name:        fmt.Sprintf("%s Player %d", id, i),
			Position:    pos,
			MarketValue: ptr(value),
			Overall:     ptr(overall),
		})
	}
	return t
}

func fourTeamLeague() SimulateRequest {
	return SimulateRequest{
		LeagueID: "league-x",
		Seed:     "league-x",
		Teams: []TeamInput{
			testTeam("a", 40_000_000, 85),
			testTeam("b", 15_000_000, 75),
			testTeam("c", 5_000_000, 65),
			testTeam("d", 1_000_000, 55),
		},
	}
}

var fixedNow = time.Date(2025, 8, 16, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
