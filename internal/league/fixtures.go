package league

import (
	"fmt"
	"strings"
)

// Scheduler selects how generated fixtures are assigned to rounds.
type Scheduler string

const (
	// SchedulerChunked emits every ordered pair (i, j) and cuts the list into
	// rounds of ceil(n/2) matches. A team can appear twice in one round.
	SchedulerChunked Scheduler = "chunked"

	// SchedulerCircle uses the circle method: n-1 rounds (n even) in which every
	// team plays at most once, then the same rounds with home and away swapped.
	SchedulerCircle Scheduler = "circle"
)

// ParseScheduler accepts "chunked" (also the empty string) or "circle".
func ParseScheduler(s string) (Scheduler, error) {
	switch Scheduler(strings.ToLower(strings.TrimSpace(s))) {
	case "", SchedulerChunked:
		return SchedulerChunked, nil
	case SchedulerCircle:
		return SchedulerCircle, nil
	}
	return "", fmt.Errorf("unknown scheduler %q", s)
}

// BuildFixtures returns the season's fixtures in play order. Supplied
// fixtures are kept as given and only numbered into rounds.
func BuildFixtures(teams []TeamInput, supplied []FixtureInput, s Scheduler) []Fixture {
	perRound := max(1, (len(teams)+1)/2)

	if len(supplied) > 0 {
		fixtures := make([]Fixture, len(supplied))
		for i, f := range supplied {
			fixtures[i] = Fixture{HomeTeamID: f.HomeTeamID, AwayTeamID: f.AwayTeamID, Round: i/perRound + 1}
		}
		return fixtures
	}

	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	if s == SchedulerCircle {
		return circleSchedule(ids)
	}

	var fixtures []Fixture
	for i := range ids {
		for j := range ids {
			if i != j {
				fixtures = append(fixtures, Fixture{HomeTeamID: ids[i], AwayTeamID: ids[j]})
			}
		}
	}
	for idx := range fixtures {
		fixtures[idx].Round = idx/perRound + 1
	}
	return fixtures
}

// circleSchedule returns a double round-robin: the first half from the circle
// method, the second half the same rounds with venues swapped.
func circleSchedule(ids []string) []Fixture {
	if len(ids) < 2 {
		return nil
	}

	// 1) odd number of teams: "" is the bye
	slots := append([]string(nil), ids...)
	if len(slots)%2 != 0 {
		slots = append(slots, "")
	}
	n := len(slots)

	// 2) first half; slot 0 stays fixed while the rest rotate
	var firstHalf [][]Fixture
	for r := 0; r < n-1; r++ {
		var round []Fixture
		for j := 0; j < n/2; j++ {
			home, away := slots[j], slots[n-1-j]
			if home != "" && away != "" {
				round = append(round, Fixture{HomeTeamID: home, AwayTeamID: away, Round: r + 1})
			}
		}
		firstHalf = append(firstHalf, round)

		last := slots[n-1]
		copy(slots[2:], slots[1:n-1])
		slots[1] = last
	}

	// 3) second half with swapped home/away
	fixtures := make([]Fixture, 0, 2*len(ids)*(len(ids)-1)/2)
	for _, round := range firstHalf {
		fixtures = append(fixtures, round...)
	}
	for r, round := range firstHalf {
		for _, f := range round {
			fixtures = append(fixtures, Fixture{HomeTeamID: f.AwayTeamID, AwayTeamID: f.HomeTeamID, Round: r + n})
		}
	}
	return fixtures
}

// Rounds groups fixtures by round number, preserving order within a round.
func Rounds(fixtures []Fixture) [][]Fixture {
	var rounds [][]Fixture
	for _, f := range fixtures {
		for len(rounds) < f.Round {
			rounds = append(rounds, nil)
		}
		rounds[f.Round-1] = append(rounds[f.Round-1], f)
	}
	return rounds
}
