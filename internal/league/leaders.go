package league

import "sort"

const leaderLimit = 10

// TopScorers counts goals per player across matches. Own goals are not
// credited to anyone.
func TopScorers(matches []MatchResult, limit int) []PlayerTally {
	return tally(matches, limit, func(g Goal) string {
		if g.IsOwnGoal() {
			return ""
		}
		return g.Scorer
	})
}

// TopAssists counts assists per player across matches.
func TopAssists(matches []MatchResult, limit int) []PlayerTally {
	return tally(matches, limit, func(g Goal) string { return g.Assist })
}

func tally(matches []MatchResult, limit int, who func(Goal) string) []PlayerTally {
	type key struct{ teamID, player string }
	counts := make(map[key]*PlayerTally)
	var order []key

	for _, m := range matches {
		for _, g := range m.Events.Goals() {
			name := who(g)
			if name == "" {
				continue
			}
			k := key{g.TeamID, name}
			t, ok := counts[k]
			if !ok {
				t = &PlayerTally{Player: name, TeamID: g.TeamID, Team: g.Team}
				counts[k] = t
				order = append(order, k)
			}
			t.Count++
		}
	}

	out := make([]PlayerTally, 0, len(order))
	for _, k := range order {
		out = append(out, *counts[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Player != out[j].Player {
			return out[i].Player < out[j].Player
		}
		return out[i].TeamID < out[j].TeamID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
