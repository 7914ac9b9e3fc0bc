package league

import "sort"

// ComputeStandings folds every match into a ranked table. Teams without a
// match still get a row. Ties are broken by, in order: goal difference, goals
// for, head-to-head points over every meeting of the two teams, power rating,
// team name, team id.
func ComputeStandings(matches []MatchResult, powers []TeamPower) []StandingsRow {
	// 1) one row per team, in input order
	rows := make([]StandingsRow, len(powers))
	index := make(map[string]int, len(powers))
	for i, tp := range powers {
		rows[i] = StandingsRow{TeamID: tp.TeamID, Team: tp.TeamName, PowerRating: tp.Power}
		index[tp.TeamID] = i
	}

	// 2) aggregate results
	h2h := make(map[[2]string]int)
	for _, m := range matches {
		hi, okH := index[m.HomeTeamID]
		ai, okA := index[m.AwayTeamID]
		if !okH || !okA {
			continue
		}
		home, away := &rows[hi], &rows[ai]

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch m.Winner {
		case WinnerHome:
			home.Won++
			home.Points += 3
			away.Lost++
			h2h[[2]string{m.HomeTeamID, m.AwayTeamID}] += 3
		case WinnerAway:
			away.Won++
			away.Points += 3
			home.Lost++
			h2h[[2]string{m.AwayTeamID, m.HomeTeamID}] += 3
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
			h2h[[2]string{m.HomeTeamID, m.AwayTeamID}]++
			h2h[[2]string{m.AwayTeamID, m.HomeTeamID}]++
		}
	}

	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	// 3) sort
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff != b.GoalDiff {
			return a.GoalDiff > b.GoalDiff
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		ha, hb := h2h[[2]string{a.TeamID, b.TeamID}], h2h[[2]string{b.TeamID, a.TeamID}]
		if ha != hb {
			return ha > hb
		}
		if a.PowerRating != b.PowerRating {
			return a.PowerRating > b.PowerRating
		}
		if a.Team != b.Team {
			return a.Team < b.Team
		}
		return a.TeamID < b.TeamID
	})

	// 4) ranks
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
