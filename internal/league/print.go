package league

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteTable prints standings as an aligned text table.
func WriteTable(w io.Writer, label string, table []StandingsRow) error {
	if label != "" {
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts\tPower\t")
	for _, r := range table {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%.1f\t\n",
			r.Rank, r.Team,
			r.Played, r.Won, r.Drawn, r.Lost,
			r.GoalsFor, r.GoalsAgainst, r.GoalDiff,
			r.Points, r.PowerRating,
		)
	}
	return tw.Flush()
}

// WriteSchedule prints every match grouped by week, optionally with its
// timeline.
func WriteSchedule(w io.Writer, label string, matches []MatchResult, withEvents bool) error {
	if label != "" {
		if _, err := fmt.Fprintln(w, label); err != nil {
			return err
		}
	}
	round := 0
	for i := range matches {
		m := &matches[i]
		if m.Round != round {
			round = m.Round
			if _, err := fmt.Fprintf(w, "Week %d (%s):\n", round, m.Date.Format("2006-01-02")); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "  %s  (xG %.2f - %.2f)\n", m.ScoreLine(), m.XGHome, m.XGAway); err != nil {
			return err
		}
		if !withEvents {
			continue
		}
		for _, e := range m.Events {
			if _, err := fmt.Fprintf(w, "      %s\n", Describe(e)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteLeaders prints a scorer or assist chart.
func WriteLeaders(w io.Writer, label string, leaders []PlayerTally) error {
	if _, err := fmt.Fprintln(w, label); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, l := range leaders {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%d\n", i+1, l.Player, l.Team, l.Count)
	}
	return tw.Flush()
}
