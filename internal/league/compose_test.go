package league

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-engine/internal/rng"
)

// checkTimeline asserts the invariants every composed match must hold.
func checkTimeline(t *testing.T, home, away TeamInput, cm ComposedMatch) {
	t.Helper()

	other := map[string]string{home.ID: away.ID, away.ID: home.ID}
	roster := map[string]map[string]Category{home.ID: {}, away.ID: {}}
	for _, team := range []TeamInput{home, away} {
		for _, p := range team.Players {
			roster[team.ID][p.Name] = ClassifyPosition(p.Position)
		}
	}

	type who struct{ team, player string }
	subOut := map[who]int{}
	subIn := map[who]int{}
	for _, e := range cm.Events {
		if s, ok := e.(Substitution); ok {
			require.NotContains(t, subOut, who{s.TeamID, s.Out}, "player subbed out twice")
			require.NotContains(t, subIn, who{s.TeamID, s.In}, "player subbed in twice")
			subOut[who{s.TeamID, s.Out}] = s.Minute
			subIn[who{s.TeamID, s.In}] = s.Minute
		}
	}

	goals := map[string]int{}
	ownGoals := 0
	prev := 0
	for _, e := range cm.Events {
		b := e.Base()
		require.GreaterOrEqual(t, b.Minute, 1)
		require.LessOrEqual(t, b.Minute, 90)
		require.GreaterOrEqual(t, b.Minute, prev, "timeline not sorted")
		prev = b.Minute

		var actor who
		switch ev := e.(type) {
		case Goal:
			goals[ev.TeamID]++
			actor = who{ev.TeamID, ev.Scorer}
			if ev.IsOwnGoal() {
				ownGoals++
				actor = who{other[ev.TeamID], ev.Scorer}
				assert.Equal(t, CategoryDEF, roster[actor.team][ev.Scorer])
				assert.Empty(t, ev.Assist)
			}
			if ev.Assist != "" {
				assert.NotEqual(t, ev.Scorer, ev.Assist)
			}
			if ev.Detail == DetailPenalty {
				assert.Empty(t, ev.Assist)
			}
		case YellowCard:
			actor = who{ev.TeamID, ev.Player}
			assert.NotEqual(t, CategoryGK, roster[ev.TeamID][ev.Player])
		case RedCard:
			actor = who{ev.TeamID, ev.Player}
		case Substitution:
			continue
		}

		require.Contains(t, roster[actor.team], actor.player)
		if out, ok := subOut[actor]; ok {
			assert.LessOrEqual(t, b.Minute, out, "%s acted after leaving", actor.player)
		}
		if in, ok := subIn[actor]; ok {
			assert.GreaterOrEqual(t, b.Minute, in, "%s acted before coming on", actor.player)
		}
	}

	assert.Equal(t, cm.HomeScore, goals[home.ID])
	assert.Equal(t, cm.AwayScore, goals[away.ID])
	assert.LessOrEqual(t, ownGoals, 1)
}

func TestComposeEventsInvariants(t *testing.T) {
	tuning := DefaultTuning().Events
	home, away := testTeam("h", 20_000_000, 80), testTeam("a", 8_000_000, 70)

	for i := 0; i < 500; i++ {
		src := rng.NewFromString(fmt.Sprintf("compose-%d", i))
		hg, ag := src.Intn(6), src.Intn(5)

		cm := ComposeEvents(home, away, hg, ag, src, tuning)

		require.Equal(t, hg+ag, cm.HomeScore+cm.AwayScore, "own goals move goals, never add them")
		checkTimeline(t, home, away, cm)
	}
}

func TestComposeEventsDeterministic(t *testing.T) {
	tuning := DefaultTuning().Events
	home, away := testTeam("h", 20_000_000, 80), testTeam("a", 8_000_000, 70)

	a := ComposeEvents(home, away, 3, 2, rng.NewFromString("same"), tuning)
	b := ComposeEvents(home, away, 3, 2, rng.NewFromString("same"), tuning)
	assert.Equal(t, a, b)
}

func TestComposeEventsSmallSquadSkipsSubstitutions(t *testing.T) {
	tuning := DefaultTuning().Events
	home, away := testTeam("h", 1e7, 70), testTeam("a", 1e7, 70)
	home.Players = home.Players[:12]
	away.Players = away.Players[:11]

	for i := 0; i < 100; i++ {
		cm := ComposeEvents(home, away, 2, 2, rng.NewFromString(fmt.Sprintf("small-%d", i)), tuning)
		for _, e := range cm.Events {
			assert.NotEqual(t, KindSub, e.Kind())
		}
		checkTimeline(t, home, away, cm)
	}
}

func TestComposeEventsSubstitutionCounts(t *testing.T) {
	tuning := DefaultTuning().Events
	home, away := testTeam("h", 1e7, 70), testTeam("a", 1e7, 70)

	for i := 0; i < 100; i++ {
		cm := ComposeEvents(home, away, 0, 0, rng.NewFromString(fmt.Sprintf("subs-%d", i)), tuning)
		perTeam := map[string]int{}
		for _, e := range cm.Events {
			if s, ok := e.(Substitution); ok {
				perTeam[s.TeamID]++
				assert.NotEqual(t, s.Out, s.In)
			}
		}
		// an 18-man squad has 6 outfield substitutes, so 3..6 always fit
		for _, id := range []string{"h", "a"} {
			assert.GreaterOrEqual(t, perTeam[id], 3)
			assert.LessOrEqual(t, perTeam[id], 6)
		}
	}
}

func TestComposeEventsTinyRoster(t *testing.T) {
	tuning := DefaultTuning().Events
	home := TeamInput{ID: "h", Name: "Home", Players: []PlayerInput{{Name: "Solo", Position: "ST"}}}
	away := TeamInput{ID: "a", Name: "Away", Players: []PlayerInput{{Name: "Keeper", Position: "GK"}}}

	for i := 0; i < 200; i++ {
		cm := ComposeEvents(home, away, 3, 2, rng.NewFromString(fmt.Sprintf("tiny-%d", i)), tuning)
		checkTimeline(t, home, away, cm)
	}
}

func TestPickScorerFollowsWeights(t *testing.T) {
	tuning := DefaultTuning().Events
	team := testTeam("h", 1e7, 70)
	home, away := team, testTeam("a", 1e7, 70)

	byGroup := map[Group]int{}
	total := 0
	for i := 0; i < 300; i++ {
		cm := ComposeEvents(home, away, 4, 0, rng.NewFromString(fmt.Sprintf("w-%d", i)), tuning)
		for _, g := range cm.Events.Goals() {
			if g.TeamID != "h" || g.IsOwnGoal() || g.Detail == DetailPenalty {
				continue
			}
			for _, p := range team.Players {
				if p.Name == g.Scorer {
					byGroup[PositionGroup(p.Position)]++
				}
			}
			total++
		}
	}

	require.Greater(t, total, 500)
	assert.Zero(t, byGroup[GroupGK])
	assert.Greater(t, byGroup[GroupST], byGroup[GroupCM])
	assert.Greater(t, byGroup[GroupST], total/4)
}

func TestPenaltyTakerPrefersValuableForward(t *testing.T) {
	team := TeamInput{ID: "h", Players: []PlayerInput{
		{Name: "Keeper", Position: "GK", MarketValue: ptr(90e6)},
		{Name: "Defender", Position: "CB", MarketValue: ptr(80e6)},
		{Name: "Cheap Nine", Position: "ST", MarketValue: ptr(5e6)},
		{Name: "Star Ten", Position: "CAM", MarketValue: ptr(60e6)},
	}}
	sq := newSquad(team, 11)

	assert.Equal(t, 3, penaltyTaker(sq, []int{0, 1, 2, 3}, 1))
	assert.Equal(t, 1, penaltyTaker(sq, []int{0, 1}, 0), "no ST/AM on the pitch: most valuable outfielder")
	assert.Equal(t, 0, penaltyTaker(sq, []int{0}, 0))
}
