package league

import (
	"sort"

	"github.com/utakatalp/league-engine/internal/rng"
)

const maxYellowCards = 10

// ComposedMatch is the final score of a match together with its timeline.
// The score can differ from the sampled one by a single own goal.
type ComposedMatch struct {
	HomeScore int
	AwayScore int
	Events    EventList
}

type side int

const (
	homeSide side = iota
	awaySide
)

func (s side) other() side { return 1 - s }

// squad tracks who is on the pitch during one match. Players are keyed by
// name, the same key the timeline uses.
type squad struct {
	team     TeamInput
	groups   []Group
	cats     []Category
	starters int

	subOut  map[string]int
	subIn   map[string]int
	sentOff map[string]int
	booked  map[string]int
}

func newSquad(team TeamInput, starting int) *squad {
	sq := &squad{
		team:     team,
		groups:   make([]Group, len(team.Players)),
		cats:     make([]Category, len(team.Players)),
		starters: min(starting, len(team.Players)),
		subOut:   make(map[string]int),
		subIn:    make(map[string]int),
		sentOff:  make(map[string]int),
		booked:   make(map[string]int),
	}
	for i, p := range team.Players {
		sq.groups[i] = PositionGroup(p.Position)
		sq.cats[i] = ClassifyPosition(p.Position)
	}
	return sq
}

func (sq *squad) name(i int) string { return sq.team.Players[i].Name }

// onPitch reports whether player i can act at minute m. A player can still act
// in the minute they are substituted or sent off.
func (sq *squad) onPitch(i, m int) bool {
	name := sq.name(i)
	if i >= sq.starters {
		in, ok := sq.subIn[name]
		if !ok || m < in {
			return false
		}
	}
	if out, ok := sq.subOut[name]; ok && m > out {
		return false
	}
	if red, ok := sq.sentOff[name]; ok && m > red {
		return false
	}
	return true
}

// eligible lists players on the pitch at minute m that pass keep (nil keeps all).
func (sq *squad) eligible(m int, keep func(i int) bool) []int {
	var out []int
	for i := range sq.team.Players {
		if sq.onPitch(i, m) && (keep == nil || keep(i)) {
			out = append(out, i)
		}
	}
	return out
}

func (sq *squad) base(minute int) EventBase {
	return EventBase{Minute: minute, TeamID: sq.team.ID, Team: sq.team.Name}
}

// pending is an event plus the player it must be checked against. For an own
// goal the actor belongs to the conceding side, not the side credited.
type pending struct {
	ev    Event
	side  side
	actor string
}

type composer struct {
	src    *rng.Source
	t      EventTuning
	squads [2]*squad

	goals []pending
	cards []pending
	subs  []pending
}

// ComposeEvents builds the timeline of a match whose sampled score is
// homeGoals-awayGoals. Generation runs in a fixed order so every player
// attribution knows who is on the pitch:
//
//  1. substitutions (who plays when)
//  2. cards, with the odd one going to the side behind
//  3. at most one own goal, moving a goal from one tally to the other
//  4. the remaining goals, credited to players on the pitch at that minute
//
// The number of goal events always equals HomeScore+AwayScore of the result.
func ComposeEvents(home, away TeamInput, homeGoals, awayGoals int, src *rng.Source, t EventTuning) ComposedMatch {
	c := &composer{
		src:    src,
		t:      t,
		squads: [2]*squad{newSquad(home, t.StartingPlayers), newSquad(away, t.StartingPlayers)},
	}
	tally := [2]int{homeGoals, awayGoals}

	c.substitutions(homeSide)
	c.substitutions(awaySide)

	c.bookings(tally)

	var owned [2]int
	if benefit, ok := c.ownGoal(&tally); ok {
		owned[benefit] = 1
	}

	c.scoreGoals(homeSide, tally[homeSide]-owned[homeSide])
	c.scoreGoals(awaySide, tally[awaySide]-owned[awaySide])

	pool := make([]pending, 0, len(c.goals)+len(c.cards)+len(c.subs))
	pool = append(pool, c.goals...)
	pool = append(pool, c.cards...)
	pool = append(pool, c.subs...)
	pool = c.filter(pool)

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].ev.Base().Minute < pool[j].ev.Base().Minute
	})

	events := make(EventList, len(pool))
	for i, p := range pool {
		events[i] = p.ev
	}
	return ComposedMatch{HomeScore: tally[homeSide], AwayScore: tally[awaySide], Events: events}
}

// substitutions swaps unused outfield starters for unused outfield bench
// players. Squads too small for the drawn count make no changes at all.
func (c *composer) substitutions(s side) {
	sq := c.squads[s]
	count := c.src.Between(c.t.MinSubstitutions, c.t.MaxSubstitutions)
	if len(sq.team.Players) < count+c.t.StartingPlayers {
		return
	}

	var outs, ins []int
	for i := range sq.team.Players {
		if sq.cats[i] == CategoryGK {
			continue
		}
		if i < sq.starters {
			outs = append(outs, i)
		} else {
			ins = append(ins, i)
		}
	}
	count = min(count, len(outs), len(ins))

	for k := 0; k < count; k++ {
		minute := SubstitutionMinutes.Sample(c.src)
		out := sq.name(c.take(&outs))
		in := sq.name(c.take(&ins))
		sq.subOut[out] = minute
		sq.subIn[in] = minute

		c.subs = append(c.subs, pending{
			ev:    Substitution{EventBase: sq.base(minute), Out: out, In: in, Reason: c.subReason(minute)},
			side:  s,
			actor: out,
		})
	}
}

// take removes and returns a random element of pool.
func (c *composer) take(pool *[]int) int {
	p := *pool
	k := c.src.Intn(len(p))
	v := p[k]
	*pool = append(p[:k], p[k+1:]...)
	return v
}

func (c *composer) subReason(minute int) SubReason {
	if minute < 46 {
		return SubInjury
	}
	switch u := c.src.Float64(); {
	case u < 0.7:
		return SubTactical
	case u < 0.9:
		return SubFatigue
	}
	return SubInjury
}

func (c *composer) bookings(score [2]int) {
	total := drawPoisson(c.t.YellowCardMean, maxYellowCards, c.src)
	split := [2]int{total / 2, total / 2}
	if total%2 == 1 {
		split[c.behind(score)]++
	}

	for _, s := range []side{homeSide, awaySide} {
		for k := 0; k < split[s]; k++ {
			c.yellow(s)
		}
	}

	if c.src.Bool(c.t.StraightRedRate) {
		c.straightRed()
	}
}

// behind is the losing side, or a coin flip when level.
func (c *composer) behind(score [2]int) side {
	switch {
	case score[homeSide] < score[awaySide]:
		return homeSide
	case score[awaySide] < score[homeSide]:
		return awaySide
	}
	return side(c.src.Intn(2))
}

func (c *composer) yellow(s side) {
	sq := c.squads[s]
	minute := CardMinutes.Sample(c.src)
	pool := sq.eligible(minute, func(i int) bool {
		_, booked := sq.booked[sq.name(i)]
		_, off := sq.sentOff[sq.name(i)]
		return sq.cats[i] != CategoryGK && !booked && !off
	})
	if len(pool) == 0 {
		return
	}

	i := pool[c.src.Intn(len(pool))]
	name := sq.name(i)
	sq.booked[name] = minute
	c.cards = append(c.cards, pending{
		ev:    YellowCard{EventBase: sq.base(minute), Player: name, Reason: c.yellowReason(minute)},
		side:  s,
		actor: name,
	})

	if !c.src.Bool(c.t.SecondYellowRate) {
		return
	}
	redAt := min(90, minute+c.src.Between(c.t.SecondYellowMinGap, c.t.SecondYellowMaxGap))
	if _, planned := sq.subOut[name]; planned || !sq.onPitch(i, redAt) {
		return
	}
	delete(sq.booked, name)
	c.sendOff(s, name, redAt, ReasonSecondYellow)
}

func (c *composer) yellowReason(minute int) CardReason {
	u := c.src.Float64()
	switch {
	case minute > 80 && u < 0.3:
		return ReasonTimeWasting
	case u < 0.8:
		return ReasonFoul
	}
	return ReasonDissent
}

// straightRed sends off one outfielder of a random side. Players due to be
// substituted and players booked after the red minute are skipped.
func (c *composer) straightRed() {
	s := side(c.src.Intn(2))
	sq := c.squads[s]
	minute := CardMinutes.Sample(c.src)
	pool := sq.eligible(minute, func(i int) bool {
		name := sq.name(i)
		_, off := sq.sentOff[name]
		_, planned := sq.subOut[name]
		if sq.cats[i] == CategoryGK || off || planned {
			return false
		}
		y, booked := sq.booked[name]
		return !booked || y <= minute
	})
	if len(pool) == 0 {
		return
	}

	reason := ReasonSeriousFoul
	if c.src.Bool(0.5) {
		reason = ReasonProfessionalFoul
	}
	c.sendOff(s, sq.name(pool[c.src.Intn(len(pool))]), minute, reason)
}

func (c *composer) sendOff(s side, name string, minute int, reason CardReason) {
	sq := c.squads[s]
	sq.sentOff[name] = minute
	c.cards = append(c.cards, pending{
		ev:    RedCard{EventBase: sq.base(minute), Player: name, Reason: reason},
		side:  s,
		actor: name,
	})
}

// ownGoal may turn one goal of a side into an own goal by one of its
// defenders, credited to the opponent. It returns the credited side.
func (c *composer) ownGoal(tally *[2]int) (side, bool) {
	p := clamp(
		c.t.OwnGoalBase+c.t.OwnGoalPerGoal*float64(tally[homeSide]+tally[awaySide]),
		c.t.OwnGoalMin, c.t.OwnGoalMax,
	)
	if !c.src.Bool(p) {
		return 0, false
	}

	conceding := side(c.src.Intn(2))
	if tally[conceding] == 0 {
		return 0, false
	}
	minute := GoalMinutes.Sample(c.src)
	sq := c.squads[conceding]
	defenders := sq.eligible(minute, func(i int) bool { return sq.cats[i] == CategoryDEF })
	if len(defenders) == 0 {
		return 0, false
	}

	name := sq.name(defenders[c.src.Intn(len(defenders))])
	benefit := conceding.other()
	tally[conceding]--
	tally[benefit]++

	c.goals = append(c.goals, pending{
		ev:    Goal{EventBase: c.squads[benefit].base(minute), Scorer: name, Detail: DetailOwnGoal},
		side:  conceding,
		actor: name,
	})
	return benefit, true
}

func (c *composer) scoreGoals(s side, n int) {
	sq := c.squads[s]
	if len(sq.team.Players) == 0 {
		return
	}

	for k := 0; k < n; k++ {
		minute := GoalMinutes.Sample(c.src)
		onField := sq.eligible(minute, nil)
		if len(onField) == 0 {
			// the first starter is always on the pitch at kick-off
			minute = 1
			onField = sq.eligible(minute, nil)
		}

		scorer := c.pickScorer(sq, onField)
		detail := c.goalDetail()
		var assist string
		if detail == DetailPenalty {
			scorer = penaltyTaker(sq, onField, scorer)
		} else if c.src.Bool(c.t.AssistRate) {
			assist = c.pickAssist(sq, onField, scorer)
		}

		name := sq.name(scorer)
		c.goals = append(c.goals, pending{
			ev:    Goal{EventBase: sq.base(minute), Scorer: name, Assist: assist, Detail: detail},
			side:  s,
			actor: name,
		})
	}
}

// pickScorer samples a position group from the scorer weights, renormalised
// over the groups present in pool, then a player uniformly within the group.
func (c *composer) pickScorer(sq *squad, pool []int) int {
	present := make(map[Group][]int)
	for _, i := range pool {
		present[sq.groups[i]] = append(present[sq.groups[i]], i)
	}

	total := 0.0
	for _, g := range groupOrder {
		if len(present[g]) > 0 {
			total += c.t.ScorerWeights[string(g)]
		}
	}
	if total <= 0 {
		return pool[c.src.Intn(len(pool))]
	}

	u := c.src.Float64() * total
	var last []int
	for _, g := range groupOrder {
		members, w := present[g], c.t.ScorerWeights[string(g)]
		if len(members) == 0 || w <= 0 {
			continue
		}
		last = members
		if u < w {
			break
		}
		u -= w
	}
	return last[c.src.Intn(len(last))]
}

func (c *composer) pickAssist(sq *squad, pool []int, scorer int) string {
	var creative []int
	for _, i := range pool {
		if i != scorer && sq.groups[i].creative() && sq.name(i) != sq.name(scorer) {
			creative = append(creative, i)
		}
	}
	if len(creative) == 0 {
		return ""
	}
	return sq.name(creative[c.src.Intn(len(creative))])
}

func (c *composer) goalDetail() GoalDetail {
	u := c.src.Float64()
	switch {
	case u < c.t.OpenPlayRate:
		return DetailOpenPlay
	case u < c.t.OpenPlayRate+c.t.SetPieceRate:
		return DetailSetPiece
	case u < c.t.OpenPlayRate+c.t.SetPieceRate+c.t.CounterRate:
		return DetailCounter
	}
	return DetailPenalty
}

// penaltyTaker prefers the most valuable striker or attacking midfielder on
// the pitch, then the most valuable outfielder.
func penaltyTaker(sq *squad, pool []int, scorer int) int {
	best := func(keep func(i int) bool) int {
		pick, top := -1, -1.0
		for _, i := range pool {
			if !keep(i) {
				continue
			}
			if v := marketValueOf(sq.team.Players[i]); v > top {
				pick, top = i, v
			}
		}
		return pick
	}

	if i := best(func(i int) bool { return sq.groups[i] == GroupST || sq.groups[i] == GroupAM }); i >= 0 {
		return i
	}
	if i := best(func(i int) bool { return sq.cats[i] != CategoryGK }); i >= 0 {
		return i
	}
	return scorer
}

func marketValueOf(p PlayerInput) float64 {
	if p.MarketValue == nil {
		return 0
	}
	return *p.MarketValue
}

// filter drops goals and cards by a player after they left the pitch, and
// substitutions of a player already sent off.
func (c *composer) filter(pool []pending) []pending {
	kept := make([]pending, 0, len(pool))
	for _, p := range pool {
		sq := c.squads[p.side]
		m := p.ev.Base().Minute
		out, subbed := sq.subOut[p.actor]

		switch p.ev.(type) {
		case Substitution:
			if red, ok := sq.sentOff[p.actor]; ok && red <= m {
				continue
			}
		case RedCard:
			if subbed && m > out {
				continue
			}
		default:
			if subbed && m > out {
				continue
			}
			if red, ok := sq.sentOff[p.actor]; ok && m > red {
				continue
			}
		}
		kept = append(kept, p)
	}
	return kept
}
