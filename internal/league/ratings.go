package league

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// LeagueMedianMarketValue is the fallback value for players without one: the
// middle element of every positive market value in the league, sorted.
func LeagueMedianMarketValue(teams []TeamInput, t RatingTuning) float64 {
	var values []float64
	for _, team := range teams {
		for _, p := range team.Players {
			if p.MarketValue != nil && *p.MarketValue > 0 {
				values = append(values, *p.MarketValue)
			}
		}
	}
	if len(values) == 0 {
		return t.DefaultMarketValue
	}
	sort.Float64s(values)
	return values[len(values)/2]
}

// ScaleMarketValue maps a market value onto [Floor, Ceiling] with a logistic
// curve in log10 space. Non-positive values get the floor.
func ScaleMarketValue(value float64, t RatingTuning) float64 {
	if value <= 0 {
		return t.Floor
	}
	scaled := 100 / (1 + math.Exp(-(math.Log10(value)-t.Midpoint)*t.Steepness))
	return math.Max(t.Floor, math.Min(t.Ceiling, scaled))
}

// EffectiveScore is a single player's strength before category averaging.
func EffectiveScore(p PlayerInput, median float64, t RatingTuning) float64 {
	value := median
	if p.MarketValue != nil {
		value = *p.MarketValue
	}
	score := ScaleMarketValue(value, t)

	if p.Overall != nil && *p.Overall >= 0 && *p.Overall <= 100 {
		score = (1-t.OverallBlend)*score + t.OverallBlend*(*p.Overall)
	}
	return score
}

// ComputeRatings turns a roster into TeamRatings. The result does not depend
// on the order of team.Players.
func ComputeRatings(team TeamInput, median float64, t RatingTuning) TeamRatings {
	byCategory := make(map[Category][]float64, 4)
	for _, p := range team.Players {
		c := ClassifyPosition(p.Position)
		byCategory[c] = append(byCategory[c], EffectiveScore(p, median, t))
	}

	mean := func(c Category) float64 {
		scores := byCategory[c]
		if len(scores) == 0 {
			return t.NeutralRating
		}
		// summing in sorted order keeps float rounding order-independent
		sort.Float64s(scores)
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		return sum / float64(len(scores))
	}

	keeper := mean(CategoryGK)
	defense := mean(CategoryDEF)
	midfield := mean(CategoryMID)
	attack := mean(CategoryATT)
	power := t.AttackWeight*attack +
		t.MidfieldWeight*midfield +
		t.DefenseWeight*defense +
		t.KeeperWeight*keeper

	return TeamRatings{
		Keeper:   round(keeper, 1),
		Defense:  round(defense, 1),
		Midfield: round(midfield, 1),
		Attack:   round(attack, 1),
		Power:    round(power, 1),
	}
}

// round rounds half away from zero to the given number of decimal places.
func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
