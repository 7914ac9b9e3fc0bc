package league

import "math"

// ExpectedGoals converts two teams' ratings into the Poisson rates of a match,
// home side first. Both rates are clamped to [MinLambda, MaxLambda] and rounded
// to two decimals.
func ExpectedGoals(home, away TeamRatings, g GoalModel) (xgHome, xgAway float64) {
	// 1) home advantage on power, away power floored
	homePower := home.Power + g.HomePowerBonus
	awayPower := math.Max(g.AwayPowerFloor, away.Power-g.AwayPowerPenalty)

	// 2) attack/defense bias per side
	atkHome := home.Attack / 50 * g.HomeAttackMultiplier
	atkAway := away.Attack / 50 * g.AwayAttackMultiplier
	defHome := nonZero(home.Defense / 50)
	defAway := nonZero(away.Defense / 50 * g.AwayDefenseDiscount)

	// 3) combine with league base rates
	lambdaHome := g.BaseHomeRate * atkHome / defAway * (homePower + 10) / (awayPower + 10)
	lambdaAway := g.BaseAwayRate * atkAway / defHome * (awayPower + 10) / (homePower + 10)

	return round(clamp(lambdaHome, g.MinLambda, g.MaxLambda), 2),
		round(clamp(lambdaAway, g.MinLambda, g.MaxLambda), 2)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// nonZero keeps a zero defense rating from dividing by zero; the clamp then
// caps the resulting rate.
func nonZero(x float64) float64 {
	if x <= 0 {
		return 1e-6
	}
	return x
}
