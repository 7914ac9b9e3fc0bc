package league

import (
	"math"

	"github.com/utakatalp/league-engine/internal/rng"
)

// PoissonPMF is P(k; λ), computed in log space with a running log-factorial.
func PoissonPMF(k int, lambda float64) float64 {
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	logP := -lambda + float64(k)*math.Log(lambda)
	for i := 2; i <= k; i++ {
		logP -= math.Log(float64(i))
	}
	return math.Exp(logP)
}

// SamplePoisson draws a goal count by inverting the cumulative distribution
// over 0..MaxGoals with a single uniform from src.
func SamplePoisson(lambda float64, src *rng.Source, g GoalModel) int {
	if lambda < g.MinLambda {
		return 0
	}
	return drawPoisson(math.Min(lambda, g.MaxLambda), g.MaxGoals, src)
}

// drawPoisson draws one uniform u and returns the first k in [0,maxK] whose
// cumulative probability reaches u. The tail beyond maxK falls back to floor(λ).
func drawPoisson(lambda float64, maxK int, src *rng.Source) int {
	u := src.Float64()
	cdf := 0.0
	for k := 0; k <= maxK; k++ {
		cdf += PoissonPMF(k, lambda)
		if u <= cdf {
			return k
		}
	}
	return min(maxK, int(math.Floor(lambda)))
}
