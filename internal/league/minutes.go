package league

import "github.com/utakatalp/league-engine/internal/rng"

type minuteBucket struct {
	below    float64 // cumulative probability upper bound
	from, to int
}

// MinuteProfile is a piecewise-uniform distribution over [1,90].
type MinuteProfile []minuteBucket

var (
	// GoalMinutes weighs 16–30' and the last half hour.
	GoalMinutes = MinuteProfile{
		{0.08, 1, 15},
		{0.30, 16, 30},
		{0.45, 31, 45},
		{0.60, 46, 60},
		{1.00, 61, 90},
	}

	CardMinutes = MinuteProfile{
		{0.05, 1, 15},
		{0.25, 16, 30},
		{0.40, 31, 45},
		{0.55, 46, 60},
		{1.00, 61, 90},
	}

	// SubstitutionMinutes is mostly 55–85'; first-half changes are rare.
	SubstitutionMinutes = MinuteProfile{
		{0.05, 1, 45},
		{0.15, 46, 54},
		{0.90, 55, 85},
		{1.00, 86, 90},
	}
)

// Sample picks a bucket with one uniform and a minute inside it with another.
func (p MinuteProfile) Sample(src *rng.Source) int {
	u := src.Float64()
	for _, b := range p {
		if u < b.below {
			return src.Between(b.from, b.to)
		}
	}
	last := p[len(p)-1]
	return src.Between(last.from, last.to)
}
