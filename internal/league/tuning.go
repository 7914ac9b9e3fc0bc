package league

import (
	"errors"
	"fmt"
)

// Tuning collects every constant of the scoring model. DefaultTuning returns
// the calibrated values; files loaded by internal/config override them.
type Tuning struct {
	Ratings RatingTuning `json:"ratings" yaml:"ratings"`
	Goals   GoalModel    `json:"goals" yaml:"goals"`
	Events  EventTuning  `json:"events" yaml:"events"`
}

// RatingTuning drives the roster → TeamRatings conversion.
type RatingTuning struct {
	// Logistic market value curve: 100 / (1 + exp(-(log10(v) - Midpoint) * Steepness))
	Midpoint  float64 `json:"midpoint" yaml:"midpoint"`
	Steepness float64 `json:"steepness" yaml:"steepness"`
	Floor     float64 `json:"floor" yaml:"floor"`
	Ceiling   float64 `json:"ceiling" yaml:"ceiling"`

	// Share of an explicit overall rating in a player's effective score
	OverallBlend float64 `json:"overallBlend" yaml:"overallBlend"`

	// Used when no team supplies any market value
	DefaultMarketValue float64 `json:"defaultMarketValue" yaml:"defaultMarketValue"`

	// Rating of a position category with no players
	NeutralRating float64 `json:"neutralRating" yaml:"neutralRating"`

	AttackWeight   float64 `json:"attackWeight" yaml:"attackWeight"`
	MidfieldWeight float64 `json:"midfieldWeight" yaml:"midfieldWeight"`
	DefenseWeight  float64 `json:"defenseWeight" yaml:"defenseWeight"`
	KeeperWeight   float64 `json:"keeperWeight" yaml:"keeperWeight"`
}

// GoalModel drives expected goals and the Poisson score sampler.
type GoalModel struct {
	HomePowerBonus   float64 `json:"homePowerBonus" yaml:"homePowerBonus"`
	AwayPowerPenalty float64 `json:"awayPowerPenalty" yaml:"awayPowerPenalty"`
	AwayPowerFloor   float64 `json:"awayPowerFloor" yaml:"awayPowerFloor"`

	HomeAttackMultiplier float64 `json:"homeAttackMultiplier" yaml:"homeAttackMultiplier"`
	AwayAttackMultiplier float64 `json:"awayAttackMultiplier" yaml:"awayAttackMultiplier"`
	AwayDefenseDiscount  float64 `json:"awayDefenseDiscount" yaml:"awayDefenseDiscount"`

	BaseHomeRate float64 `json:"baseHomeRate" yaml:"baseHomeRate"`
	BaseAwayRate float64 `json:"baseAwayRate" yaml:"baseAwayRate"`

	MinLambda float64 `json:"minLambda" yaml:"minLambda"`
	MaxLambda float64 `json:"maxLambda" yaml:"maxLambda"`
	MaxGoals  int     `json:"maxGoals" yaml:"maxGoals"`
}

// EventTuning drives the minute-by-minute timeline.
type EventTuning struct {
	OwnGoalBase    float64 `json:"ownGoalBase" yaml:"ownGoalBase"`
	OwnGoalPerGoal float64 `json:"ownGoalPerGoal" yaml:"ownGoalPerGoal"`
	OwnGoalMin     float64 `json:"ownGoalMin" yaml:"ownGoalMin"`
	OwnGoalMax     float64 `json:"ownGoalMax" yaml:"ownGoalMax"`

	// Keyed by position group (ST, LW, RW, AM, CM, DM, CB, LB, RB, WB, GK)
	ScorerWeights map[string]float64 `json:"scorerWeights" yaml:"scorerWeights"`
	AssistRate    float64            `json:"assistRate" yaml:"assistRate"`

	// Penalty takes whatever probability is left
	OpenPlayRate float64 `json:"openPlayRate" yaml:"openPlayRate"`
	SetPieceRate float64 `json:"setPieceRate" yaml:"setPieceRate"`
	CounterRate  float64 `json:"counterRate" yaml:"counterRate"`

	YellowCardMean     float64 `json:"yellowCardMean" yaml:"yellowCardMean"`
	SecondYellowRate   float64 `json:"secondYellowRate" yaml:"secondYellowRate"`
	SecondYellowMinGap int     `json:"secondYellowMinGap" yaml:"secondYellowMinGap"`
	SecondYellowMaxGap int     `json:"secondYellowMaxGap" yaml:"secondYellowMaxGap"`
	StraightRedRate    float64 `json:"straightRedRate" yaml:"straightRedRate"`

	MinSubstitutions int `json:"minSubstitutions" yaml:"minSubstitutions"`
	MaxSubstitutions int `json:"maxSubstitutions" yaml:"maxSubstitutions"`
	StartingPlayers  int `json:"startingPlayers" yaml:"startingPlayers"`
}

// DefaultTuning returns the heuristic model the engine ships with.
func DefaultTuning() Tuning {
	return Tuning{
		Ratings: RatingTuning{
			Midpoint:           6.5, // ≈ €3M
			Steepness:          1.15,
			Floor:              20,
			Ceiling:            100,
			OverallBlend:       0.30,
			DefaultMarketValue: 5_000_000,
			NeutralRating:      50,
			AttackWeight:       0.30,
			MidfieldWeight:     0.30,
			DefenseWeight:      0.30,
			KeeperWeight:       0.10,
		},
		Goals: GoalModel{
			HomePowerBonus:       5,
			AwayPowerPenalty:     4,
			AwayPowerFloor:       10,
			HomeAttackMultiplier: 1.12,
			AwayAttackMultiplier: 0.88,
			AwayDefenseDiscount:  0.95,
			BaseHomeRate:         1.40,
			BaseAwayRate:         0.95,
			MinLambda:            0.1,
			MaxLambda:            3.5,
			MaxGoals:             10,
		},
		Events: EventTuning{
			OwnGoalBase:    0.035,
			OwnGoalPerGoal: 0.005,
			OwnGoalMin:     0.04,
			OwnGoalMax:     0.06,
			ScorerWeights: map[string]float64{
				string(GroupST): 0.38,
				string(GroupLW): 0.10,
				string(GroupRW): 0.10,
				string(GroupAM): 0.10,
				string(GroupCM): 0.05,
				string(GroupCB): 0.03,
				string(GroupDM): 0.02,
				string(GroupLB): 0.015,
				string(GroupRB): 0.015,
				string(GroupWB): 0.015,
				string(GroupGK): 0,
			},
			AssistRate:         0.30,
			OpenPlayRate:       0.70,
			SetPieceRate:       0.12,
			CounterRate:        0.10,
			YellowCardMean:     3.2,
			SecondYellowRate:   0.06,
			SecondYellowMinGap: 10,
			SecondYellowMaxGap: 40,
			StraightRedRate:    0.015,
			MinSubstitutions:   3,
			MaxSubstitutions:   6,
			StartingPlayers:    11,
		},
	}
}

var errInvalidTuning = errors.New("invalid tuning")

// Validate rejects parameter sets the samplers cannot work with.
func (t Tuning) Validate() error {
	r, g, e := t.Ratings, t.Goals, t.Events

	if r.Steepness <= 0 {
		return fmt.Errorf("%w: ratings.steepness must be positive", errInvalidTuning)
	}
	if r.Floor > r.Ceiling {
		return fmt.Errorf("%w: ratings.floor above ratings.ceiling", errInvalidTuning)
	}
	if !isProbability(r.OverallBlend) {
		return fmt.Errorf("%w: ratings.overallBlend must be in [0,1]", errInvalidTuning)
	}
	if r.DefaultMarketValue <= 0 {
		return fmt.Errorf("%w: ratings.defaultMarketValue must be positive", errInvalidTuning)
	}
	if r.AttackWeight+r.MidfieldWeight+r.DefenseWeight+r.KeeperWeight <= 0 {
		return fmt.Errorf("%w: rating weights sum to zero", errInvalidTuning)
	}

	if g.MinLambda <= 0 || g.MinLambda >= g.MaxLambda {
		return fmt.Errorf("%w: goals.minLambda must be positive and below goals.maxLambda", errInvalidTuning)
	}
	if g.MaxGoals < 1 {
		return fmt.Errorf("%w: goals.maxGoals must be at least 1", errInvalidTuning)
	}
	if g.BaseHomeRate <= 0 || g.BaseAwayRate <= 0 {
		return fmt.Errorf("%w: base goal rates must be positive", errInvalidTuning)
	}
	if g.AwayDefenseDiscount <= 0 {
		return fmt.Errorf("%w: goals.awayDefenseDiscount must be positive", errInvalidTuning)
	}

	if e.OwnGoalMin > e.OwnGoalMax || !isProbability(e.OwnGoalMin) || !isProbability(e.OwnGoalMax) {
		return fmt.Errorf("%w: own goal bounds must be ordered probabilities", errInvalidTuning)
	}
	for _, p := range []float64{e.AssistRate, e.SecondYellowRate, e.StraightRedRate} {
		if !isProbability(p) {
			return fmt.Errorf("%w: event rates must be in [0,1]", errInvalidTuning)
		}
	}
	if e.OpenPlayRate+e.SetPieceRate+e.CounterRate > 1 {
		return fmt.Errorf("%w: goal detail rates exceed 1", errInvalidTuning)
	}
	for group, w := range e.ScorerWeights {
		if w < 0 {
			return fmt.Errorf("%w: negative scorer weight for %s", errInvalidTuning, group)
		}
	}
	if e.SecondYellowMinGap < 0 || e.SecondYellowMinGap > e.SecondYellowMaxGap {
		return fmt.Errorf("%w: second yellow gap bounds out of order", errInvalidTuning)
	}
	if e.MinSubstitutions < 0 || e.MinSubstitutions > e.MaxSubstitutions {
		return fmt.Errorf("%w: substitution bounds out of order", errInvalidTuning)
	}
	if e.StartingPlayers < 1 {
		return fmt.Errorf("%w: events.startingPlayers must be at least 1", errInvalidTuning)
	}
	return nil
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
