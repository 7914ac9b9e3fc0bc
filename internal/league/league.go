package league

import (
	"fmt"
	"time"
)

// PlayerInput is one squad member as supplied by the roster workflow.
type PlayerInput struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Position    string   `json:"position" yaml:"position"`
	MarketValue *float64 `json:"marketValue,omitempty" yaml:"marketValue,omitempty"`
	Age         *int     `json:"age,omitempty" yaml:"age,omitempty"`
	Nationality []string `json:"nationality,omitempty" yaml:"nationality,omitempty"`
	Overall     *float64 `json:"overall,omitempty" yaml:"overall,omitempty"`
}

// TeamInput represents a club in the league.
type TeamInput struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name"`
	Formation string        `json:"formation,omitempty" yaml:"formation,omitempty"`
	Players   []PlayerInput `json:"players" yaml:"players"`
}

// FixtureInput is a caller-supplied pairing; rounds are assigned by the engine.
type FixtureInput struct {
	HomeTeamID string `json:"homeTeamId" yaml:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId" yaml:"awayTeamId"`
}

// SimulateRequest is the whole input of one season simulation.
type SimulateRequest struct {
	LeagueID   string         `json:"leagueId" yaml:"leagueId"`
	LeagueName string         `json:"leagueName,omitempty" yaml:"leagueName,omitempty"`
	Season     string         `json:"season,omitempty" yaml:"season,omitempty"`
	Seed       string         `json:"seed,omitempty" yaml:"seed,omitempty"`
	Fixtures   []FixtureInput `json:"fixtures,omitempty" yaml:"fixtures,omitempty"`
	Teams      []TeamInput    `json:"teams" yaml:"teams"`
}

// TeamRatings are the calibrated strengths of a squad, each roughly in [0,100].
type TeamRatings struct {
	Keeper   float64 `json:"keeperRating"`
	Defense  float64 `json:"defenseRating"`
	Midfield float64 `json:"midfieldRating"`
	Attack   float64 `json:"attackRating"`
	Power    float64 `json:"powerRating"`
}

// TeamPower echoes a team's ratings in the result bundle.
type TeamPower struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
	TeamRatings
}

// Fixture represents a scheduled match between two teams.
type Fixture struct {
	HomeTeamID string `json:"homeTeamId"`
	AwayTeamID string `json:"awayTeamId"`
	Round      int    `json:"round"`
}

// Winner is the outcome of a match from the home side's point of view.
type Winner string

const (
	WinnerHome Winner = "HOME"
	WinnerAway Winner = "AWAY"
	WinnerDraw Winner = "DRAW"
)

// MatchResult is one played fixture with its timeline.
type MatchResult struct {
	MatchID    string    `json:"matchId"`
	Round      int       `json:"round"`
	Date       time.Time `json:"date"`
	Venue      string    `json:"venue"`
	HomeTeamID string    `json:"homeTeamId"`
	HomeTeam   string    `json:"homeTeam"`
	AwayTeamID string    `json:"awayTeamId"`
	AwayTeam   string    `json:"awayTeam"`
	HomeScore  int       `json:"homeScore"`
	AwayScore  int       `json:"awayScore"`
	XGHome     float64   `json:"xgHome"`
	XGAway     float64   `json:"xgAway"`
	Winner     Winner    `json:"winner"`
	Events     EventList `json:"events"`
}

// ScoreLine renders "Home 2 - 1 Away".
func (m *MatchResult) ScoreLine() string {
	return fmt.Sprintf("%s %d - %d %s",
		m.HomeTeam, m.HomeScore,
		m.AwayScore, m.AwayTeam,
	)
}

// StandingsRow holds the standings info for one team.
type StandingsRow struct {
	Rank         int     `json:"rank"`
	TeamID       string  `json:"teamId"`
	Team         string  `json:"team"`
	Played       int     `json:"played"`
	Won          int     `json:"won"`
	Drawn        int     `json:"drawn"`
	Lost         int     `json:"lost"`
	GoalsFor     int     `json:"goalsFor"`
	GoalsAgainst int     `json:"goalsAgainst"`
	GoalDiff     int     `json:"goalDiff"`
	Points       int     `json:"points"`
	PowerRating  float64 `json:"powerRating"`
}

// PlayerTally counts goals or assists for one player.
type PlayerTally struct {
	Player string `json:"playerName"`
	TeamID string `json:"teamId"`
	Team   string `json:"team"`
	Count  int    `json:"count"`
}

// SimulationResult is the immutable output bundle of a season.
type SimulationResult struct {
	RunID        string         `json:"runId"`
	Seed         string         `json:"seed"`
	LeagueID     string         `json:"leagueId"`
	LeagueName   string         `json:"leagueName"`
	Season       string         `json:"season,omitempty"`
	TotalMatches int            `json:"totalMatches"`
	SimulatedAt  time.Time      `json:"simulationDate"`
	TeamPowers   []TeamPower    `json:"teamPowers"`
	Matches      []MatchResult  `json:"results"`
	Standings    []StandingsRow `json:"standings"`
	Scorers      []PlayerTally  `json:"topScorers"`
	Assists      []PlayerTally  `json:"topAssists"`
}

// Champion returns the first-ranked row, or nil for an empty table.
func (r *SimulationResult) Champion() *StandingsRow {
	if len(r.Standings) == 0 {
		return nil
	}
	return &r.Standings[0]
}

// Prediction is a team's estimated title probability in percent.
type Prediction struct {
	TeamID      string  `json:"teamId"`
	Team        string  `json:"team"`
	Probability float64 `json:"probability"`
}
