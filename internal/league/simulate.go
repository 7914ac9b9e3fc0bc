package league

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utakatalp/league-engine/internal/rng"
)

// runNamespace scopes deterministic run ids.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/utakatalp/league-engine/runs"))

// Option configures a simulation.
type Option func(*settings)

type settings struct {
	tuning    Tuning
	scheduler Scheduler
	workers   int
	logger    *slog.Logger
	now       func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{
		tuning:    DefaultTuning(),
		scheduler: SchedulerChunked,
		workers:   runtime.NumCPU(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithTuning(t Tuning) Option {
	return func(s *settings) { s.tuning = t }
}

func WithScheduler(sch Scheduler) Option {
	return func(s *settings) { s.scheduler = sch }
}

// WithWorkers bounds how many matches are simulated at once. n < 1 means one.
func WithWorkers(n int) Option {
	return func(s *settings) { s.workers = max(1, n) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for match dates and the result timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// ResolveSeed returns the request's seed, or one derived from the league id,
// season and sorted team ids so that team order does not matter.
func ResolveSeed(req SimulateRequest) string {
	if req.Seed != "" {
		return req.Seed
	}
	season := req.Season
	if season == "" {
		season = "default"
	}
	ids := make([]string, len(req.Teams))
	for i, t := range req.Teams {
		ids[i] = t.ID
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s-%s-%s", req.LeagueID, season, strings.Join(ids, ","))
}

// MatchID is the deterministic id of a fixture.
func MatchID(leagueID, season string, round int, homeID, awayID string) string {
	return rng.HashHex(fmt.Sprintf("%s|%s|%d|%s|%s", leagueID, season, round, homeID, awayID))
}

// MatchSide is one team with its precomputed ratings.
type MatchSide struct {
	Team    TeamInput
	Ratings TeamRatings
}

// SimulateMatch plays one fixture from src: expected goals, sampled score,
// then the event timeline. Id, round and date are left to the caller.
func SimulateMatch(home, away MatchSide, src *rng.Source, t Tuning) MatchResult {
	xgHome, xgAway := ExpectedGoals(home.Ratings, away.Ratings, t.Goals)
	homeGoals := SamplePoisson(xgHome, src, t.Goals)
	awayGoals := SamplePoisson(xgAway, src, t.Goals)

	composed := ComposeEvents(home.Team, away.Team, homeGoals, awayGoals, src, t.Events)

	winner := WinnerDraw
	switch {
	case composed.HomeScore > composed.AwayScore:
		winner = WinnerHome
	case composed.AwayScore > composed.HomeScore:
		winner = WinnerAway
	}

	return MatchResult{
		Venue:      "home",
		HomeTeamID: home.Team.ID,
		HomeTeam:   home.Team.Name,
		AwayTeamID: away.Team.ID,
		AwayTeam:   away.Team.Name,
		HomeScore:  composed.HomeScore,
		AwayScore:  composed.AwayScore,
		XGHome:     xgHome,
		XGAway:     xgAway,
		Winner:     winner,
		Events:     composed.Events,
	}
}

// Simulate plays a full season. The result depends only on the request, the
// tuning and the clock; fixtures run concurrently, each on its own RNG.
func Simulate(ctx context.Context, req SimulateRequest, opts ...Option) (*SimulationResult, error) {
	s := newSettings(opts)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}
	if err := s.tuning.Validate(); err != nil {
		return nil, fmt.Errorf("validating tuning: %w", err)
	}

	start := time.Now()
	res, err := simulateSeason(ctx, req, ResolveSeed(req), s)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("league simulated",
		"league", res.LeagueID,
		"seed", res.Seed,
		"matches", res.TotalMatches,
		"champion", res.Champion().TeamID,
		"took", time.Since(start),
	)
	return res, nil
}

// simulateSeason expects a validated request.
func simulateSeason(ctx context.Context, req SimulateRequest, seed string, s settings) (*SimulationResult, error) {
	// 1) ratings, once per team
	median := LeagueMedianMarketValue(req.Teams, s.tuning.Ratings)
	sides := make(map[string]MatchSide, len(req.Teams))
	powers := make([]TeamPower, len(req.Teams))
	for i, t := range req.Teams {
		r := ComputeRatings(t, median, s.tuning.Ratings)
		sides[t.ID] = MatchSide{Team: t, Ratings: r}
		powers[i] = TeamPower{TeamID: t.ID, TeamName: t.Name, TeamRatings: r}
	}

	// 2) fixtures
	fixtures := BuildFixtures(req.Teams, req.Fixtures, s.scheduler)

	// 3) matches on a bounded pool; every worker writes only its own slots
	now := s.now().UTC()
	kickoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	matches := make([]MatchResult, len(fixtures))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, max(1, len(fixtures))); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f := fixtures[i]
				src := rng.NewFromString(rng.MatchSeed(seed, i))
				m := SimulateMatch(sides[f.HomeTeamID], sides[f.AwayTeamID], src, s.tuning)
				m.MatchID = MatchID(req.LeagueID, req.Season, f.Round, f.HomeTeamID, f.AwayTeamID)
				m.Round = f.Round
				m.Date = kickoff.AddDate(0, 0, 7*(f.Round-1))
				matches[i] = m
			}
		}()
	}

	var cancelled error
	for i := range fixtures {
		if err := ctx.Err(); err != nil {
			cancelled = err
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	if cancelled != nil {
		return nil, fmt.Errorf("simulating %s: %w", req.LeagueID, cancelled)
	}

	// 4) table and leaders
	name := req.LeagueName
	if name == "" {
		name = req.LeagueID
	}
	return &SimulationResult{
		RunID:        runID(req, seed, s),
		Seed:         seed,
		LeagueID:     req.LeagueID,
		LeagueName:   name,
		Season:       req.Season,
		TotalMatches: len(matches),
		SimulatedAt:  now,
		TeamPowers:   powers,
		Matches:      matches,
		Standings:    ComputeStandings(matches, powers),
		Scorers:      TopScorers(matches, leaderLimit),
		Assists:      TopAssists(matches, leaderLimit),
	}, nil
}

// RunID names the result Simulate would return for req and opts. It covers
// everything that determines the outcome: seed, request, tuning and
// scheduler. Equal inputs give equal ids.
func RunID(req SimulateRequest, opts ...Option) string {
	return runID(req, ResolveSeed(req), newSettings(opts))
}

func runID(req SimulateRequest, seed string, s settings) string {
	req.Seed = seed
	fingerprint, err := json.Marshal(struct {
		Request   SimulateRequest `json:"request"`
		Tuning    Tuning          `json:"tuning"`
		Scheduler Scheduler       `json:"scheduler"`
	}{req, s.tuning, s.scheduler})
	if err != nil {
		// plain data always encodes; fall back to the seed alone
		fingerprint = []byte(seed)
	}
	return uuid.NewSHA1(runNamespace, fingerprint).String()
}
