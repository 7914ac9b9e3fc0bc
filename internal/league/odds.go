package league

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ChampionshipOdds plays the season runs times, run i seeded with
// "{seed}-run-{i}", and returns each team's share of titles in percent,
// highest first. Runs are spread over the configured workers.
func ChampionshipOdds(ctx context.Context, req SimulateRequest, runs int, opts ...Option) ([]Prediction, error) {
	if runs < 1 {
		return nil, errors.New("runs must be at least 1")
	}
	s := newSettings(opts)
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validating request: %w", err)
	}
	if err := s.tuning.Validate(); err != nil {
		return nil, fmt.Errorf("validating tuning: %w", err)
	}

	base := ResolveSeed(req)
	inner := s
	inner.workers = 1

	// 1) count titles per team id, one tally per worker
	workers := min(s.workers, runs)
	jobs := make(chan int)
	results := make(chan map[string]int, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins := make(map[string]int)
			for i := range jobs {
				res, err := simulateSeason(ctx, req, fmt.Sprintf("%s-run-%d", base, i), inner)
				if err != nil {
					errs <- err
					// keep draining so the producer never blocks
					for range jobs {
					}
					break
				}
				wins[res.Champion().TeamID]++
			}
			results <- wins
		}()
	}

	for i := 0; i < runs; i++ {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)
	close(errs)

	if err := <-errs; err != nil {
		return nil, fmt.Errorf("championship odds: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("championship odds: %w", err)
	}

	wins := make(map[string]int, len(req.Teams))
	for local := range results {
		for id, n := range local {
			wins[id] += n
		}
	}

	// 2) turn counts into probabilities
	preds := make([]Prediction, 0, len(req.Teams))
	for _, t := range req.Teams {
		p := float64(wins[t.ID]) / float64(runs) * 100
		preds = append(preds, Prediction{TeamID: t.ID, Team: t.Name, Probability: round(p, 2)})
	}

	// 3) sort descending by probability
	sort.SliceStable(preds, func(i, j int) bool {
		if preds[i].Probability != preds[j].Probability {
			return preds[i].Probability > preds[j].Probability
		}
		return preds[i].Team < preds[j].Team
	})
	return preds, nil
}
