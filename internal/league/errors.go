package league

import (
	"errors"
	"fmt"
)

// Structural problems with a request. Simulate fails on the first one found.
var (
	ErrNoTeams       = errors.New("no teams")
	ErrEmptyRoster   = errors.New("team has no players")
	ErrDuplicateTeam = errors.New("duplicate team id")
	ErrUnknownTeam   = errors.New("fixture references unknown team")
	ErrSelfFixture   = errors.New("team cannot play itself")
)

// IsInvalidInput reports whether err comes from request or tuning validation.
func IsInvalidInput(err error) bool {
	for _, target := range []error{ErrNoTeams, ErrEmptyRoster, ErrDuplicateTeam, ErrUnknownTeam, ErrSelfFixture, errInvalidTuning} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Validate checks a request for the conditions every later stage assumes.
func (r SimulateRequest) Validate() error {
	if len(r.Teams) == 0 {
		return ErrNoTeams
	}

	seen := make(map[string]bool, len(r.Teams))
	for i, t := range r.Teams {
		if seen[t.ID] {
			return fmt.Errorf("team %d (%s): %w", i, t.ID, ErrDuplicateTeam)
		}
		seen[t.ID] = true
		if len(t.Players) == 0 {
			return fmt.Errorf("team %s: %w", t.ID, ErrEmptyRoster)
		}
	}

	for i, f := range r.Fixtures {
		if !seen[f.HomeTeamID] {
			return fmt.Errorf("fixture %d home %q: %w", i, f.HomeTeamID, ErrUnknownTeam)
		}
		if !seen[f.AwayTeamID] {
			return fmt.Errorf("fixture %d away %q: %w", i, f.AwayTeamID, ErrUnknownTeam)
		}
		if f.HomeTeamID == f.AwayTeamID {
			return fmt.Errorf("fixture %d (%s): %w", i, f.HomeTeamID, ErrSelfFixture)
		}
	}
	return nil
}
