package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeason(t *testing.T) {
	var out bytes.Buffer
	err := runSeason(context.Background(), []string{"-events", "-workers", "2", "testdata/league.yaml"}, &out)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "✓ Simulated Anatolia League: 12 matches")
	assert.Contains(t, s, `seed "anatolia-2025"`)
	assert.Contains(t, s, "Week 1 (")
	assert.Contains(t, s, "Week 6 (")
	assert.Contains(t, s, "Final table")
	assert.Contains(t, s, "Top scorers")
	assert.Contains(t, s, "Top assists")
	assert.Contains(t, s, "🏆 Champion:")
	for _, team := range []string{"Istanbul Lions", "Ankara Eagles", "Izmir Waves", "Bursa Crocodiles"} {
		assert.Contains(t, s, team)
	}
	assert.NotContains(t, s, "Title odds")
}

func TestRunSeasonIsReproducible(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, runSeason(context.Background(), []string{"-scheduler", "circle", "testdata/league.yaml"}, &a))
	require.NoError(t, runSeason(context.Background(), []string{"-scheduler", "circle", "-workers", "1", "testdata/league.yaml"}, &b))

	// dates follow the wall clock, everything else is fixed by the seed
	strip := func(s string) string {
		var keep []string
		for _, line := range strings.Split(s, "\n") {
			if !strings.HasPrefix(line, "Week ") {
				keep = append(keep, line)
			}
		}
		return strings.Join(keep, "\n")
	}
	assert.Equal(t, strip(a.String()), strip(b.String()))
}

func TestRunSeasonWithOdds(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runSeason(context.Background(), []string{"-odds", "20", "-seed", "other", "testdata/league.yaml"}, &out))
	assert.Contains(t, out.String(), "Title odds over 20 seasons:")
	assert.Contains(t, out.String(), `seed "other"`)
}

func TestRunSeasonErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	assert.Error(t, runSeason(ctx, nil, &out), "missing file")
	assert.Error(t, runSeason(ctx, []string{"testdata/missing.yaml"}, &out))
	assert.ErrorContains(t, runSeason(ctx, []string{"-scheduler", "swiss", "testdata/league.yaml"}, &out), "unknown scheduler")
	assert.Error(t, runSeason(ctx, []string{"-bogus", "testdata/league.yaml"}, &out))
}
