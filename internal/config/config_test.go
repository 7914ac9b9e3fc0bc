package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-engine/internal/league"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"LEAGUESIM_ADDR", "DATABASE_DRIVER", "DATABASE_URL", "REDIS_URL", "REDIS_PASSWORD",
		"LEAGUESIM_CACHE_TTL", "LEAGUESIM_TUNING_FILE", "LEAGUESIM_SCHEDULER", "LEAGUESIM_WORKERS",
		"LEAGUESIM_ODDS_RUNS", "LEAGUESIM_MAX_ODDS_RUNS", "LEAGUESIM_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "postgres", c.DatabaseDriver)
	assert.Empty(t, c.RedisURL)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.Equal(t, league.SchedulerChunked, c.Scheduler)
	assert.Equal(t, 0, c.Workers)
	assert.Equal(t, 200, c.OddsRuns)
	assert.Equal(t, slog.LevelInfo, c.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEAGUESIM_ADDR", ":9000")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("REDIS_URL", "localhost:6379")
	t.Setenv("LEAGUESIM_CACHE_TTL", "90s")
	t.Setenv("LEAGUESIM_SCHEDULER", "circle")
	t.Setenv("LEAGUESIM_WORKERS", "3")
	t.Setenv("LEAGUESIM_LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Addr)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, "localhost:6379", c.RedisURL)
	assert.Equal(t, 90*time.Second, c.CacheTTL)
	assert.Equal(t, league.SchedulerCircle, c.Scheduler)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := map[string]string{
		"LEAGUESIM_CACHE_TTL": "soon",
		"LEAGUESIM_SCHEDULER": "swiss",
		"LEAGUESIM_WORKERS":   "-2",
		"LEAGUESIM_ODDS_RUNS": "many",
		"LEAGUESIM_LOG_LEVEL": "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.ErrorContains(t, err, key)
		})
	}
}

func TestLoadTuning(t *testing.T) {
	def, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, league.DefaultTuning(), def)

	path := writeFile(t, "tuning.yaml", `
goals:
  baseHomeRate: 1.6
events:
  scorerWeights:
    ST: 0.5
`)
	got, err := LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 1.6, got.Goals.BaseHomeRate)
	assert.Equal(t, 0.95, got.Goals.BaseAwayRate, "omitted keys keep defaults")
	assert.Equal(t, 0.5, got.Events.ScorerWeights["ST"])
	assert.Equal(t, 0.10, got.Events.ScorerWeights["AM"])

	path = writeFile(t, "tuning.json", `{"goals": {"baseAwayRate": 1.1}}`)
	got, err = LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 1.1, got.Goals.BaseAwayRate)
	assert.Equal(t, 1.40, got.Goals.BaseHomeRate)
}

func TestLoadTuningValidates(t *testing.T) {
	path := writeFile(t, "bad.yml", "goals:\n  maxLambda: 0\n")
	_, err := LoadTuning(path)
	require.Error(t, err)
	assert.True(t, league.IsInvalidInput(err))
}

func TestLoadRequest(t *testing.T) {
	path := writeFile(t, "league.yaml", `
leagueId: l1
season: "2025"
teams:
  - id: a
    name: Alpha
    players:
      - {id: a1, name: Keeper, position: GK, marketValue: 2000000}
      - {id: a2, name: Nine, position: ST, overall: 81, nationality: [TR]}
  - id: b
    name: Beta
    players:
      - {id: b1, name: Back, position: CB}
fixtures:
  - {homeTeamId: a, awayTeamId: b}
`)
	req, err := LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, "l1", req.LeagueID)
	assert.Equal(t, "2025", req.Season)
	require.Len(t, req.Teams, 2)
	require.Len(t, req.Teams[0].Players, 2)
	assert.Equal(t, 2e6, *req.Teams[0].Players[0].MarketValue)
	assert.Nil(t, req.Teams[0].Players[1].MarketValue)
	assert.Equal(t, 81.0, *req.Teams[0].Players[1].Overall)
	assert.Equal(t, []string{"TR"}, req.Teams[0].Players[1].Nationality)
	assert.Equal(t, []league.FixtureInput{{HomeTeamID: "a", AwayTeamID: "b"}}, req.Fixtures)
	assert.NoError(t, req.Validate())
}

func TestLoadRequestErrors(t *testing.T) {
	_, err := LoadRequest(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "can't read")

	_, err = LoadRequest(writeFile(t, "league.toml", "x = 1"))
	assert.ErrorContains(t, err, "unsupported file format")

	_, err = LoadRequest(writeFile(t, "league.json", "{"))
	assert.ErrorContains(t, err, "bad JSON")
}
