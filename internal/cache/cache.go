// Package cache memoises simulation results in Redis and announces new ones
// on a stream. Results are deterministic, so a cached entry is always valid;
// the TTL only bounds memory.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/utakatalp/league-engine/internal/league"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SimulatedStream receives one entry per freshly computed season.
const SimulatedStream = "league.simulated"

// Cache stores encoded SimulationResults keyed by league and run id.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New wraps a connected client. A zero ttl keeps entries forever.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

// Key builds the Redis key of a result.
// Format: league:simulation:{league_id}:{run_id}
func Key(leagueID, runID string) string {
	return fmt.Sprintf("league:simulation:%s:%s", leagueID, runID)
}

// Get returns the cached result under key. A miss is (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) (*league.SimulationResult, bool, error) {
	raw, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var res league.SimulationResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("decoding cached result %s: %w", key, err)
	}
	return &res, true, nil
}

// Set stores res under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, res *league.SimulationResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Store writes the result and publishes it in one pipeline.
func (c *Cache) Store(ctx context.Context, res *league.SimulationResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	pipe := c.redis.Pipeline()
	pipe.Set(ctx, Key(res.LeagueID, res.RunID), data, c.ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: SimulatedStream,
		Values: StreamValues(res),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline exec: %w", err)
	}

	c.logger.Debug("result cached", "league", res.LeagueID, "run", res.RunID)
	return nil
}

// Publish announces a result on SimulatedStream without caching it.
func (c *Cache) Publish(ctx context.Context, res *league.SimulationResult) error {
	_, err := c.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: SimulatedStream,
		Values: StreamValues(res),
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd to stream: %w", err)
	}
	return nil
}

// StreamValues is the flat payload of a stream entry.
func StreamValues(res *league.SimulationResult) map[string]interface{} {
	champion := ""
	if c := res.Champion(); c != nil {
		champion = c.TeamID
	}
	return map[string]interface{}{
		"run_id":       res.RunID,
		"league_id":    res.LeagueID,
		"seed":         res.Seed,
		"champion":     champion,
		"matches":      res.TotalMatches,
		"simulated_at": res.SimulatedAt.UTC().Format(time.RFC3339),
	}
}
