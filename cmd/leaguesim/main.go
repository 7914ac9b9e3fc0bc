// Command leaguesim simulates league seasons from a roster file or serves the
// engine over HTTP.
//
//	leaguesim run [-tuning file] [-scheduler chunked|circle] [-events] [-odds N] league.yaml
//	leaguesim import [-tuning file] league.yaml
//	leaguesim serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utakatalp/league-engine/internal/api"
	"github.com/utakatalp/league-engine/internal/cache"
	"github.com/utakatalp/league-engine/internal/config"
	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/store"
)

const usage = `usage:
  leaguesim run [flags] <league.yaml|league.json>
  leaguesim import <league.yaml|league.json>
  leaguesim serve`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = runSeason(context.Background(), os.Args[2:], os.Stdout)
	case "import":
		err = importLeague(context.Background(), os.Args[2:])
	case "serve":
		err = serve()
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Printf("✗ %v\n", err)
		os.Exit(1)
	}
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// runSeason simulates one season from a file and prints the table, the
// schedule and the leaders to out.
func runSeason(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	tuningPath := fs.String("tuning", "", "YAML or JSON file overriding the default tuning")
	schedulerName := fs.String("scheduler", "chunked", "fixture scheduler: 'chunked' or 'circle'")
	seed := fs.String("seed", "", "seed replacing the one in the file")
	events := fs.Bool("events", false, "print every match event")
	oddsRuns := fs.Int("odds", 0, "also estimate title odds over this many seasons")
	workers := fs.Int("workers", 0, "concurrent matches (0 = one per CPU)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New(usage)
	}

	req, err := config.LoadRequest(fs.Arg(0))
	if err != nil {
		return err
	}
	if *seed != "" {
		req.Seed = *seed
	}
	tuning, err := config.LoadTuning(*tuningPath)
	if err != nil {
		return err
	}
	scheduler, err := league.ParseScheduler(*schedulerName)
	if err != nil {
		return err
	}

	opts := []league.Option{league.WithTuning(tuning), league.WithScheduler(scheduler)}
	if *workers > 0 {
		opts = append(opts, league.WithWorkers(*workers))
	}

	res, err := league.Simulate(ctx, req, opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Simulated %s: %d matches (seed %q, run %s)\n\n", res.LeagueName, res.TotalMatches, res.Seed, res.RunID)
	if err := league.WriteSchedule(out, "Fixtures", res.Matches, *events); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := league.WriteTable(out, "Final table", res.Standings); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := league.WriteLeaders(out, "Top scorers", res.Scorers); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := league.WriteLeaders(out, "Top assists", res.Assists); err != nil {
		return err
	}
	if c := res.Champion(); c != nil {
		fmt.Fprintf(out, "\n🏆 Champion: %s (%d pts)\n", c.Team, c.Points)
	}

	if *oddsRuns > 0 {
		preds, err := league.ChampionshipOdds(ctx, req, *oddsRuns, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nTitle odds over %d seasons:\n", *oddsRuns)
		for _, p := range preds {
			fmt.Fprintf(out, "  %-24s %6.2f%%\n", p.Team, p.Probability)
		}
	}
	return nil
}

// importLeague stores a roster file in the configured database.
func importLeague(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New(usage)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	req, err := config.LoadRequest(args[0])
	if err != nil {
		return err
	}

	db, err := store.NewStore(cfg.DatabaseDriver, cfg.DatabaseURL, newLogger(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	if err := db.InsertLeague(ctx, req); err != nil {
		return err
	}
	fmt.Printf("✓ Imported %s: %d teams, %d fixtures\n", req.LeagueID, len(req.Teams), len(req.Fixtures))
	return nil
}

func serve() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return err
	}

	db, err := store.NewStore(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}
	fmt.Printf("✓ Connected to %s roster store\n", cfg.DatabaseDriver)

	opts := api.Options{
		Rosters:     db,
		Engine:      []league.Option{league.WithTuning(tuning), league.WithScheduler(cfg.Scheduler)},
		OddsRuns:    cfg.OddsRuns,
		MaxOddsRuns: cfg.MaxOddsRuns,
		Logger:      logger,
	}
	if cfg.Workers > 0 {
		opts.Engine = append(opts.Engine, league.WithWorkers(cfg.Workers))
	}

	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		opts.Cache = cache.New(redisClient, cfg.CacheTTL, logger)
		fmt.Printf("✓ Connected to Redis (cache TTL %v)\n", cfg.CacheTTL)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.NewServer(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Printf("✓ Listening on %s\n", cfg.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigChan:
	}
	fmt.Println("\n✓ Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Println("✓ leaguesim stopped")
	return nil
}
