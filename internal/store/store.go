// Package store loads league rosters from Postgres or SQLite. It only holds
// simulation inputs; results are never written back.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"

	"github.com/utakatalp/league-engine/internal/league"
)

// ErrLeagueNotFound is returned by LoadLeague for an unknown id.
var ErrLeagueNotFound = errors.New("league not found")

// Driver names accepted by NewStore.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Store wraps a database connection holding leagues, teams and players.
type Store struct {
	DB     *sql.DB
	driver string
	logger *slog.Logger
}

// NewStore opens and pings a connection. driver is "postgres" or "sqlite".
func NewStore(driver, dsn string, logger *slog.Logger) (*Store, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	s := New(db, driver, logger)
	s.logger.Info("database connected", "driver", driver)
	return s, nil
}

// New wraps an already open connection.
func New(db *sql.DB, driver string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{DB: db, driver: driver, logger: logger}
}

func (s *Store) Close() error {
	return s.DB.Close()
}

var placeholder = regexp.MustCompile(`\$\d+`)

// rebind rewrites $n placeholders for SQLite. Queries number their
// placeholders in argument order.
func (s *Store) rebind(q string) string {
	if s.driver == DriverSQLite {
		return placeholder.ReplaceAllString(q, "?")
	}
	return q
}

// Migrate creates the necessary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS leagues (
			id     TEXT PRIMARY KEY,
			name   TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL DEFAULT '',
			seed   TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS teams (
			league_id  TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
			id         TEXT NOT NULL,
			name       TEXT NOT NULL,
			formation  TEXT NOT NULL DEFAULT '',
			sort_order INT  NOT NULL,
			PRIMARY KEY (league_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS players (
			league_id    TEXT NOT NULL,
			team_id      TEXT NOT NULL,
			id           TEXT NOT NULL,
			name         TEXT NOT NULL,
			position     TEXT NOT NULL,
			market_value DOUBLE PRECISION,
			age          INT,
			nationality  TEXT NOT NULL DEFAULT '',
			overall      DOUBLE PRECISION,
			squad_order  INT  NOT NULL,
			PRIMARY KEY (league_id, team_id, id),
			FOREIGN KEY (league_id, team_id) REFERENCES teams(league_id, id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS fixtures (
			league_id    TEXT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
			idx          INT  NOT NULL,
			home_team_id TEXT NOT NULL,
			away_team_id TEXT NOT NULL,
			PRIMARY KEY (league_id, idx)
		)`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// InsertLeague stores a league and replaces its teams, players and fixtures.
func (s *Store) InsertLeague(ctx context.Context, req league.SimulateRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("inserting league %s: %w", req.LeagueID, err)
	}

	// 1) Begin a transaction
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin InsertLeague tx: %w", err)
	}
	defer tx.Rollback()

	// 2) Upsert the league row and clear what it owned
	if _, err := tx.ExecContext(ctx, s.rebind(`
		INSERT INTO leagues (id, name, season, seed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, season = excluded.season, seed = excluded.seed`),
		req.LeagueID, req.LeagueName, req.Season, req.Seed,
	); err != nil {
		return fmt.Errorf("upserting league %s: %w", req.LeagueID, err)
	}
	for _, table := range []string{"fixtures", "players", "teams"} {
		if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE league_id = $1`), req.LeagueID); err != nil {
			return fmt.Errorf("clearing %s of %s: %w", table, req.LeagueID, err)
		}
	}

	// 3) Teams and their players, keeping roster order
	for ti, t := range req.Teams {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO teams (league_id, id, name, formation, sort_order)
			VALUES ($1, $2, $3, $4, $5)`),
			req.LeagueID, t.ID, t.Name, t.Formation, ti,
		); err != nil {
			return fmt.Errorf("inserting team %s (%s): %w", t.ID, t.Name, err)
		}
		for pi, p := range t.Players {
			if _, err := tx.ExecContext(ctx, s.rebind(`
				INSERT INTO players (league_id, team_id, id, name, position, market_value, age, nationality, overall, squad_order)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`),
				req.LeagueID, t.ID, p.ID, p.Name, p.Position,
				nullFloat(p.MarketValue), nullInt(p.Age), strings.Join(p.Nationality, ","), nullFloat(p.Overall),
				pi,
			); err != nil {
				return fmt.Errorf("inserting player %s of team %s: %w", p.ID, t.ID, err)
			}
		}
	}

	// 4) Supplied fixtures, if any
	for i, f := range req.Fixtures {
		if _, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO fixtures (league_id, idx, home_team_id, away_team_id)
			VALUES ($1, $2, $3, $4)`),
			req.LeagueID, i, f.HomeTeamID, f.AwayTeamID,
		); err != nil {
			return fmt.Errorf("inserting fixture %d: %w", i, err)
		}
	}

	// 5) Commit
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertLeague tx: %w", err)
	}
	s.logger.Info("league stored", "league", req.LeagueID, "teams", len(req.Teams), "fixtures", len(req.Fixtures))
	return nil
}

// LoadLeague rebuilds the simulation request stored under id.
func (s *Store) LoadLeague(ctx context.Context, id string) (league.SimulateRequest, error) {
	req := league.SimulateRequest{LeagueID: id}

	err := s.DB.QueryRowContext(ctx, s.rebind(`SELECT name, season, seed FROM leagues WHERE id = $1`), id).
		Scan(&req.LeagueName, &req.Season, &req.Seed)
	if errors.Is(err, sql.ErrNoRows) {
		return req, fmt.Errorf("loading league %s: %w", id, ErrLeagueNotFound)
	}
	if err != nil {
		return req, fmt.Errorf("loading league %s: %w", id, err)
	}

	if req.Teams, err = s.loadTeams(ctx, id); err != nil {
		return req, err
	}
	if req.Fixtures, err = s.loadFixtures(ctx, id); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Store) loadTeams(ctx context.Context, leagueID string) ([]league.TeamInput, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(`
		SELECT id, name, formation
		FROM teams
		WHERE league_id = $1
		ORDER BY sort_order`), leagueID)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []league.TeamInput
	index := make(map[string]int)
	for rows.Next() {
		var t league.TeamInput
		if err := rows.Scan(&t.ID, &t.Name, &t.Formation); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams rows: %w", err)
	}

	prows, err := s.DB.QueryContext(ctx, s.rebind(`
		SELECT p.team_id, p.id, p.name, p.position, p.market_value, p.age, p.nationality, p.overall
		FROM players p
		JOIN teams t ON t.league_id = p.league_id AND t.id = p.team_id
		WHERE p.league_id = $1
		ORDER BY t.sort_order, p.squad_order`), leagueID)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			teamID      string
			p           league.PlayerInput
			value, ovr  sql.NullFloat64
			age         sql.NullInt64
			nationality string
		)
		if err := prows.Scan(&teamID, &p.ID, &p.Name, &p.Position, &value, &age, &nationality, &ovr); err != nil {
			return nil, fmt.Errorf("scanning player row: %w", err)
		}
		if value.Valid {
			p.MarketValue = &value.Float64
		}
		if ovr.Valid {
			p.Overall = &ovr.Float64
		}
		if age.Valid {
			a := int(age.Int64)
			p.Age = &a
		}
		if nationality != "" {
			p.Nationality = strings.Split(nationality, ",")
		}

		i, ok := index[teamID]
		if !ok {
			continue
		}
		teams[i].Players = append(teams[i].Players, p)
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterating player rows: %w", err)
	}
	return teams, nil
}

func (s *Store) loadFixtures(ctx context.Context, leagueID string) ([]league.FixtureInput, error) {
	rows, err := s.DB.QueryContext(ctx, s.rebind(`
		SELECT home_team_id, away_team_id
		FROM fixtures
		WHERE league_id = $1
		ORDER BY idx`), leagueID)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []league.FixtureInput
	for rows.Next() {
		var f league.FixtureInput
		if err := rows.Scan(&f.HomeTeamID, &f.AwayTeamID); err != nil {
			return nil, fmt.Errorf("scanning fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// ListLeagues returns the stored league ids in order.
func (s *Store) ListLeagues(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM leagues ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying leagues: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning league id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
