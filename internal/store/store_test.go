package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utakatalp/league-engine/internal/league"
)

func ptr[T any](v T) *T { return &v }

func sampleLeague() league.SimulateRequest {
	return league.SimulateRequest{
		LeagueID:   "super-lig",
		LeagueName: "Süper Lig",
		Season:     "2025",
		Teams: []league.TeamInput{
			{ID: "gs", Name: "Galatasaray", Formation: "4-2-3-1", Players: []league.PlayerInput{
				{ID: "p1", Name: "Keeper", Position: "GK", MarketValue: ptr(4e6), Age: ptr(31), Nationality: []string{"TR", "DE"}},
				{ID: "p2", Name: "Striker", Position: "ST", MarketValue: ptr(55e6), Overall: ptr(88.0)},
			}},
			{ID: "fb", Name: "Fenerbahçe", Players: []league.PlayerInput{
				{ID: "p3", Name: "Playmaker", Position: "CAM"},
			}},
		},
		Fixtures: []league.FixtureInput{{HomeTeamID: "gs", AwayTeamID: "fb"}},
	}
}

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"leagues", "teams", "players", "fixtures"} {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ` + table).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	s := New(db, DriverPostgres, nil)
	assert.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLeague(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	req := sampleLeague()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leagues`).
		WithArgs("super-lig", "Süper Lig", "2025", "").
		WillReturnResult(sqlmock.NewResult(0, 1))
	for _, table := range []string{"fixtures", "players", "teams"} {
		mock.ExpectExec(`DELETE FROM ` + table + ` WHERE league_id = \$1`).
			WithArgs("super-lig").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`INSERT INTO teams`).
		WithArgs("super-lig", "gs", "Galatasaray", "4-2-3-1", 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO players`).
		WithArgs("super-lig", "gs", "p1", "Keeper", "GK", 4e6, 31, "TR,DE", nil, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO players`).
		WithArgs("super-lig", "gs", "p2", "Striker", "ST", 55e6, nil, "", 88.0, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO teams`).
		WithArgs("super-lig", "fb", "Fenerbahçe", "", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO players`).
		WithArgs("super-lig", "fb", "p3", "Playmaker", "CAM", nil, nil, "", nil, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO fixtures`).
		WithArgs("super-lig", 0, "gs", "fb").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	s := New(db, DriverPostgres, nil)
	assert.NoError(t, s.InsertLeague(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLeagueRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO leagues`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := New(db, DriverPostgres, nil)
	err = s.InsertLeague(context.Background(), sampleLeague())
	assert.ErrorContains(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertLeagueValidates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	req := sampleLeague()
	req.Teams[1].Players = nil

	s := New(db, DriverPostgres, nil)
	assert.ErrorIs(t, s.InsertLeague(context.Background(), req), league.ErrEmptyRoster)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadLeague(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT name, season, seed FROM leagues WHERE id = $1`)).
		WithArgs("super-lig").
		WillReturnRows(sqlmock.NewRows([]string{"name", "season", "seed"}).AddRow("Süper Lig", "2025", ""))
	mock.ExpectQuery(`SELECT id, name, formation\s+FROM teams`).
		WithArgs("super-lig").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "formation"}).
			AddRow("gs", "Galatasaray", "4-2-3-1").
			AddRow("fb", "Fenerbahçe", ""))
	mock.ExpectQuery(`FROM players p`).
		WithArgs("super-lig").
		WillReturnRows(sqlmock.NewRows([]string{"team_id", "id", "name", "position", "market_value", "age", "nationality", "overall"}).
			AddRow("gs", "p1", "Keeper", "GK", 4e6, 31, "TR,DE", nil).
			AddRow("gs", "p2", "Striker", "ST", 55e6, nil, "", 88.0).
			AddRow("fb", "p3", "Playmaker", "CAM", nil, nil, "", nil))
	mock.ExpectQuery(`FROM fixtures`).
		WithArgs("super-lig").
		WillReturnRows(sqlmock.NewRows([]string{"home_team_id", "away_team_id"}).AddRow("gs", "fb"))

	s := New(db, DriverPostgres, nil)
	got, err := s.LoadLeague(context.Background(), "super-lig")
	require.NoError(t, err)
	assert.Equal(t, sampleLeague(), got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadLeagueNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT name, season, seed FROM leagues`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	s := New(db, DriverPostgres, nil)
	_, err = s.LoadLeague(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}

func TestRebind(t *testing.T) {
	pg := New(nil, DriverPostgres, nil)
	lite := New(nil, DriverSQLite, nil)
	q := `INSERT INTO t (a, b) VALUES ($1, $2) -- $10`

	assert.Equal(t, q, pg.rebind(q))
	assert.Equal(t, `INSERT INTO t (a, b) VALUES (?, ?) -- ?`, lite.rebind(q))
}

func TestNewStoreRejectsUnknownDriver(t *testing.T) {
	_, err := NewStore("mysql", "", nil)
	assert.ErrorContains(t, err, "unsupported")
}

// The SQLite driver is pure Go, so a real round trip runs anywhere.
func TestSQLiteRoundTrip(t *testing.T) {
	s, err := NewStore(DriverSQLite, ":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	// one connection, one in-memory database
	s.DB.SetMaxOpenConns(1)

	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx), "migrations are idempotent")

	req := sampleLeague()
	require.NoError(t, s.InsertLeague(ctx, req))

	req.LeagueName = "Trendyol Süper Lig"
	require.NoError(t, s.InsertLeague(ctx, req), "re-inserting replaces the roster")

	got, err := s.LoadLeague(ctx, "super-lig")
	require.NoError(t, err)
	assert.Equal(t, req, got)

	ids, err := s.ListLeagues(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"super-lig"}, ids)

	_, err = s.LoadLeague(ctx, "missing")
	assert.ErrorIs(t, err, ErrLeagueNotFound)
}
