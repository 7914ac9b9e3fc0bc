// Package api exposes the simulation engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/cors"

	"github.com/utakatalp/league-engine/internal/cache"
	"github.com/utakatalp/league-engine/internal/league"
	"github.com/utakatalp/league-engine/internal/store"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 4 << 20

// RosterSource loads stored leagues. *store.Store implements it.
type RosterSource interface {
	LoadLeague(ctx context.Context, id string) (league.SimulateRequest, error)
	ListLeagues(ctx context.Context) ([]string, error)
}

// ResultCache memoises results by league and run id. *cache.Cache implements it.
type ResultCache interface {
	Get(ctx context.Context, key string) (*league.SimulationResult, bool, error)
	Store(ctx context.Context, res *league.SimulationResult) error
}

// Options configures a Server. Rosters and Cache may be nil.
type Options struct {
	Rosters        RosterSource
	Cache          ResultCache
	Engine         []league.Option
	OddsRuns       int
	MaxOddsRuns    int
	AllowedOrigins []string
	Logger         *slog.Logger
}

type Server struct {
	rosters     RosterSource
	cache       ResultCache
	engine      []league.Option
	oddsRuns    int
	maxOddsRuns int
	logger      *slog.Logger
	handler     http.Handler
}

// NewServer builds the router and its middleware.
func NewServer(o Options) *Server {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.OddsRuns < 1 {
		o.OddsRuns = 200
	}
	if o.MaxOddsRuns < o.OddsRuns {
		o.MaxOddsRuns = o.OddsRuns
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		rosters:     o.Rosters,
		cache:       o.Cache,
		engine:      append([]league.Option{league.WithLogger(o.Logger)}, o.Engine...),
		oddsRuns:    o.OddsRuns,
		maxOddsRuns: o.MaxOddsRuns,
		logger:      o.Logger,
	}

	router := mux.NewRouter()
	router.Use(s.logRequests)

	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/health", s.health).Methods("GET")
	v1.HandleFunc("/simulations", s.postSimulation).Methods("POST")
	v1.HandleFunc("/odds", s.postOdds).Methods("POST")
	v1.HandleFunc("/leagues", s.getLeagues).Methods("GET")
	v1.HandleFunc("/leagues/{id}/simulation", s.getLeagueSimulation).Methods("GET")
	v1.HandleFunc("/leagues/{id}/odds", s.getLeagueOdds).Methods("GET")

	s.handler = cors.New(cors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"rosters":   s.rosters != nil,
		"cache":     s.cache != nil,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) postSimulation(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.respondSimulation(w, r, req)
}

func (s *Server) getLeagueSimulation(w http.ResponseWriter, r *http.Request) {
	req, ok := s.loadLeague(w, r)
	if !ok {
		return
	}
	s.respondSimulation(w, r, req)
}

func (s *Server) postOdds(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.respondOdds(w, r, req)
}

func (s *Server) getLeagueOdds(w http.ResponseWriter, r *http.Request) {
	req, ok := s.loadLeague(w, r)
	if !ok {
		return
	}
	s.respondOdds(w, r, req)
}

func (s *Server) getLeagues(w http.ResponseWriter, r *http.Request) {
	if s.rosters == nil {
		writeError(w, http.StatusNotImplemented, "no roster store configured")
		return
	}
	ids, err := s.rosters.ListLeagues(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leagues": ids})
}

// respondSimulation serves from the cache when it can and fills it otherwise.
// Cache failures are logged and never fail the request.
func (s *Server) respondSimulation(w http.ResponseWriter, r *http.Request, req league.SimulateRequest) {
	ctx := r.Context()

	if s.cache != nil && req.Validate() == nil {
		key := cache.Key(req.LeagueID, league.RunID(req, s.engine...))
		res, hit, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("cache lookup failed", "key", key, "err", err)
		} else if hit {
			w.Header().Set("X-Cache", "HIT")
			writeJSON(w, http.StatusOK, res)
			return
		}
	}

	res, err := league.Simulate(ctx, req, s.engine...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if s.cache != nil {
		if err := s.cache.Store(ctx, res); err != nil {
			s.logger.Warn("cache store failed", "league", res.LeagueID, "run", res.RunID, "err", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) respondOdds(w http.ResponseWriter, r *http.Request, req league.SimulateRequest) {
	runs := s.oddsRuns
	if v := r.URL.Query().Get("runs"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.maxOddsRuns {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("runs must be an integer in [1, %d]", s.maxOddsRuns))
			return
		}
		runs = n
	}

	preds, err := league.ChampionshipOdds(r.Context(), req, runs, s.engine...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"leagueId":    req.LeagueID,
		"seed":        league.ResolveSeed(req),
		"runs":        runs,
		"predictions": preds,
	})
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (league.SimulateRequest, bool) {
	var req league.SimulateRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return req, false
	}
	return req, true
}

// loadLeague fetches the roster named in the path. A seed or season in the
// query string replaces the stored one.
func (s *Server) loadLeague(w http.ResponseWriter, r *http.Request) (league.SimulateRequest, bool) {
	if s.rosters == nil {
		writeError(w, http.StatusNotImplemented, "no roster store configured")
		return league.SimulateRequest{}, false
	}
	req, err := s.rosters.LoadLeague(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.fail(w, r, err)
		return req, false
	}
	q := r.URL.Query()
	if seed := q.Get("seed"); seed != "" {
		req.Seed = seed
	}
	if season := q.Get("season"); season != "" {
		req.Season = season
	}
	return req, true
}

// fail maps engine and store errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case league.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrLeagueNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"took", time.Since(start),
		)
	})
}
