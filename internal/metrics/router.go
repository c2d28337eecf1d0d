package metrics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/roadrush/internal/ratelimit"
	"github.com/vovakirdan/roadrush/internal/registry"
	"github.com/vovakirdan/roadrush/internal/storage"
)

// Result limits for /api/scores and /api/runs.
const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// ScoreSource is the read side of the score store used by the API.
type ScoreSource interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
	GetGameStats(gameID string) (*storage.GameStats, error)
	GetAllGamesStats() (map[string]*storage.GameStats, error)
	RecentRuns(gameID string, limit int) ([]storage.RunEntry, error)
}

// RouterConfig contains the dependencies of the HTTP router.
type RouterConfig struct {
	// Scores backs every /api route. Nil serves 503 for them.
	Scores ScoreSource

	// Limiter throttles /api per client IP. Nil disables limiting.
	Limiter *ratelimit.IPLimiter

	// KnownGame validates the gameID path parameter. Defaults to registry.Exists.
	KnownGame func(id string) bool

	// Logger receives one line per request. Nil disables request logging.
	Logger *log.Logger
}

// ScoresResponse is the body of GET /api/scores/{gameID}.
type ScoresResponse struct {
	GameID string               `json:"game_id"`
	Scores []storage.ScoreEntry `json:"scores"`
	Stats  *storage.GameStats   `json:"stats,omitempty"`
}

// RunsResponse is the body of GET /api/runs/{gameID}.
type RunsResponse struct {
	GameID string             `json:"game_id"`
	Runs   []storage.RunEntry `json:"runs"`
}

// NewRouter builds the HTTP API. It starts no goroutines and opens no
// listeners, so it can be served from httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	if cfg.KnownGame == nil {
		cfg.KnownGame = registry.Exists
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // Client went away
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(limit(cfg.Limiter))
		}
		r.Get("/scores/{gameID}", handleScores(cfg))
		r.Get("/runs/{gameID}", handleRuns(cfg))
		r.Get("/stats", handleStats(cfg))
	})

	return r
}

// gameRequest validates the gameID parameter, storage and limit shared by the
// per-game routes. It writes the error response itself and reports false.
func gameRequest(cfg RouterConfig, w http.ResponseWriter, r *http.Request) (gameID string, n int, ok bool) {
	gameID = chi.URLParam(r, "gameID")
	if !cfg.KnownGame(gameID) {
		writeError(w, "unknown game", http.StatusNotFound)
		return "", 0, false
	}
	if cfg.Scores == nil {
		writeError(w, "score storage unavailable", http.StatusServiceUnavailable)
		return "", 0, false
	}

	n = defaultScoreLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			writeError(w, "limit must be a positive integer", http.StatusBadRequest)
			return "", 0, false
		}
		n = min(v, maxScoreLimit)
	}
	return gameID, n, true
}

func handleScores(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, n, ok := gameRequest(cfg, w, r)
		if !ok {
			return
		}

		scores, err := cfg.Scores.TopScores(gameID, n)
		if err != nil {
			writeError(w, "cannot load scores", http.StatusInternalServerError)
			return
		}
		stats, err := cfg.Scores.GetGameStats(gameID)
		if err != nil {
			writeError(w, "cannot load stats", http.StatusInternalServerError)
			return
		}

		if scores == nil {
			scores = []storage.ScoreEntry{}
		}
		writeJSON(w, http.StatusOK, ScoresResponse{GameID: gameID, Scores: scores, Stats: stats})
	}
}

func handleRuns(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID, n, ok := gameRequest(cfg, w, r)
		if !ok {
			return
		}

		runs, err := cfg.Scores.RecentRuns(gameID, n)
		if err != nil {
			writeError(w, "cannot load runs", http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []storage.RunEntry{}
		}
		writeJSON(w, http.StatusOK, RunsResponse{GameID: gameID, Runs: runs})
	}
}

// handleStats returns aggregate stats keyed by game ID.
func handleStats(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if cfg.Scores == nil {
			writeError(w, "score storage unavailable", http.StatusServiceUnavailable)
			return
		}
		stats, err := cfg.Scores.GetAllGamesStats()
		if err != nil {
			writeError(w, "cannot load stats", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// instrument records request metrics by route pattern and optionally logs.
func instrument(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			RecordRequest(r.Method, route, status, elapsed)

			if logger != nil {
				logger.Debug("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration", elapsed,
					"request_id", middleware.GetReqID(r.Context()),
				)
			}
		})
	}
}

// limit rejects clients that exceed their token bucket.
func limit(l *ratelimit.IPLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ratelimit.HostOf(r.RemoteAddr)) {
				RecordRejected(ReasonRateLimit)
				w.Header().Set("Retry-After", "1")
				writeError(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck // Client went away
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
