// Package http is the command surface: summaries, settings mutation and the
// on-demand ingestion trigger, served as a small JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"stromkosten/internal/core"

	"github.com/google/uuid"
)

// SummaryService renders the user-facing summaries.
type SummaryService interface {
	YesterdaySummary(ctx context.Context, now time.Time) (string, error)
	TodaySummary(ctx context.Context, now time.Time) (string, error)
	MonthSummary(ctx context.Context) (string, error)
}

// SettingsStore is the settings slice of the repository contract.
type SettingsStore interface {
	GetSettings(ctx context.Context) (core.Settings, error)
	SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, s core.Settings) (core.Settings, error)
}

// TriggerPublisher requests an on-demand ingestion run.
type TriggerPublisher interface {
	PublishIngestTrigger(ctx context.Context) error
}

type Server struct {
	http.Server
	summaries SummaryService
	settings  SettingsStore
	triggers  TriggerPublisher // optional
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, summaries SummaryService, settings SettingsStore, triggers TriggerPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: withRequestLogging(mux),
		},
		summaries: summaries,
		settings:  settings,
		triggers:  triggers,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/summary/yesterday", s.handleYesterdaySummary)
	mux.HandleFunc("GET /api/summary/today", s.handleTodaySummary)
	mux.HandleFunc("GET /api/summary/month", s.handleMonthSummary)

	mux.HandleFunc("GET /api/budget", s.handleBudget)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("POST /api/settings", s.handleSeedSettings)
	mux.HandleFunc("PUT /api/settings/{field}", s.handleUpdateSettingsField)

	mux.HandleFunc("POST /api/ingest", s.handleIngestTrigger)

	return s
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withRequestLogging stamps each request with an id and logs its outcome.
func withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		slog.InfoContext(r.Context(), "Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status_code", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
