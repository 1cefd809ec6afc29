package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"stromkosten/internal/core"
)

type fakeSummaries struct {
	yesterday string
	today     string
	month     string
	err       error
}

func (f *fakeSummaries) YesterdaySummary(ctx context.Context, now time.Time) (string, error) {
	return f.yesterday, f.err
}

func (f *fakeSummaries) TodaySummary(ctx context.Context, now time.Time) (string, error) {
	return f.today, f.err
}

func (f *fakeSummaries) MonthSummary(ctx context.Context) (string, error) {
	return f.month, f.err
}

type fakeSettingsStore struct {
	settings *core.Settings
}

func (f *fakeSettingsStore) GetSettings(ctx context.Context) (core.Settings, error) {
	if f.settings == nil {
		return core.Settings{}, core.ErrNotFound
	}
	return *f.settings, nil
}

func (f *fakeSettingsStore) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	f.settings = &s
	return s, nil
}

func (f *fakeSettingsStore) UpdateSettings(ctx context.Context, id uuid.UUID, s core.Settings) (core.Settings, error) {
	if f.settings == nil || f.settings.ID != id {
		return core.Settings{}, core.ErrNotFound
	}
	s.ID = id
	f.settings = &s
	return s, nil
}

type fakeTriggers struct {
	published int
}

func (f *fakeTriggers) PublishIngestTrigger(ctx context.Context) error {
	f.published++
	return nil
}

func newTestServer(summaries *fakeSummaries, store *fakeSettingsStore, triggers *fakeTriggers) *Server {
	if summaries == nil {
		summaries = &fakeSummaries{}
	}
	if store == nil {
		store = &fakeSettingsStore{}
	}
	var tp TriggerPublisher
	if triggers != nil {
		tp = triggers
	}
	return NewServer(":0", summaries, store, tp)
}

func TestSummaryEndpoints(t *testing.T) {
	summaries := &fakeSummaries{
		yesterday: "yesterday text",
		today:     "today text",
		month:     "month text",
	}
	srv := newTestServer(summaries, nil, nil)

	tests := []struct {
		path string
		want string
	}{
		{"/api/summary/yesterday", "yesterday text"},
		{"/api/summary/today", "today text"},
		{"/api/summary/month", "month text"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			var resp summaryResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Summary != tt.want {
				t.Errorf("summary = %q, want %q", resp.Summary, tt.want)
			}
		})
	}
}

func TestMonthSummaryEmptyMonth(t *testing.T) {
	srv := newTestServer(&fakeSummaries{err: core.ErrEmptyAggregation}, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/summary/month", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no data") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSeedAndUpdateSettings(t *testing.T) {
	store := &fakeSettingsStore{}
	srv := newTestServer(nil, store, nil)

	seed := `{"cost_heating": 0.35, "cost_general": 0.25, "monthly_budget_heating": 150, "monthly_budget_general": 100}`
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(seed)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	// seeding twice conflicts: the settings row is a singleton
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settings", strings.NewReader(seed)))
	if rec.Code != http.StatusConflict {
		t.Errorf("second seed status = %d, want 409", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/cost-heating", strings.NewReader(`{"value": 0.40}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp settingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CostHeating != 0.40 {
		t.Errorf("cost_heating = %v, want 0.40", resp.CostHeating)
	}
	if resp.CostGeneral != 0.25 {
		t.Errorf("cost_general = %v, want 0.25 (only one field overridden)", resp.CostGeneral)
	}
}

func TestUpdateUnknownSettingsField(t *testing.T) {
	store := &fakeSettingsStore{}
	seeded := core.NewSettings(0.35, 0.25, 150, 100)
	store.settings = &seeded
	srv := newTestServer(nil, store, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/discount-rate", strings.NewReader(`{"value": 1}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateSettingsWithoutSeed(t *testing.T) {
	srv := newTestServer(nil, &fakeSettingsStore{}, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/cost-heating", strings.NewReader(`{"value": 0.4}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestIngestTrigger(t *testing.T) {
	triggers := &fakeTriggers{}
	srv := newTestServer(nil, nil, triggers)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if triggers.published != 1 {
		t.Errorf("published = %d, want 1", triggers.published)
	}
}

func TestIngestTriggerWithoutChannel(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ingest", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
