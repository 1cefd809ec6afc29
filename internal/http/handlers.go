package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"stromkosten/internal/core"
)

type summaryResponse struct {
	Summary string `json:"summary"`
}

type settingsResponse struct {
	ID                   string  `json:"id"`
	CostHeating          float64 `json:"cost_heating"`
	CostGeneral          float64 `json:"cost_general"`
	MonthlyBudgetHeating float64 `json:"monthly_budget_heating"`
	MonthlyBudgetGeneral float64 `json:"monthly_budget_general"`
}

func toSettingsResponse(s core.Settings) settingsResponse {
	return settingsResponse{
		ID:                   s.ID.String(),
		CostHeating:          s.CostHeating,
		CostGeneral:          s.CostGeneral,
		MonthlyBudgetHeating: s.MonthlyBudgetHeating,
		MonthlyBudgetGeneral: s.MonthlyBudgetGeneral,
	}
}

func (s *Server) handleYesterdaySummary(w http.ResponseWriter, r *http.Request) {
	text, err := s.summaries.YesterdaySummary(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

func (s *Server) handleTodaySummary(w http.ResponseWriter, r *http.Request) {
	text, err := s.summaries.TodaySummary(r.Context(), time.Now())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	text, err := s.summaries.MonthSummary(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: text})
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: settings.BudgetSummary()})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.settings.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(settings))
}

type seedSettingsRequest struct {
	CostHeating          float64 `json:"cost_heating"`
	CostGeneral          float64 `json:"cost_general"`
	MonthlyBudgetHeating float64 `json:"monthly_budget_heating"`
	MonthlyBudgetGeneral float64 `json:"monthly_budget_general"`
}

// handleSeedSettings creates the singleton settings row. Once a row exists,
// mutations go through the per-field endpoints.
func (s *Server) handleSeedSettings(w http.ResponseWriter, r *http.Request) {
	var req seedSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	if _, err := s.settings.GetSettings(r.Context()); err == nil {
		writeError(w, http.StatusConflict, "settings already exist")
		return
	} else if !errors.Is(err, core.ErrNotFound) {
		writeDomainError(w, err)
		return
	}

	saved, err := s.settings.SaveSettings(r.Context(),
		core.NewSettings(req.CostHeating, req.CostGeneral, req.MonthlyBudgetHeating, req.MonthlyBudgetGeneral))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSettingsResponse(saved))
}

type updateFieldRequest struct {
	Value float64 `json:"value"`
}

// handleUpdateSettingsField mutates one settings field: read the current
// row, apply the copy-with-override mutator, write the whole record back
// and echo the new value.
func (s *Server) handleUpdateSettingsField(w http.ResponseWriter, r *http.Request) {
	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	current, err := s.settings.GetSettings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var updated core.Settings
	switch field := r.PathValue("field"); field {
	case "cost-heating":
		updated = current.WithCostHeating(req.Value)
	case "cost-general":
		updated = current.WithCostGeneral(req.Value)
	case "budget-heating":
		updated = current.WithMonthlyBudgetHeating(req.Value)
	case "budget-general":
		updated = current.WithMonthlyBudgetGeneral(req.Value)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown settings field %q", field))
		return
	}

	saved, err := s.settings.UpdateSettings(r.Context(), current.ID, updated)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsResponse(saved))
}

func (s *Server) handleIngestTrigger(w http.ResponseWriter, r *http.Request) {
	if s.triggers == nil {
		writeError(w, http.StatusServiceUnavailable, "no trigger channel configured")
		return
	}
	if err := s.triggers.PublishIngestTrigger(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("publish trigger: %v", err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "ingestion requested"})
}
