package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"coffeeintel/catalog"
	"coffeeintel/dashboard"
	"coffeeintel/scenario"
)

// handleState returns the full dashboard state.
func (a *App) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := mustDashboard(r).State(r.Context())
	if err != nil {
		a.log.Error("state", zap.Error(err))
		http.Error(w, "catalog error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleView renders one dashboard section.
func (a *App) handleView(w http.ResponseWriter, r *http.Request) {
	st, err := mustDashboard(r).State(r.Context())
	if err != nil {
		a.log.Error("state", zap.Error(err))
		http.Error(w, "catalog error", http.StatusInternalServerError)
		return
	}
	view, err := dashboard.Render(st, chi.URLParam(r, "section"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleSelectEstate switches the estate and returns its blocks.
func (a *App) handleSelectEstate(w http.ResponseWriter, r *http.Request) {
	var req estateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	d := mustDashboard(r)
	if err := d.SelectEstate(strings.TrimSpace(req.Estate)); err != nil {
		writeDashboardError(w, err)
		return
	}
	st, err := d.State(r.Context())
	if err != nil {
		a.log.Error("state", zap.Error(err))
		http.Error(w, "catalog error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"estate": st.Estate, "blocks": st.Blocks})
}

// handleUpdateScenario moves one slider, or all four when parameters is set.
func (a *App) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	d := mustDashboard(r)

	var (
		snap scenario.Snapshot
		err  error
	)
	switch {
	case req.Parameters != nil:
		snap, err = d.SetParameters(*req.Parameters)
	case req.Name == "" || req.Value == nil:
		http.Error(w, "name and value are required", http.StatusBadRequest)
		return
	default:
		snap, err = d.UpdateParameter(req.Name, *req.Value)
	}
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handleResetScenario restores the default sliders.
func (a *App) handleResetScenario(w http.ResponseWriter, r *http.Request) {
	snap, err := mustDashboard(r).ResetScenario()
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// handlePrompt answers a free-text question with a canned response.
func (a *App) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	ans, err := mustDashboard(r).Ask(req.Text)
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// handleAction runs a dashboard button.
func (a *App) handleAction(w http.ResponseWriter, r *http.Request) {
	res, err := mustDashboard(r).Do(chi.URLParam(r, "action"))
	if err != nil {
		writeDashboardError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// writeDashboardError maps domain errors to status codes.
func writeDashboardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrUnknownEstate),
		errors.Is(err, scenario.ErrUnknownParameter),
		errors.Is(err, dashboard.ErrUnknownAction):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, dashboard.ErrUnknownSection), errors.Is(err, dashboard.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, dashboard.ErrClosed):
		http.Error(w, err.Error(), http.StatusGone)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
