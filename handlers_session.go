package main

import (
	"encoding/json"
	"net/http"
	"time"
)

const sessionTokenTTL = 24 * time.Hour

// handleCreateSession opens a dashboard and returns a token naming it.
func (a *App) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	d, err := a.sessions.Create()
	if err != nil {
		// cap reached or shutting down
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	tok, err := signSessionToken(a.cfg.SessionSecret, d.ID(), sessionTokenTTL)
	if err != nil {
		_ = a.sessions.Close(d.ID())
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResp{ID: d.ID(), Token: tok})
}

// handleDisposeSession closes the caller's dashboard and stops its ticker.
func (a *App) handleDisposeSession(w http.ResponseWriter, r *http.Request) {
	d := mustDashboard(r)
	if err := a.sessions.Close(d.ID()); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
