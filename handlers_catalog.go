package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"coffeeintel/catalog"
)

// handleListBlocks returns the blocks of ?estate=, or every block without it.
func (a *App) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	estate := strings.TrimSpace(r.URL.Query().Get("estate"))
	if estate != "" && !a.fixtures.ValidEstate(estate) {
		http.Error(w, "unknown estate", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	blocks, err := a.catalog.Blocks(ctx)
	if err != nil {
		a.log.Error("list blocks", zap.Error(err))
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if estate != "" {
		blocks = catalog.FilterBlocks(blocks, estate)
	}
	writeJSON(w, http.StatusOK, blocks)
}

// handleListModels returns the model registry.
func (a *App) handleListModels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	registry, err := a.catalog.Models(ctx)
	if err != nil {
		a.log.Error("list models", zap.Error(err))
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, registry)
}
