// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"qacategory/internal/store"
)

const (
	defaultInvalidations = 20
	maxInvalidations     = 100
)

// InvalidationLog lists recorded hover card invalidations.
type InvalidationLog interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Invalidations shows why cached hover cards were dropped.
type Invalidations struct {
	log InvalidationLog
}

// NewInvalidations creates an Invalidations handler.
func NewInvalidations(log InvalidationLog) *Invalidations {
	return &Invalidations{log: log}
}

// List handles GET /api/cache/invalidations?limit=N. limit defaults to 20
// and is capped at 100.
func (h *Invalidations) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultInvalidations
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxInvalidations)
	}

	entries, err := h.log.RecentEntries(r.Context(), limit)
	if err != nil {
		slog.Error("list cache invalidations failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if entries == nil {
		entries = []store.CacheLogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
