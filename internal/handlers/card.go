// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"qacategory/internal/summary"
)

// Card serves category hover cards.
type Card struct {
	cards Cards
}

// NewCard creates a Card handler.
func NewCard(cards Cards) *Card {
	return &Card{cards: cards}
}

// Get handles GET /api/categories/{id}/card.
func (h *Card) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	p, err := h.cards.Get(r.Context(), id)
	if errors.Is(err, summary.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	if err != nil {
		slog.Error("category card failed", "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}
