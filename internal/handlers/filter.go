// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"qacategory/internal/listing"
	"qacategory/internal/models"
	"qacategory/internal/store"
)

// filterLimit caps the number of categories offered by the filter.
const filterLimit = 10

// Filters serves the list filters of the question listing.
type Filters struct {
	categories store.DirectoryReader
}

// NewFilters creates a Filters handler.
func NewFilters(categories store.DirectoryReader) *Filters {
	return &Filters{categories: categories}
}

// FilterItem is one selectable filter value.
type FilterItem struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

type filterResponse struct {
	Items       []FilterItem `json:"items"`
	ActiveLabel string       `json:"active_label"`
}

// Category handles GET /api/filters/category. Without a search term the
// most used top-level categories are offered.
func (h *Filters) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	active := listing.FilterStateFromRequest(r).Get(listing.CategoryFilter)

	var (
		cats []models.Category
		err  error
	)
	if search != "" {
		cats, err = h.categories.Search(ctx, search, filterLimit)
	} else {
		cats, err = h.categories.ListTopLevel(ctx, store.ListOptions{Limit: filterLimit, OrderBy: "count", Order: "DESC"})
	}
	if err != nil {
		slog.Error("load filter categories failed", "search", search, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	selected := make(map[int64]bool, len(active))
	for _, id := range active {
		selected[id] = true
	}

	resp := filterResponse{Items: make([]FilterItem, 0, len(cats))}
	for _, c := range cats {
		resp.Items = append(resp.Items, FilterItem{
			Key:    listing.CategoryFilter,
			Value:  strconv.FormatInt(c.ID, 10),
			Label:  c.Name,
			Active: selected[c.ID],
		})
	}

	if len(active) > 0 {
		named, err := h.categories.FindByIDs(ctx, active, 2)
		if err != nil {
			slog.Error("load active filter categories failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		resp.ActiveLabel = ActiveLabel(named, len(active))
	}

	writeJSON(w, http.StatusOK, resp)
}

// ActiveLabel summarizes the selected categories: the first two names,
// then the number of remaining selections, e.g. "Go, Rust, 3+".
func ActiveLabel(named []models.Category, selected int) string {
	names := make([]string, 0, 2)
	for i := 0; i < len(named) && i < 2; i++ {
		names = append(names, named[i].Name)
	}
	label := strings.Join(names, ", ")
	if selected > 2 {
		label += fmt.Sprintf(", %d+", selected-2)
	}
	return label
}
