// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP surface of the category
// directory: the directory pages, the main question listing, hover cards,
// the category filter and category metadata.
package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"qacategory/internal/listing"
	"qacategory/internal/models"
	"qacategory/internal/route"
	"qacategory/internal/store"
	"qacategory/internal/summary"
)

// QuestionLister lists questions matching a listing predicate.
type QuestionLister interface {
	List(ctx context.Context, q store.QuestionQuery) ([]models.Question, error)
	Count(ctx context.Context, p *listing.Predicate) (int, error)
}

// Cards serves and invalidates category hover cards.
type Cards interface {
	Get(ctx context.Context, categoryID int64) (*summary.Payload, error)
	Invalidate(ctx context.Context, categoryID int64)
	Image(ctx context.Context, meta *models.CategoryMetadata, height int) string
}

// MetadataStore reads and merge-writes category metadata.
type MetadataStore interface {
	store.MetadataReader
	store.MetadataWriter
}

// MediaFinder checks that a referenced media item exists.
type MediaFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Media, error)
}

// writeJSON serializes data as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// categoryID parses the {id} URL parameter. ok is false for anything that
// is not a positive integer.
func categoryID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageParam reads the 1-based page from the query string.
func pageParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get(route.ParamPaged))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// pageOffset returns the row offset of a 1-based page. A page too far out
// to address saturates at math.MaxInt, which every store reads as past the
// end.
func pageOffset(perPage, page int) int {
	if perPage < 1 || page < 2 {
		return 0
	}
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return perPage * (page - 1)
}

// maxPages returns the number of pages needed for total items.
func maxPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
