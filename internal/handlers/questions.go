// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"qacategory/internal/listing"
	"qacategory/internal/models"
	"qacategory/internal/store"
)

// Questions serves the main question listing with the category
// restriction composed from the request and the active filters.
type Questions struct {
	composer  *listing.Composer
	questions QuestionLister
	perPage   int
}

// NewQuestions creates a Questions handler. A nil composer uses one
// without hooks.
func NewQuestions(composer *listing.Composer, questions QuestionLister, perPage int) *Questions {
	if composer == nil {
		composer = listing.NewComposer()
	}
	if perPage < 1 {
		perPage = 20
	}
	return &Questions{composer: composer, questions: questions, perPage: perPage}
}

type questionsResponse struct {
	Questions []models.Question  `json:"questions"`
	Predicate *listing.Predicate `json:"predicate"`
	Page      int                `json:"page"`
	MaxPages  int                `json:"max_pages"`
	Total     int                `json:"total"`

	// CategoryFilter reports whether the category filter widget applies,
	// which it does unless the request names categories explicitly.
	CategoryFilter bool `json:"category_filter"`
}

// List handles GET /api/questions.
func (h *Questions) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := listing.RequestFromQuery(r.URL.Query())
	p, _ := h.composer.Compose(req, listing.FilterStateFromRequest(r))
	page := pageParam(r)

	total, err := h.questions.Count(ctx, p)
	if err != nil {
		slog.Error("count questions failed", "predicate", p.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	questions, err := h.questions.List(ctx, store.QuestionQuery{
		Predicate: p,
		Limit:     h.perPage,
		Offset:    pageOffset(h.perPage, page),
	})
	if err != nil {
		slog.Error("list questions failed", "predicate", p.String(), "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Questions:      questions,
		Predicate:      p,
		Page:           page,
		MaxPages:       maxPages(total, h.perPage),
		Total:          total,
		CategoryFilter: len(req.Categories) == 0,
	})
}
