// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"qacategory/internal/models"
	"qacategory/internal/store"
	"qacategory/internal/validation"
)

// maxMetaBody caps the size of a metadata write.
const maxMetaBody = 16 << 10

// Meta reads and writes category metadata. Every successful write drops
// the category's cached hover card.
type Meta struct {
	categories store.CategoryReader
	meta       MetadataStore
	media      MediaFinder
	cards      Cards
	validate   *validation.Validator
}

// NewMeta creates a Meta handler. media may be nil when object storage is
// not configured; image ids are then accepted unchecked.
func NewMeta(categories store.CategoryReader, meta MetadataStore, media MediaFinder, cards Cards) *Meta {
	return &Meta{
		categories: categories,
		meta:       meta,
		media:      media,
		cards:      cards,
		validate:   validation.New(),
	}
}

type imageRequest struct {
	URL string `json:"url" validate:"required,url,max=2048"`
	ID  int64  `json:"id" validate:"required,gt=0"`
}

// metaRequest is a partial metadata write. Omitted fields keep their
// stored value; an empty string clears one.
type metaRequest struct {
	Image     *imageRequest `json:"image"`
	IconClass *string       `json:"icon_class" validate:"omitempty,max=100,cssclass"`
	Color     *string       `json:"color" validate:"omitempty,hexcolor"`
}

func (m metaRequest) update() models.MetadataUpdate {
	u := models.MetadataUpdate{IconClass: m.IconClass, Color: m.Color}
	if m.Image != nil {
		u.Image = &models.Image{URL: m.Image.URL, ID: m.Image.ID}
	}
	return u
}

// Get handles GET /api/categories/{id}/meta.
func (h *Meta) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.category(w, r)
	if !ok {
		return
	}

	meta, err := h.meta.Get(r.Context(), c.ID)
	if err != nil {
		slog.Error("get category meta failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// Put handles PUT /api/categories/{id}/meta.
func (h *Meta) Put(w http.ResponseWriter, r *http.Request) {
	c, ok := h.category(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var req metaRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMetaBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.validate.Validate(req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": verr.Fields,
			})
			return
		}
		slog.Error("validate category meta failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if req.Image != nil && h.media != nil {
		m, err := h.media.FindByID(ctx, req.Image.ID)
		if err != nil {
			slog.Error("find media failed", "media_id", req.Image.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if m == nil || !m.IsImage() {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": map[string]string{"image.id": "must reference an uploaded image"},
			})
			return
		}
	}

	update := req.update()
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}
	if err := h.meta.Put(ctx, c.ID, update); err != nil {
		slog.Error("put category meta failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	h.cards.Invalidate(ctx, c.ID)
	slog.Info("category meta updated", "category_id", c.ID)

	meta, err := h.meta.Get(ctx, c.ID)
	if err != nil {
		slog.Error("get category meta failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// category loads the category named by the {id} URL parameter, writing
// the error response itself when it cannot.
func (h *Meta) category(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	id, ok := categoryID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid category id")
		return nil, false
	}
	c, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		slog.Error("get category failed", "category_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return nil, false
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return nil, false
	}
	return c, true
}
