// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"qacategory/internal/models"
	"qacategory/internal/store"
	"qacategory/internal/validation"
)

// maxMediaBody caps the size of a media registration.
const maxMediaBody = 32 << 10

// MediaWriter stores media records.
type MediaWriter interface {
	Create(ctx context.Context, m *models.Media) (*models.Media, error)
	Delete(ctx context.Context, id int64) error
}

// VariantWriter stores the resized renditions of a media record.
type VariantWriter interface {
	CreateBatch(ctx context.Context, variants []models.MediaVariant) error
}

// Media registers images already uploaded to a bucket so category
// metadata can reference them by id.
type Media struct {
	media    MediaWriter
	variants VariantWriter
	buckets  []string
	validate *validation.Validator
}

// NewMedia creates a Media handler. When buckets is non-empty a record
// must name one of them.
func NewMedia(media MediaWriter, variants VariantWriter, buckets ...string) *Media {
	return &Media{
		media:    media,
		variants: variants,
		buckets:  slices.DeleteFunc(slices.Clone(buckets), func(b string) bool { return b == "" }),
		validate: validation.New(),
	}
}

type variantRequest struct {
	Name   string `json:"name" validate:"required,max=50"`
	Width  int    `json:"width" validate:"gt=0"`
	Height int    `json:"height" validate:"gt=0"`
	S3Key  string `json:"s3_key" validate:"required,max=1024"`
}

type mediaRequest struct {
	Filename    string           `json:"filename" validate:"required,max=255"`
	ContentType string           `json:"content_type" validate:"required,max=100"`
	Bucket      string           `json:"bucket" validate:"required,max=63"`
	S3Key       string           `json:"s3_key" validate:"required,max=1024"`
	AltText     *string          `json:"alt_text" validate:"omitempty,max=500"`
	Width       int              `json:"width" validate:"gte=0"`
	Height      int              `json:"height" validate:"gte=0"`
	Variants    []variantRequest `json:"variants" validate:"max=10,dive"`
}

type mediaResponse struct {
	Media    *models.Media         `json:"media"`
	Variants []models.MediaVariant `json:"variants"`
}

// Register handles POST /api/media.
func (h *Media) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req mediaRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMediaBody))
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
		slog.Error("validate media failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	m := &models.Media{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Bucket:      req.Bucket,
		S3Key:       req.S3Key,
		AltText:     req.AltText,
		Width:       req.Width,
		Height:      req.Height,
	}
	if fields := h.check(m); len(fields) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	created, err := h.media.Create(ctx, m)
	if errors.Is(err, store.ErrMediaExists) {
		writeError(w, http.StatusConflict, "media already registered for this key")
		return
	}
	if err != nil {
		slog.Error("create media failed", "s3_key", m.S3Key, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	variants := make([]models.MediaVariant, len(req.Variants))
	for i, v := range req.Variants {
		variants[i] = models.MediaVariant{
			MediaID: created.ID,
			Name:    v.Name,
			Width:   v.Width,
			Height:  v.Height,
			S3Key:   v.S3Key,
		}
	}
	if len(variants) > 0 {
		if err := h.variants.CreateBatch(ctx, variants); err != nil {
			slog.Error("create media variants failed", "media_id", created.ID, "error", err)
			if derr := h.media.Delete(ctx, created.ID); derr != nil {
				slog.Error("roll back media failed", "media_id", created.ID, "error", derr)
			}
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
	}
	slices.SortFunc(variants, func(a, b models.MediaVariant) int { return a.Width - b.Width })

	slog.Info("media registered", "media_id", created.ID, "s3_key", created.S3Key, "variants", len(variants))
	writeJSON(w, http.StatusCreated, mediaResponse{Media: created, Variants: variants})
}

// check applies the rules struct tags cannot express.
func (h *Media) check(m *models.Media) map[string]string {
	fields := make(map[string]string)
	if !m.IsImage() {
		fields["content_type"] = "must be an image type"
	}
	if len(h.buckets) > 0 && !slices.Contains(h.buckets, m.Bucket) {
		fields["bucket"] = "must be a configured bucket"
	}
	return fields
}
