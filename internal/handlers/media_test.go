// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qacategory/internal/models"
	"qacategory/internal/store"
)

// memoryMedia keeps registered media and variants in slices.
type memoryMedia struct {
	media      []models.Media
	variants   []models.MediaVariant
	deleted    []int64
	variantErr error
}

func (m *memoryMedia) Create(_ context.Context, in *models.Media) (*models.Media, error) {
	for _, existing := range m.media {
		if existing.S3Key == in.S3Key {
			return nil, fmt.Errorf("create media %s: %w", in.S3Key, store.ErrMediaExists)
		}
	}
	created := *in
	created.ID = int64(len(m.media) + 1)
	m.media = append(m.media, created)
	return &created, nil
}

func (m *memoryMedia) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *memoryMedia) CreateBatch(_ context.Context, variants []models.MediaVariant) error {
	if m.variantErr != nil {
		return m.variantErr
	}
	m.variants = append(m.variants, variants...)
	return nil
}

func postMedia(h *Media, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/media", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Register(rec, req)
	return rec
}

func TestMediaRegister(t *testing.T) {
	reg := &memoryMedia{}
	h := NewMedia(reg, reg, "qacategory-public", "qacategory-private")

	rec := postMedia(h, `{
		"filename": "go.png", "content_type": "image/png",
		"bucket": "qacategory-public", "s3_key": "media/go.png",
		"alt_text": "Gopher", "width": 1200, "height": 120,
		"variants": [
			{"name": "lg", "width": 900, "height": 90, "s3_key": "media/go-lg.png"},
			{"name": "sm", "width": 300, "height": 30, "s3_key": "media/go-sm.png"}
		]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec.Body)
	media := body["media"].(map[string]any)
	assert.EqualValues(t, 1, media["id"])
	assert.Equal(t, "Gopher", media["alt_text"])

	variants := body["variants"].([]any)
	require.Len(t, variants, 2)
	assert.Equal(t, "sm", variants[0].(map[string]any)["name"], "narrowest first")

	require.Len(t, reg.variants, 2)
	for _, v := range reg.variants {
		assert.Equal(t, int64(1), v.MediaID)
	}
}

func TestMediaRegisterWithoutVariants(t *testing.T) {
	reg := &memoryMedia{}
	h := NewMedia(reg, reg)

	rec := postMedia(h, `{"filename":"a.webp","content_type":"image/webp","bucket":"anything","s3_key":"a.webp"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Empty(t, decode(t, rec.Body)["variants"])
	assert.Empty(t, reg.variants)
}

func TestMediaRegisterRejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		code  int
		field string
	}{
		{"bad json", `{"filename":`, http.StatusBadRequest, ""},
		{"unknown field", `{"filename":"a.png","owner":1}`, http.StatusBadRequest, ""},
		{"missing key", `{"filename":"a.png","content_type":"image/png","bucket":"qacategory-public"}`, http.StatusUnprocessableEntity, "s3_key"},
		{"not an image", `{"filename":"a.pdf","content_type":"application/pdf","bucket":"qacategory-public","s3_key":"a.pdf"}`, http.StatusUnprocessableEntity, "content_type"},
		{"foreign bucket", `{"filename":"a.png","content_type":"image/png","bucket":"elsewhere","s3_key":"a.png"}`, http.StatusUnprocessableEntity, "bucket"},
		{"negative width", `{"filename":"a.png","content_type":"image/png","bucket":"qacategory-public","s3_key":"a.png","width":-5}`, http.StatusUnprocessableEntity, "width"},
		{"variant without size", `{"filename":"a.png","content_type":"image/png","bucket":"qacategory-public","s3_key":"a.png","variants":[{"name":"sm","s3_key":"a-sm.png"}]}`, http.StatusUnprocessableEntity, "variants[0].width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &memoryMedia{}
			rec := postMedia(NewMedia(reg, reg, "qacategory-public"), tt.body)

			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.field != "" {
				fields := decode(t, rec.Body)["fields"].(map[string]any)
				assert.Contains(t, fields, tt.field)
			}
			assert.Empty(t, reg.media, "nothing stored")
		})
	}
}

func TestMediaRegisterDuplicateKey(t *testing.T) {
	reg := &memoryMedia{}
	h := NewMedia(reg, reg)
	body := `{"filename":"a.png","content_type":"image/png","bucket":"b","s3_key":"media/a.png"}`

	require.Equal(t, http.StatusCreated, postMedia(h, body).Code)
	rec := postMedia(h, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestMediaRegisterVariantFailureRollsBack(t *testing.T) {
	reg := &memoryMedia{variantErr: errors.New("unique violation on (media_id, name)")}
	h := NewMedia(reg, reg)

	rec := postMedia(h, `{"filename":"a.png","content_type":"image/png","bucket":"b","s3_key":"a.png",
		"variants":[{"name":"sm","width":10,"height":10,"s3_key":"a-sm.png"}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []int64{1}, reg.deleted)
}
