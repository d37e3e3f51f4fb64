// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qacategory/internal/store"
)

type fakeInvalidationLog struct {
	entries []store.CacheLogEntry
	err     error
	limit   int
}

func (f *fakeInvalidationLog) RecentEntries(_ context.Context, limit int) ([]store.CacheLogEntry, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[:min(limit, len(f.entries))], nil
}

func listInvalidations(h *Invalidations, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestInvalidationsList(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	log := &fakeInvalidationLog{entries: []store.CacheLogEntry{
		{ID: 2, EntityType: "category_card", EntityID: 1, Action: "invalidate", InvalidatedAt: at},
		{ID: 1, EntityType: "category_card", EntityID: 5, Action: "invalidate", InvalidatedAt: at.Add(-time.Minute)},
	}}
	h := NewInvalidations(log)

	rec := listInvalidations(h, "/api/cache/invalidations")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, log.limit)

	entries := decode(t, rec.Body)["entries"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.EqualValues(t, 1, first["entity_id"])
	assert.Equal(t, "2026-10-01T12:00:00Z", first["invalidated_at"])

	listInvalidations(h, "/api/cache/invalidations?limit=1000")
	assert.Equal(t, 100, log.limit, "limit is capped")
}

func TestInvalidationsEmptyAndErrors(t *testing.T) {
	h := NewInvalidations(&fakeInvalidationLog{})
	rec := listInvalidations(h, "/api/cache/invalidations?limit=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"entries":[]}`, rec.Body.String())

	for _, bad := range []string{"0", "-1", "ten"} {
		rec := listInvalidations(h, "/api/cache/invalidations?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", bad)
	}

	failing := NewInvalidations(&fakeInvalidationLog{err: errors.New("db down")})
	assert.Equal(t, http.StatusInternalServerError, listInvalidations(failing, "/api/cache/invalidations").Code)
}
