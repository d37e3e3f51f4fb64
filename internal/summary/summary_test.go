// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package summary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qacategory/internal/cache"
	"qacategory/internal/models"
	"qacategory/internal/route"
	"qacategory/internal/store"
)

type fixture struct {
	categories *store.MemoryCategoryStore
	meta       *store.MemoryMetaStore
	cache      *cache.MemoryCache
	now        time.Time
	svc        *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	parent := int64(1)
	f := &fixture{
		categories: store.NewMemoryCategoryStore(
			models.Category{ID: 1, Name: "Programming", Slug: "programming", Description: "Code.", ItemCount: 5},
			models.Category{ID: 2, Name: "Go", Slug: "go", ParentID: &parent, ItemCount: 1},
			models.Category{ID: 3, Name: "Databases", Slug: "databases", ParentID: &parent},
		),
		meta: store.NewMemoryMetaStore(),
		now:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	f.cache = cache.NewMemoryCache().WithClock(func() time.Time { return f.now })
	links := route.New(route.Options{
		SiteURL:        "https://example.com",
		BasePath:       "/questions/",
		CategoriesSlug: "categories",
		CategorySlug:   "category",
		Pretty:         true,
	}, f.categories)
	f.svc = NewService(f.categories, f.meta, links, f.cache, time.Hour)
	return f
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestGetBuildsPayload(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)

	want := &Payload{
		Template:      "category-hover",
		ID:            1,
		Name:          "Programming",
		Link:          "https://example.com/questions/category/programming/",
		Image:         `<div class="ap-category-defimage" style="background:#333;height:90px;"></div>`,
		Icon:          `<span class="ap-category-icon apicon-category" style="background:#333;"></span>`,
		Description:   "Code.",
		QuestionCount: "5 Questions",
		SubCategory:   SubCategory{Have: true, Count: "2 Sub categories"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestGetServesFromCacheWithinTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)

	f.now = f.now.Add(59 * time.Minute)
	second, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, mustJSON(t, first), mustJSON(t, second))
	assert.Equal(t, 1, f.categories.Calls("GetByID"))
	assert.Equal(t, 1, f.categories.Calls("CountChildren"))
}

func TestGetRecomputesAfterExpiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, 2)
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Get(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, f.categories.Calls("GetByID"))
}

func TestGetLeafHasNoSubCategories(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, p.SubCategory.Have)
	assert.Equal(t, "0 Sub categories", p.SubCategory.Count)
	assert.Equal(t, "0 Questions", p.QuestionCount)

	p, err = f.svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "1 Question", p.QuestionCount)
}

func TestGetNotFoundIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Equal(t, 0, f.cache.Len())

	_, err = f.svc.Get(ctx, 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.Equal(t, 2, f.categories.Calls("GetByID"))
}

func TestGetStoreFailurePropagates(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("store unavailable")
	f.categories.FailWith(boom)

	_, err := f.svc.Get(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCategoryNotFound)
}

type brokenCache struct{ sets int }

func (b *brokenCache) Get(context.Context, int64) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (b *brokenCache) Set(context.Context, int64, []byte, time.Duration) error {
	b.sets++
	return errors.New("connection refused")
}

func (b *brokenCache) Delete(context.Context, int64) error {
	return errors.New("connection refused")
}

func TestGetDegradesWhenCacheFails(t *testing.T) {
	f := newFixture(t)
	bc := &brokenCache{}
	svc := NewService(f.categories, f.meta, f.svc.links, bc, 0)

	p, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Programming", p.Name)
	assert.Equal(t, 1, bc.sets)

	svc.Invalidate(context.Background(), 1)
}

func TestGetWithoutCache(t *testing.T) {
	f := newFixture(t)
	svc := NewService(f.categories, f.meta, f.svc.links, nil, 0)

	for i := 0; i < 2; i++ {
		_, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.categories.Calls("GetByID"))
}

type recordingLog struct{ entries []int64 }

func (r *recordingLog) Log(_ context.Context, entityType string, id int64, action string) {
	r.entries = append(r.entries, id)
}

func TestInvalidate(t *testing.T) {
	f := newFixture(t)
	log := &recordingLog{}
	f.svc.WithInvalidationLog(log)
	ctx := context.Background()

	_, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)

	color := "#ff0000"
	require.NoError(t, f.meta.Put(ctx, 1, models.MetadataUpdate{Color: &color}))
	f.svc.Invalidate(ctx, 1)

	p, err := f.svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, p.Icon, "background:#ff0000;")
	assert.Equal(t, 2, f.categories.Calls("GetByID"))
	assert.Equal(t, []int64{1}, log.entries)
}

type fakeImages struct {
	markup string
	err    error
}

func (f fakeImages) RenderImage(_ context.Context, mediaID int64, w, h int) (string, error) {
	return f.markup, f.err
}

func TestGetImage(t *testing.T) {
	ctx := context.Background()
	placeholder := `<div class="ap-category-defimage" style="background:#333;height:90px;"></div>`

	tests := []struct {
		name   string
		images ImageRenderer
		want   string
	}{
		{"rendered", fakeImages{markup: `<img src="x">`}, `<img src="x">`},
		{"empty render", fakeImages{}, placeholder},
		{"render error", fakeImages{err: errors.New("s3 down")}, placeholder},
		{"no renderer", nil, placeholder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.meta.Put(ctx, 1, models.MetadataUpdate{
				Image: &models.Image{URL: "https://cdn.example.com/x.png", ID: 4},
			}))
			if tt.images != nil {
				f.svc.WithImages(tt.images)
			}
			p, err := f.svc.Get(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Image)
		})
	}
}

func TestHooks(t *testing.T) {
	f := newFixture(t)
	f.svc.WithHooks(func(p *Payload) { p.Description = "adjusted" })

	p, err := f.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "adjusted", p.Description)

	// The adjusted card is what gets cached.
	p, err = f.svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "adjusted", p.Description)
}

func TestPayloadJSONShape(t *testing.T) {
	f := newFixture(t)
	p, err := f.svc.Get(context.Background(), 3)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(mustJSON(t, p)), &got))

	var keys []string
	for k := range got {
		keys = append(keys, k)
	}
	want := []string{"template", "id", "name", "link", "image", "icon", "description", "question_count", "sub_category"}
	assert.ElementsMatch(t, want, keys)
	assert.Equal(t, map[string]any{"have": false, "count": "0 Sub categories"}, got["sub_category"])
}
