// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the shared fixture for handler tests: in-memory
// category and metadata stores, a fake question lister and a chi router
// mounting every handler the way the application does.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"qacategory/internal/cache"
	"qacategory/internal/listing"
	"qacategory/internal/models"
	"qacategory/internal/route"
	"qacategory/internal/store"
	"qacategory/internal/summary"
)

// fakeQuestions pages over a fixed question list and records the queries
// it receives.
type fakeQuestions struct {
	mu      sync.Mutex
	items   []models.Question
	err     error
	listed  []store.QuestionQuery
	counted []*listing.Predicate
}

func (f *fakeQuestions) List(_ context.Context, q store.QuestionQuery) ([]models.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = append(f.listed, q)
	if f.err != nil {
		return nil, f.err
	}
	if q.Offset >= len(f.items) {
		return nil, nil
	}
	return f.items[q.Offset:min(q.Offset+q.Limit, len(f.items))], nil
}

func (f *fakeQuestions) Count(_ context.Context, p *listing.Predicate) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counted = append(f.counted, p)
	if f.err != nil {
		return 0, f.err
	}
	return len(f.items), nil
}

func (f *fakeQuestions) lastQuery() store.QuestionQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listed[len(f.listed)-1]
}

// fakeMedia knows a fixed set of media items.
type fakeMedia map[int64]*models.Media

func (f fakeMedia) FindByID(_ context.Context, id int64) (*models.Media, error) {
	return f[id], nil
}

type testEnv struct {
	Categories *store.MemoryCategoryStore
	Meta       *store.MemoryMetaStore
	Questions  *fakeQuestions
	Cache      *cache.MemoryCache
	Cards      *summary.Service
	Routes     *route.Resolver
	Router     http.Handler
}

func testRouteOptions(pretty bool) route.Options {
	return route.Options{
		SiteURL:        "https://example.com",
		BasePath:       "/questions/",
		CategoriesSlug: "categories",
		CategorySlug:   "category",
		Pretty:         pretty,
	}
}

// newTestEnv builds the fixture. The category tree is:
//
//	1 Programming (5)  -> 2 Go (1), 3 Databases (0)
//	4 Meta (2)
//	5 Operations (9)
func newTestEnv(t *testing.T, pretty bool) *testEnv {
	t.Helper()

	programming := int64(1)
	env := &testEnv{
		Categories: store.NewMemoryCategoryStore(
			models.Category{ID: 1, Name: "Programming", Slug: "programming", Description: "Writing code.", ItemCount: 5},
			models.Category{ID: 2, Name: "Go", Slug: "go", ParentID: &programming, ItemCount: 1},
			models.Category{ID: 3, Name: "Databases", Slug: "databases", ParentID: &programming},
			models.Category{ID: 4, Name: "Meta", Slug: "meta", ItemCount: 2},
			models.Category{ID: 5, Name: "Operations", Slug: "operations", ItemCount: 9},
		),
		Meta: store.NewMemoryMetaStore(),
		Questions: &fakeQuestions{items: []models.Question{
			{ID: 30, Title: "How do I vendor modules?", Slug: "how-do-i-vendor-modules", CreatedAt: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
			{ID: 20, Title: "Is Postgres enough?", Slug: "is-postgres-enough", CreatedAt: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
			{ID: 10, Title: "Why channels?", Slug: "why-channels", CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		}},
		Cache: cache.NewMemoryCache(),
	}

	color := "#123456"
	require.NoError(t, env.Meta.Put(context.Background(), 1, models.MetadataUpdate{Color: &color}))

	env.Routes = route.New(testRouteOptions(pretty), env.Categories)
	env.Cards = summary.NewService(env.Categories, env.Meta, env.Routes, env.Cache, time.Hour)

	directory := NewDirectory(env.Routes, env.Categories, env.Meta, env.Questions, env.Cards, DirectoryOptions{
		Title:            "Categories",
		PerPage:          2,
		OrderBy:          "count",
		Order:            "DESC",
		ImageHeight:      150,
		QuestionsPerPage: 2,
	})
	questions := NewQuestions(nil, env.Questions, 2)
	card := NewCard(env.Cards)
	filters := NewFilters(env.Categories)
	meta := NewMeta(env.Categories, env.Meta, fakeMedia{
		10: {ID: 10, Filename: "go.png", ContentType: "image/png"},
		11: {ID: 11, Filename: "notes.pdf", ContentType: "application/pdf"},
	}, env.Cards)

	r := chi.NewRouter()
	r.Get("/questions/*", directory.Serve)
	r.Get("/api/questions", questions.List)
	r.Get("/api/categories/{id}/card", card.Get)
	r.Get("/api/categories/{id}/meta", meta.Get)
	r.Put("/api/categories/{id}/meta", meta.Put)
	r.Get("/api/filters/category", filters.Category)
	env.Router = r

	return env
}

// do sends a request through the router.
func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) get(target string) *httptest.ResponseRecorder {
	return env.do(httptest.NewRequest(http.MethodGet, target, nil))
}

// decode unmarshals a JSON response body into a generic map.
func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

// names returns the "name" field of every object in a JSON array.
func names(list any) []string {
	var out []string
	for _, v := range list.([]any) {
		out = append(out, v.(map[string]any)["name"].(string))
	}
	return out
}
