// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"qacategory/internal/models"
)

// MemoryCategoryStore is an in-memory CategoryReader. It records how often
// each method is called so callers can assert on store traffic.
type MemoryCategoryStore struct {
	mu         sync.RWMutex
	categories map[int64]models.Category
	calls      map[string]int
	err        error
}

// NewMemoryCategoryStore returns a store holding the given categories.
func NewMemoryCategoryStore(categories ...models.Category) *MemoryCategoryStore {
	s := &MemoryCategoryStore{
		categories: make(map[int64]models.Category),
		calls:      make(map[string]int),
	}
	for _, c := range categories {
		s.Add(c)
	}
	return s
}

// Add inserts or replaces a category.
func (s *MemoryCategoryStore) Add(c models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// FailWith makes every subsequent call return err. Pass nil to recover.
func (s *MemoryCategoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times method was invoked.
func (s *MemoryCategoryStore) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[method]
}

func (s *MemoryCategoryStore) record(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	return s.err
}

// GetByID returns the category with id, or nil.
func (s *MemoryCategoryStore) GetByID(_ context.Context, id int64) (*models.Category, error) {
	if err := s.record("GetByID"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetBySlug returns the category with slug, or nil.
func (s *MemoryCategoryStore) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	if err := s.record("GetBySlug"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, nil
}

// GetChildren returns the direct children of parentID ordered by id.
func (s *MemoryCategoryStore) GetChildren(_ context.Context, parentID int64) ([]models.Category, error) {
	if err := s.record("GetChildren"); err != nil {
		return nil, err
	}
	return s.children(parentID), nil
}

// CountChildren returns the number of direct children of parentID.
func (s *MemoryCategoryStore) CountChildren(_ context.Context, parentID int64) (int, error) {
	if err := s.record("CountChildren"); err != nil {
		return 0, err
	}
	return len(s.children(parentID)), nil
}

func (s *MemoryCategoryStore) children(parentID int64) []models.Category {
	return s.filter(func(c models.Category) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	})
}

// ListTopLevel returns one page of categories without a parent, ordered
// like CategoryStore.ListTopLevel.
func (s *MemoryCategoryStore) ListTopLevel(_ context.Context, opts ListOptions) ([]models.Category, error) {
	if err := s.record("ListTopLevel"); err != nil {
		return nil, err
	}
	items := s.filter(func(c models.Category) bool { return c.ParentID == nil })

	desc := !strings.EqualFold(opts.Order, "ASC")
	key := strings.ToLower(opts.OrderBy)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		var less, equal bool
		switch key {
		case "name":
			less, equal = a.Name < b.Name, a.Name == b.Name
		case "slug":
			less, equal = a.Slug < b.Slug, a.Slug == b.Slug
		case "id":
			less, equal = a.ID < b.ID, a.ID == b.ID
		default:
			less, equal = a.ItemCount < b.ItemCount, a.ItemCount == b.ItemCount
		}
		if equal {
			less = a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})

	if opts.Offset >= len(items) {
		return []models.Category{}, nil
	}
	opts.Offset = max(opts.Offset, 0)
	items = items[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items, nil
}

// CountTopLevel returns the number of categories without a parent.
func (s *MemoryCategoryStore) CountTopLevel(context.Context) (int, error) {
	if err := s.record("CountTopLevel"); err != nil {
		return 0, err
	}
	return len(s.filter(func(c models.Category) bool { return c.ParentID == nil })), nil
}

// Search returns categories whose name contains term, ordered by name.
func (s *MemoryCategoryStore) Search(_ context.Context, term string, limit int) ([]models.Category, error) {
	if err := s.record("Search"); err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	items := s.filter(func(c models.Category) bool {
		return strings.Contains(strings.ToLower(c.Name), term)
	})
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items, nil
}

// FindByIDs returns the known categories among ids, in the order given.
func (s *MemoryCategoryStore) FindByIDs(_ context.Context, ids []int64, limit int) ([]models.Category, error) {
	if err := s.record("FindByIDs"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Category{}
	for _, id := range ids {
		if limit > 0 && len(out) == limit {
			break
		}
		if c, ok := s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// filter returns the categories matching keep, ordered by id.
func (s *MemoryCategoryStore) filter(keep func(models.Category) bool) []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Category{}
	for _, c := range s.categories {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MemoryMetaStore is an in-memory metadata store with the same merge
// semantics as MetaStore.
type MemoryMetaStore struct {
	mu   sync.RWMutex
	meta map[int64]models.CategoryMetadata
	puts int
}

// NewMemoryMetaStore returns an empty MemoryMetaStore.
func NewMemoryMetaStore() *MemoryMetaStore {
	return &MemoryMetaStore{meta: make(map[int64]models.CategoryMetadata)}
}

// Get returns a copy of the stored metadata, or an empty record.
func (s *MemoryMetaStore) Get(_ context.Context, categoryID int64) (*models.CategoryMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meta[categoryID]
	if !ok {
		return &models.CategoryMetadata{CategoryID: categoryID}, nil
	}
	if m.Image != nil {
		img := *m.Image
		m.Image = &img
	}
	return &m, nil
}

// Put merges update into the stored record.
func (s *MemoryMetaStore) Put(_ context.Context, categoryID int64, update models.MetadataUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.meta[categoryID]
	m.CategoryID = categoryID
	update.Apply(&m)
	s.meta[categoryID] = m
	s.puts++
	return nil
}

// Puts returns the number of non-empty writes applied.
func (s *MemoryMetaStore) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}
