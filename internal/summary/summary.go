// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package summary builds category hover cards and serves them through a
// time-bounded cache.
//
// A card is computed from the category record, its direct children and its
// metadata, stored whole under the category id and returned unchanged until
// it expires. Concurrent misses may both compute; the last write wins.
// The cache is an optimization only: when it fails, cards are recomputed.
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"qacategory/internal/models"
	"qacategory/internal/store"
)

// ErrCategoryNotFound is returned for ids the category store does not know.
var ErrCategoryNotFound = errors.New("category not found")

const (
	// Template tags the payload for the client-side card renderer.
	Template = "category-hover"

	// DefaultTTL is how long a computed card is served from cache.
	DefaultTTL = time.Hour

	cardImageWidth  = 900
	cardImageHeight = 90
)

// Payload is the hover card for one category.
type Payload struct {
	Template      string      `json:"template"`
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Link          string      `json:"link"`
	Image         string      `json:"image"`
	Icon          string      `json:"icon"`
	Description   string      `json:"description"`
	QuestionCount string      `json:"question_count"`
	SubCategory   SubCategory `json:"sub_category"`
}

// SubCategory summarizes a category's direct children.
type SubCategory struct {
	Have  bool   `json:"have"`
	Count string `json:"count"`
}

// Cache stores serialized cards by category id.
type Cache interface {
	Get(ctx context.Context, categoryID int64) ([]byte, bool, error)
	Set(ctx context.Context, categoryID int64, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, categoryID int64) error
}

// LinkBuilder produces a category's canonical URL.
type LinkBuilder interface {
	CanonicalURL(c *models.Category) string
}

// ImageRenderer renders markup for a media item.
type ImageRenderer interface {
	RenderImage(ctx context.Context, mediaID int64, width, height int) (string, error)
}

// InvalidationLogger records dropped cards.
type InvalidationLogger interface {
	Log(ctx context.Context, entityType string, entityID int64, action string)
}

// Hook adjusts a freshly computed card before it is cached.
type Hook func(p *Payload)

// Service computes and caches hover cards.
type Service struct {
	categories store.CategoryReader
	meta       store.MetadataReader
	links      LinkBuilder
	cache      Cache
	ttl        time.Duration

	images ImageRenderer
	log    InvalidationLogger
	hooks  []Hook
}

// NewService returns a Service. A nil cache computes every card; a zero ttl
// uses DefaultTTL.
func NewService(categories store.CategoryReader, meta store.MetadataReader, links LinkBuilder, cache Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		categories: categories,
		meta:       meta,
		links:      links,
		cache:      cache,
		ttl:        ttl,
	}
}

// WithImages renders stored category images through r.
func (s *Service) WithImages(r ImageRenderer) *Service {
	s.images = r
	return s
}

// WithInvalidationLog records every Invalidate call in l.
func (s *Service) WithInvalidationLog(l InvalidationLogger) *Service {
	s.log = l
	return s
}

// WithHooks runs hooks, in order, on every computed card.
func (s *Service) WithHooks(hooks ...Hook) *Service {
	s.hooks = append(s.hooks, hooks...)
	return s
}

// Get returns the card for a category, from cache when a live entry
// exists. Unknown ids yield ErrCategoryNotFound and are never cached.
func (s *Service) Get(ctx context.Context, categoryID int64) (*Payload, error) {
	if p, ok := s.cached(ctx, categoryID); ok {
		cardCacheTotal.WithLabelValues("hit").Inc()
		return p, nil
	}
	cardCacheTotal.WithLabelValues("miss").Inc()

	start := time.Now()
	p, err := s.build(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	cardBuildSeconds.Observe(time.Since(start).Seconds())

	if s.cache != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode card %d: %w", categoryID, err)
		}
		if err := s.cache.Set(ctx, categoryID, raw, s.ttl); err != nil {
			cardCacheTotal.WithLabelValues("error").Inc()
			slog.Warn("card cache write failed", "category_id", categoryID, "error", err)
		}
	}
	return p, nil
}

// Invalidate drops the cached card so the next Get recomputes it.
func (s *Service) Invalidate(ctx context.Context, categoryID int64) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, categoryID); err != nil {
			slog.Warn("card cache invalidate failed", "category_id", categoryID, "error", err)
		}
	}
	if s.log != nil {
		s.log.Log(ctx, "category_card", categoryID, "invalidate")
	}
}

// cached returns a live cached card. Read and decode failures count as a
// miss.
func (s *Service) cached(ctx context.Context, categoryID int64) (*Payload, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, categoryID)
	if err != nil {
		cardCacheTotal.WithLabelValues("error").Inc()
		slog.Warn("card cache read failed", "category_id", categoryID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		cardCacheTotal.WithLabelValues("error").Inc()
		slog.Warn("discarding undecodable card", "category_id", categoryID, "error", err)
		return nil, false
	}
	return &p, true
}

func (s *Service) build(ctx context.Context, categoryID int64) (*Payload, error) {
	c, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load category %d: %w", categoryID, err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	subCount, err := s.categories.CountChildren(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("count children of %d: %w", categoryID, err)
	}

	meta, err := s.meta.Get(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("load category meta %d: %w", categoryID, err)
	}

	p := &Payload{
		Template:      Template,
		ID:            c.ID,
		Name:          c.Name,
		Link:          s.links.CanonicalURL(c),
		Image:         s.image(ctx, meta, cardImageWidth, cardImageHeight),
		Icon:          IconBlock(meta, ""),
		Description:   c.Description,
		QuestionCount: QuestionCount(c.ItemCount),
		SubCategory: SubCategory{
			Have:  subCount > 0,
			Count: SubCategoryCount(subCount),
		},
	}
	for _, hook := range s.hooks {
		hook(p)
	}
	return p, nil
}

// image renders the stored image, falling back to the placeholder block
// when there is none or it cannot be rendered.
func (s *Service) image(ctx context.Context, meta *models.CategoryMetadata, width, height int) string {
	if meta.HasImage() && s.images != nil {
		img, err := s.images.RenderImage(ctx, meta.Image.ID, width, height)
		if err != nil {
			slog.Warn("category image render failed",
				"category_id", meta.CategoryID,
				"media_id", meta.Image.ID,
				"error", err,
			)
		}
		if img != "" {
			return img
		}
	}
	return ImageBlock(meta, height)
}

// Image returns the rendered image of a category for the directory pages,
// or the placeholder block.
func (s *Service) Image(ctx context.Context, meta *models.CategoryMetadata, height int) string {
	return s.image(ctx, meta, cardImageWidth, height)
}
