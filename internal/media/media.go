// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media renders image markup for media items referenced by
// category metadata.
package media

import (
	"context"
	"fmt"
	"html"
	"time"

	"qacategory/internal/models"
)

// presignTTL outlives a cached category card, so a card never carries an
// expired link.
const presignTTL = 2 * time.Hour

// MediaFinder looks up media records.
type MediaFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Media, error)
}

// VariantFinder lists the resized renditions of a media item, narrowest
// first.
type VariantFinder interface {
	FindByMediaID(ctx context.Context, mediaID int64) ([]models.MediaVariant, error)
}

// URLBuilder turns object keys into URLs. *storage.Client implements it.
type URLBuilder interface {
	FileURL(key string) string
	PresignedURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
	PrivateBucket() string
}

// Resolver renders <img> markup for media items.
type Resolver struct {
	media    MediaFinder
	variants VariantFinder
	urls     URLBuilder
}

// NewResolver returns a Resolver. A nil urls disables rendering.
func NewResolver(media MediaFinder, variants VariantFinder, urls URLBuilder) *Resolver {
	return &Resolver{media: media, variants: variants, urls: urls}
}

// RenderImage returns an <img> tag for the media item sized for a box of
// width x height. It picks the narrowest variant at least width wide,
// falling back to the widest variant and then the original. The result is
// empty when storage is not configured or the media item is unknown or not
// an image.
func (r *Resolver) RenderImage(ctx context.Context, mediaID int64, width, height int) (string, error) {
	if r == nil || r.urls == nil || mediaID <= 0 {
		return "", nil
	}

	m, err := r.media.FindByID(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("render image %d: %w", mediaID, err)
	}
	if m == nil || !m.IsImage() {
		return "", nil
	}

	key := m.S3Key
	if r.variants != nil {
		variants, err := r.variants.FindByMediaID(ctx, mediaID)
		if err != nil {
			return "", fmt.Errorf("render image %d variants: %w", mediaID, err)
		}
		if v := pickVariant(variants, width); v != nil {
			key = v.S3Key
		}
	}

	var src string
	if private := r.urls.PrivateBucket(); private != "" && m.Bucket == private {
		src, err = r.urls.PresignedURL(ctx, m.Bucket, key, presignTTL)
		if err != nil {
			return "", fmt.Errorf("render image %d: %w", mediaID, err)
		}
	} else {
		src = r.urls.FileURL(key)
	}

	return fmt.Sprintf(`<img src="%s" width="%d" height="%d" alt="%s" class="ap-category-image" loading="lazy">`,
		html.EscapeString(src), width, height, html.EscapeString(m.Alt())), nil
}

// pickVariant returns the narrowest variant at least width wide, else the
// widest. variants must be sorted by width ascending.
func pickVariant(variants []models.MediaVariant, width int) *models.MediaVariant {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		if variants[i].Width >= width {
			return &variants[i]
		}
	}
	return &variants[len(variants)-1]
}
