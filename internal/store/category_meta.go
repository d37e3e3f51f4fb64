// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"qacategory/internal/models"
)

// MetaStore persists category presentation attributes, one row per
// category id.
type MetaStore struct {
	db *sql.DB
}

// NewMetaStore returns a new MetaStore.
func NewMetaStore(db *sql.DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the metadata for a category. A category without a row yields
// an empty record so callers can rely on the defaults.
func (s *MetaStore) Get(ctx context.Context, categoryID int64) (*models.CategoryMetadata, error) {
	var (
		imageURL  sql.NullString
		imageID   sql.NullInt64
		iconClass sql.NullString
		color     sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT image_url, image_id, icon_class, color
		FROM category_meta
		WHERE category_id = $1
	`, categoryID).Scan(&imageURL, &imageID, &iconClass, &color)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.CategoryMetadata{CategoryID: categoryID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category meta: %w", err)
	}

	m := &models.CategoryMetadata{
		CategoryID: categoryID,
		IconClass:  iconClass.String,
		Color:      color.String,
	}
	if imageURL.Valid && imageID.Valid {
		m.Image = &models.Image{URL: imageURL.String, ID: imageID.Int64}
	}
	return m, nil
}

// Put merges the supplied fields into the category's row, creating it on
// first write. The merge is a single statement, so either every supplied
// field lands or none does. Fields not supplied keep their stored value.
func (s *MetaStore) Put(ctx context.Context, categoryID int64, update models.MetadataUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var imageURL, imageID, iconClass, color any
	if img := update.Image; img != nil && img.URL != "" && img.ID > 0 {
		imageURL, imageID = img.URL, img.ID
	}
	if update.IconClass != nil {
		iconClass = *update.IconClass
	}
	if update.Color != nil {
		color = *update.Color
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category_meta (category_id, image_url, image_id, icon_class, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (category_id) DO UPDATE SET
			image_url  = COALESCE(EXCLUDED.image_url, category_meta.image_url),
			image_id   = COALESCE(EXCLUDED.image_id, category_meta.image_id),
			icon_class = COALESCE(EXCLUDED.icon_class, category_meta.icon_class),
			color      = COALESCE(EXCLUDED.color, category_meta.color),
			updated_at = NOW()
	`, categoryID, imageURL, imageID, iconClass, color)
	if err != nil {
		return fmt.Errorf("put category meta %d: %w", categoryID, err)
	}
	return nil
}
