// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"qacategory/internal/models"
)

// VariantStore handles database operations for resized image renditions.
type VariantStore struct {
	db *sql.DB
}

// NewVariantStore creates a new VariantStore with the given database connection.
func NewVariantStore(db *sql.DB) *VariantStore {
	return &VariantStore{db: db}
}

const variantColumns = `id, media_id, name, width, height, s3_key`

// CreateBatch inserts multiple variants in a single transaction.
func (s *VariantStore) CreateBatch(ctx context.Context, variants []models.MediaVariant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin variant batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO media_variants (media_id, name, width, height, s3_key)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("prepare variant insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range variants {
		if _, err := stmt.ExecContext(ctx, v.MediaID, v.Name, v.Width, v.Height, v.S3Key); err != nil {
			return fmt.Errorf("insert variant %s: %w", v.Name, err)
		}
	}

	return tx.Commit()
}

// FindByMediaID returns all variants for a media item, narrowest first.
func (s *VariantStore) FindByMediaID(ctx context.Context, mediaID int64) ([]models.MediaVariant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+variantColumns+`
		FROM media_variants
		WHERE media_id = $1
		ORDER BY width ASC
	`, mediaID)
	if err != nil {
		return nil, fmt.Errorf("find variants by media: %w", err)
	}
	defer rows.Close()

	var variants []models.MediaVariant
	for rows.Next() {
		var v models.MediaVariant
		if err := rows.Scan(&v.ID, &v.MediaID, &v.Name, &v.Width, &v.Height, &v.S3Key); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}
