// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"qacategory/internal/models"
)

// ErrMediaExists is returned by Create when another record already owns
// the object key.
var ErrMediaExists = errors.New("media already registered for this key")

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint.
const uniqueViolation = "23505"

// MediaStore reads and writes media records referenced by category images.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, filename, content_type, bucket, s3_key, alt_text, width, height, created_at`

func scanMedia(row scanner) (*models.Media, error) {
	var m models.Media
	err := row.Scan(
		&m.ID, &m.Filename, &m.ContentType, &m.Bucket, &m.S3Key,
		&m.AltText, &m.Width, &m.Height, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (filename, content_type, bucket, s3_key, alt_text, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		m.Filename, m.ContentType, m.Bucket, m.S3Key, m.AltText, m.Width, m.Height,
	)
	created, err := scanMedia(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("create media %s: %w", m.S3Key, ErrMediaExists)
		}
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// Delete removes a media record and, through the foreign key, its variants.
func (s *MediaStore) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete media %d: %w", id, err)
	}
	return nil
}

// FindByID retrieves a single media record. Returns nil if not found.
func (s *MediaStore) FindByID(ctx context.Context, id int64) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	m, err := scanMedia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}
