// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides PostgreSQL-backed persistence for categories,
// category metadata, questions and media, plus in-memory implementations of
// the category and metadata stores for tests and tooling.
//
// Lookups return (nil, nil) when the record does not exist. Errors are
// reserved for failures of the underlying database.
package store

import (
	"context"

	"qacategory/internal/models"
)

// CategoryReader is the read side of the category store that the directory
// depends on. Implementations must return (nil, nil) for unknown ids and
// slugs and an empty slice when a category has no children.
type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetChildren(ctx context.Context, parentID int64) ([]models.Category, error)
	CountChildren(ctx context.Context, parentID int64) (int, error)
}

// DirectoryReader adds the listing queries behind the directory pages and
// the category filter.
type DirectoryReader interface {
	CategoryReader
	ListTopLevel(ctx context.Context, opts ListOptions) ([]models.Category, error)
	CountTopLevel(ctx context.Context) (int, error)
	Search(ctx context.Context, term string, limit int) ([]models.Category, error)
	FindByIDs(ctx context.Context, ids []int64, limit int) ([]models.Category, error)
}

// MetadataReader reads category presentation attributes.
type MetadataReader interface {
	Get(ctx context.Context, categoryID int64) (*models.CategoryMetadata, error)
}

// MetadataWriter merges partial updates into category metadata.
type MetadataWriter interface {
	Put(ctx context.Context, categoryID int64, update models.MetadataUpdate) error
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

var (
	_ DirectoryReader = (*CategoryStore)(nil)
	_ DirectoryReader = (*MemoryCategoryStore)(nil)
	_ MetadataReader  = (*MetaStore)(nil)
	_ MetadataWriter  = (*MetaStore)(nil)
	_ MetadataReader  = (*MemoryMetaStore)(nil)
	_ MetadataWriter  = (*MemoryMetaStore)(nil)
)
