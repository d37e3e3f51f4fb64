// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"qacategory/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// categorySelect selects every category column plus the question count.
const categorySelect = `
	SELECT c.id, c.name, c.slug, c.description, c.parent_id,
	       (SELECT COUNT(*) FROM question_categories qc WHERE qc.category_id = c.id) AS item_count
	FROM categories c`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	var parentID sql.NullInt64
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &parentID, &c.ItemCount)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		id := parentID.Int64
		c.ParentID = &id
	}
	return &c, nil
}

// scanCategories drains rows into a slice. An empty result is a non-nil
// empty slice.
func scanCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// GetByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// GetBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// GetChildren returns the direct children of a category ordered by name.
func (s *CategoryStore) GetChildren(ctx context.Context, parentID int64) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+`
		WHERE c.parent_id = $1
		ORDER BY c.name, c.id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	return scanCategories(rows)
}

// CountChildren returns the number of direct children of a category.
func (s *CategoryStore) CountChildren(ctx context.Context, parentID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, parentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}

// ListOptions controls paging and ordering of the top-level listing.
type ListOptions struct {
	Limit   int
	Offset  int
	OrderBy string // "count", "name", "id" or "slug"
	Order   string // "ASC" or "DESC"
}

// orderColumns whitelists the sortable columns.
var orderColumns = map[string]string{
	"count": "item_count",
	"name":  "c.name",
	"id":    "c.id",
	"slug":  "c.slug",
}

// orderClause builds a safe ORDER BY clause. Unknown columns fall back to
// the question count.
func (o ListOptions) orderClause() string {
	col, ok := orderColumns[strings.ToLower(o.OrderBy)]
	if !ok {
		col = orderColumns["count"]
	}
	dir := "DESC"
	if strings.EqualFold(o.Order, "ASC") {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, c.id %s", col, dir, dir)
}

// ListTopLevel returns one page of categories without a parent.
func (s *CategoryStore) ListTopLevel(ctx context.Context, opts ListOptions) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		categorySelect+` WHERE c.parent_id IS NULL`+opts.orderClause()+` LIMIT $1 OFFSET $2`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list top-level categories: %w", err)
	}
	return scanCategories(rows)
}

// CountTopLevel returns the number of categories without a parent.
func (s *CategoryStore) CountTopLevel(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id IS NULL`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count top-level categories: %w", err)
	}
	return n, nil
}

// Search returns categories whose name contains term, case-insensitively,
// ordered by name. An empty term matches every category.
func (s *CategoryStore) Search(ctx context.Context, term string, limit int) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+`
		WHERE $1 = '' OR c.name ILIKE '%' || $1 || '%'
		ORDER BY c.name, c.id
		LIMIT $2`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	return scanCategories(rows)
}

// FindByIDs returns the categories with the given ids in the order the ids
// were supplied. Unknown ids are skipped.
func (s *CategoryStore) FindByIDs(ctx context.Context, ids []int64, limit int) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	rows, err := s.db.QueryContext(ctx, categorySelect+`
		WHERE c.id = ANY($1)
		ORDER BY array_position($1::bigint[], c.id)
		LIMIT $2`, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	return scanCategories(rows)
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		WITH inserted AS (
			INSERT INTO categories (name, slug, description, parent_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, name, slug, description, parent_id
		)
		SELECT id, name, slug, description, parent_id, 0 FROM inserted`,
		c.Name, c.Slug, c.Description, c.ParentID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}
