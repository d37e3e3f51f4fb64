// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategory describes a development category and its children.
type seedCategory struct {
	name, slug, description string
	children                []seedCategory
}

var seedTree = []seedCategory{
	{
		name: "Programming", slug: "programming", description: "Questions about writing code.",
		children: []seedCategory{
			{name: "Go", slug: "go", description: "The Go programming language."},
			{name: "Databases", slug: "databases", description: "SQL, indexes and storage engines."},
		},
	},
	{
		name: "Operations", slug: "operations", description: "Running software in production.",
		children: []seedCategory{
			{name: "Caching", slug: "caching", description: "Valkey, Redis and friends."},
		},
	},
	{name: "Meta", slug: "meta", description: "Questions about this site."},
}

// seedQuestions maps a question to the slugs of the categories it belongs to.
var seedQuestions = []struct {
	title, slug string
	categories  []string
}{
	{"How do I wrap errors in Go?", "how-do-i-wrap-errors-in-go", []string{"programming", "go"}},
	{"When should I add an index?", "when-should-i-add-an-index", []string{"programming", "databases"}},
	{"What TTL should a page cache use?", "what-ttl-should-a-page-cache-use", []string{"operations", "caching"}},
	{"Is a Go service a good fit for caching?", "is-a-go-service-a-good-fit-for-caching", []string{"go", "caching"}},
	{"How are categories chosen?", "how-are-categories-chosen", []string{"meta"}},
}

// Seed populates the database with a small category tree and a handful of
// questions for development. It is a no-op when categories already exist.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	ids := make(map[string]int64)
	var insert func(cats []seedCategory, parentID *int64) error
	insert = func(cats []seedCategory, parentID *int64) error {
		for _, c := range cats {
			var id int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO categories (name, slug, description, parent_id)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`, c.name, c.slug, c.description, parentID).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed category %s: %w", c.slug, err)
			}
			ids[c.slug] = id
			if err := insert(c.children, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(seedTree, nil); err != nil {
		return err
	}

	for _, q := range seedQuestions {
		var qid int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO questions (title, slug) VALUES ($1, $2)
			ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title
			RETURNING id
		`, q.title, q.slug).Scan(&qid)
		if err != nil {
			return fmt.Errorf("seed question %s: %w", q.slug, err)
		}
		for _, s := range q.categories {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO question_categories (question_id, category_id)
				VALUES ($1, $2) ON CONFLICT DO NOTHING
			`, qid, ids[s]); err != nil {
				return fmt.Errorf("seed question category %s/%s: %w", q.slug, s, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development categories",
		"categories", len(ids),
		"questions", len(seedQuestions),
	)
	return nil
}
