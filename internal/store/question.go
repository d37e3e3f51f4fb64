// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"qacategory/internal/listing"
	"qacategory/internal/models"
)

// QuestionStore lists questions, optionally restricted by a category
// predicate.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore returns a new QuestionStore.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// QuestionQuery selects one page of the question listing. A nil Predicate
// lists every question.
type QuestionQuery struct {
	Predicate *listing.Predicate
	Limit     int
	Offset    int
}

// predicateClause translates a listing predicate into a WHERE condition on
// questions aliased as q. argPos is the position of the first placeholder.
// A nil predicate yields "TRUE".
func predicateClause(p *listing.Predicate, argPos int) (string, []any) {
	if p == nil {
		return "TRUE", nil
	}

	var match string
	var arg any
	var distinct string
	if p.Field == listing.FieldID {
		match = fmt.Sprintf("qc.category_id = ANY($%d)", argPos)
		arg = p.IDs
		distinct = "qc.category_id"
	} else {
		match = fmt.Sprintf("c.slug = ANY($%d)", argPos)
		arg = p.Slugs
		distinct = "c.slug"
	}

	sub := `FROM question_categories qc
		JOIN categories c ON c.id = qc.category_id
		WHERE qc.question_id = q.id AND ` + match

	switch p.Operator {
	case listing.OperatorAll:
		return fmt.Sprintf("(SELECT COUNT(DISTINCT %s) %s) = $%d", distinct, sub, argPos+1),
			[]any{arg, p.Len()}
	case listing.OperatorNotIn:
		return "NOT EXISTS (SELECT 1 " + sub + ")", []any{arg}
	default:
		return "EXISTS (SELECT 1 " + sub + ")", []any{arg}
	}
}

// List returns one page of questions, newest first.
func (s *QuestionStore) List(ctx context.Context, q QuestionQuery) ([]models.Question, error) {
	where, args := predicateClause(q.Predicate, 1)
	n := len(args)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT q.id, q.title, q.slug, q.created_at
		FROM questions q
		WHERE %s
		ORDER BY q.created_at DESC, q.id DESC
		LIMIT $%d OFFSET $%d`, where, n+1, n+2), args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	items := []models.Question{}
	for rows.Next() {
		var item models.Question
		if err := rows.Scan(&item.ID, &item.Title, &item.Slug, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Count returns the number of questions matching the predicate.
func (s *QuestionStore) Count(ctx context.Context, p *listing.Predicate) (int, error) {
	where, args := predicateClause(p, 1)
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM questions q WHERE `+where, args...,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

// Create inserts a question and links it to the given categories in one
// transaction.
func (s *QuestionStore) Create(ctx context.Context, title, slug string, categoryIDs ...int64) (*models.Question, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create question: %w", err)
	}
	defer tx.Rollback()

	var q models.Question
	err = tx.QueryRowContext(ctx, `
		INSERT INTO questions (title, slug) VALUES ($1, $2)
		RETURNING id, title, slug, created_at
	`, title, slug).Scan(&q.ID, &q.Title, &q.Slug, &q.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	for _, cid := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO question_categories (question_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			q.ID, cid,
		); err != nil {
			return nil, fmt.Errorf("link question %d to category %d: %w", q.ID, cid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create question: %w", err)
	}
	return &q, nil
}
