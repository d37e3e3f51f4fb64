// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing builds the category restriction applied to the main
// question listing. It merges an explicit category selection from the
// request with the active filter selection into at most one predicate.
package listing

import (
	"fmt"
	"strconv"
	"strings"
)

// Taxonomy is the taxonomy every predicate targets.
const Taxonomy = "question_category"

// Field names the category attribute a predicate matches on.
type Field string

const (
	FieldSlug Field = "slug"
	FieldID   Field = "id"
)

// Operator is the boolean combination of a predicate's terms.
type Operator string

const (
	// OperatorIn matches items in any of the categories.
	OperatorIn Operator = "IN"
	// OperatorAll matches items in every one of the categories.
	OperatorAll Operator = "ALL"
	// OperatorNotIn matches items in none of the categories.
	OperatorNotIn Operator = "NOT IN"
)

// ParseOperator maps a request-supplied operator onto an Operator. Matching
// is case-insensitive, "ANY" is accepted for IN and "AND" for ALL. Unknown
// or empty input yields OperatorIn.
func ParseOperator(s string) Operator {
	s = strings.Join(strings.Fields(strings.ToUpper(s)), " ")
	switch s {
	case "ALL", "AND":
		return OperatorAll
	case "NOT IN", "NOT_IN", "NONE":
		return OperatorNotIn
	default:
		return OperatorIn
	}
}

// Predicate is a taxonomy restriction for a listing query. Exactly one of
// Slugs or IDs is populated, matching Field.
type Predicate struct {
	Taxonomy string   `json:"taxonomy"`
	Field    Field    `json:"field"`
	Slugs    []string `json:"slugs,omitempty"`
	IDs      []int64  `json:"ids,omitempty"`
	Operator Operator `json:"operator"`
}

// Len returns the number of terms in the predicate.
func (p *Predicate) Len() int {
	if p.Field == FieldID {
		return len(p.IDs)
	}
	return len(p.Slugs)
}

// Terms returns the predicate's terms as strings.
func (p *Predicate) Terms() []string {
	if p.Field != FieldID {
		return p.Slugs
	}
	out := make([]string, len(p.IDs))
	for i, id := range p.IDs {
		out[i] = strconv.FormatInt(id, 10)
	}
	return out
}

// String renders the predicate for logs, e.g. "question_category.slug IN (go,databases)".
// A nil predicate renders as "none".
func (p *Predicate) String() string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("%s.%s %s (%s)", p.Taxonomy, p.Field, p.Operator, strings.Join(p.Terms(), ","))
}
