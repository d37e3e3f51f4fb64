// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComposeExplicitRequest(t *testing.T) {
	var c Composer
	p, ok := c.Compose(Request{Categories: []string{"go", "databases"}, Operator: "ALL"}, nil)
	if !ok {
		t.Fatal("expected a predicate")
	}
	want := &Predicate{
		Taxonomy: Taxonomy,
		Field:    FieldSlug,
		Slugs:    []string{"go", "databases"},
		Operator: OperatorAll,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("predicate mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeExplicitDefaultsToIn(t *testing.T) {
	var c Composer
	p, ok := c.Compose(Request{Categories: []string{"go"}}, nil)
	if !ok {
		t.Fatal("expected a predicate")
	}
	if p.Operator != OperatorIn {
		t.Errorf("operator: got %q, want %q", p.Operator, OperatorIn)
	}
}

func TestComposeActiveFilter(t *testing.T) {
	var c Composer
	p, ok := c.Compose(Request{}, FilterState{CategoryFilter: {3, 7}})
	if !ok {
		t.Fatal("expected a predicate")
	}
	want := &Predicate{
		Taxonomy: Taxonomy,
		Field:    FieldID,
		IDs:      []int64{3, 7},
		Operator: OperatorIn,
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("predicate mismatch (-want +got):\n%s", diff)
	}
}

func TestComposeActiveFilterIgnoresOperator(t *testing.T) {
	var c Composer
	p, ok := c.Compose(Request{Operator: "NOT IN"}, FilterState{CategoryFilter: {3}})
	if !ok {
		t.Fatal("expected a predicate")
	}
	if p.Operator != OperatorIn {
		t.Errorf("operator: got %q, want %q", p.Operator, OperatorIn)
	}
}

func TestComposeRequestWinsOverFilter(t *testing.T) {
	var c Composer
	p, ok := c.Compose(Request{Categories: []string{"go"}}, FilterState{CategoryFilter: {3}})
	if !ok {
		t.Fatal("expected a predicate")
	}
	if p.Field != FieldSlug {
		t.Errorf("field: got %q, want %q", p.Field, FieldSlug)
	}
	if len(p.IDs) != 0 {
		t.Errorf("ids should not be merged in, got %v", p.IDs)
	}
}

func TestComposeNothingSelected(t *testing.T) {
	var c Composer
	if p, ok := c.Compose(Request{}, FilterState{}); ok || p != nil {
		t.Errorf("got %v, %v; want nil, false", p, ok)
	}
	if p, ok := c.Compose(Request{Categories: []string{}}, FilterState{CategoryFilter: {}}); ok || p != nil {
		t.Errorf("empty selections: got %v, %v; want nil, false", p, ok)
	}
}

func TestComposeMalformedSourcesCountAsAbsent(t *testing.T) {
	filterIDs := func(ids ...int64) *Predicate {
		return &Predicate{Taxonomy: Taxonomy, Field: FieldID, IDs: ids, Operator: OperatorIn}
	}

	tests := []struct {
		name   string
		req    Request
		active FilterState
		want   *Predicate
	}{
		{
			name:   "blank slugs fall through to the filter",
			req:    Request{Categories: []string{"", " "}},
			active: FilterState{CategoryFilter: {3, 4}},
			want:   filterIDs(3, 4),
		},
		{
			name: "slugs trimmed and deduplicated",
			req:  Request{Categories: []string{" go", "", "go ", "databases"}, Operator: "AND"},
			want: &Predicate{Taxonomy: Taxonomy, Field: FieldSlug, Slugs: []string{"go", "databases"}, Operator: OperatorAll},
		},
		{
			name:   "non-positive and repeated ids dropped",
			active: FilterState{CategoryFilter: {0, 5, -1, 5, 2}},
			want:   filterIDs(5, 2),
		},
		{
			name:   "nothing usable anywhere",
			req:    Request{Categories: []string{"\t"}},
			active: FilterState{CategoryFilter: {0, -1}},
		},
	}

	var c Composer
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := c.Compose(tt.req, tt.active)
			if ok != (tt.want != nil) {
				t.Fatalf("ok: got %v, predicate %s", ok, p)
			}
			if diff := cmp.Diff(tt.want, p); diff != "" {
				t.Errorf("predicate mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeDoesNotAliasInput(t *testing.T) {
	var c Composer
	cats := []string{"go"}
	p, _ := c.Compose(Request{Categories: cats}, nil)
	p.Slugs[0] = "changed"
	if cats[0] != "go" {
		t.Errorf("request slice was modified: %v", cats)
	}
}

func TestComposeHooks(t *testing.T) {
	upper := func(p Predicate) (Predicate, bool) {
		p.Operator = OperatorNotIn
		return p, true
	}
	c := NewComposer(upper)
	p, ok := c.Compose(Request{Categories: []string{"go"}}, nil)
	if !ok || p.Operator != OperatorNotIn {
		t.Errorf("hook not applied: %v, %v", p, ok)
	}

	drop := func(p Predicate) (Predicate, bool) { return p, false }
	c = NewComposer(upper, drop)
	if p, ok := c.Compose(Request{Categories: []string{"go"}}, nil); ok || p != nil {
		t.Errorf("dropping hook: got %v, %v; want nil, false", p, ok)
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in   string
		want Operator
	}{
		{"", OperatorIn},
		{"IN", OperatorIn},
		{"in", OperatorIn},
		{"ANY", OperatorIn},
		{"ALL", OperatorAll},
		{"and", OperatorAll},
		{"NOT IN", OperatorNotIn},
		{"not  in", OperatorNotIn},
		{"NOT_IN", OperatorNotIn},
		{"bogus", OperatorIn},
	}
	for _, tt := range tests {
		if got := ParseOperator(tt.in); got != tt.want {
			t.Errorf("ParseOperator(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPredicateString(t *testing.T) {
	p := Predicate{Taxonomy: Taxonomy, Field: FieldID, IDs: []int64{1, 2}, Operator: OperatorIn}
	want := "question_category.id IN (1,2)"
	if got := p.String(); got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
	if p.Len() != 2 {
		t.Errorf("Len: got %d, want 2", p.Len())
	}
}

func TestPredicateStringNil(t *testing.T) {
	var p *Predicate
	if got := p.String(); got != "none" {
		t.Errorf("String: got %q, want %q", got, "none")
	}
}
