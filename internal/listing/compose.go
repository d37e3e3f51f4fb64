// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"log/slog"
	"strings"
)

// Hook adjusts a freshly built predicate. Returning false drops the
// restriction entirely.
type Hook func(p Predicate) (Predicate, bool)

// Composer builds the listing predicate. The zero value is ready to use.
type Composer struct {
	hooks []Hook
}

// NewComposer returns a Composer that runs hooks, in order, on every
// predicate it builds.
func NewComposer(hooks ...Hook) *Composer {
	return &Composer{hooks: hooks}
}

// Compose returns the category restriction for the main listing.
//
// An explicit request selection wins and matches by slug with the request's
// operator. Otherwise the active category filter matches by id with IN.
// The two sources are never merged. Blank slugs and non-positive or
// repeated ids are dropped first, so a source left empty counts as absent.
// With neither present there is no restriction and ok is false.
func (c *Composer) Compose(req Request, active FilterState) (p *Predicate, ok bool) {
	slugs := cleanSlugs(req.Categories)
	ids := cleanIDs(active.Get(CategoryFilter))

	var built Predicate
	switch {
	case len(slugs) > 0:
		built = Predicate{
			Taxonomy: Taxonomy,
			Field:    FieldSlug,
			Slugs:    slugs,
			Operator: ParseOperator(req.Operator),
		}
	case len(ids) > 0:
		built = Predicate{
			Taxonomy: Taxonomy,
			Field:    FieldID,
			IDs:      ids,
			Operator: OperatorIn,
		}
	default:
		return nil, false
	}

	for _, hook := range c.hooks {
		var keep bool
		if built, keep = hook(built); !keep {
			slog.Debug("listing predicate dropped by hook")
			return nil, false
		}
	}
	return &built, true
}

// cleanSlugs returns a fresh copy of slugs, trimmed, without blanks or
// repeats.
func cleanSlugs(slugs []string) []string {
	seen := make(map[string]bool, len(slugs))
	var out []string
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// cleanIDs returns a fresh copy of ids without non-positive values or
// repeats, keeping the first occurrence.
func cleanIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	var out []int64
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
