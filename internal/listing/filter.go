// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"qacategory/internal/slug"
)

// CategoryFilter is the filter key holding the active category selection.
const CategoryFilter = "category"

// Request parameter and cookie names.
const (
	ParamCategories         = "ap_categories"
	ParamCategoriesOperator = "ap_categories_operator"
	ParamCategoryFilter     = "ap_filters[category]"
	CookieCategoryFilter    = "ap_filter_category"
)

// FilterState maps a filter key to the ordered set of selected ids. It
// lives for one request.
type FilterState map[string][]int64

// Get returns the ids selected for key.
func (f FilterState) Get(key string) []int64 {
	if f == nil {
		return nil
	}
	return f[key]
}

// Request carries the explicit category selection of the current request.
type Request struct {
	// Categories are category slugs.
	Categories []string
	// Operator is the raw operator parameter; see ParseOperator.
	Operator string
}

// RequestFromQuery reads ap_categories[] (or ap_categories, comma-delimited)
// and ap_categories_operator from the query string. Slugs are sanitized;
// entries that sanitize to nothing are dropped.
func RequestFromQuery(q url.Values) Request {
	var raw []string
	raw = append(raw, q[ParamCategories+"[]"]...)
	raw = append(raw, q[ParamCategories]...)

	seen := make(map[string]bool)
	var cats []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			s := slug.Generate(part)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			cats = append(cats, s)
		}
	}

	return Request{
		Categories: cats,
		Operator:   q.Get(ParamCategoriesOperator),
	}
}

// FilterStateFromRequest resolves the active category filter from the
// ap_filters[category] query parameter, falling back to the
// ap_filter_category cookie the filter widget stores.
func FilterStateFromRequest(r *http.Request) FilterState {
	state := FilterState{}

	var raw string
	if vals, ok := r.URL.Query()[ParamCategoryFilter]; ok {
		raw = strings.Join(vals, ",")
	} else if c, err := r.Cookie(CookieCategoryFilter); err == nil {
		if v, err := url.QueryUnescape(c.Value); err == nil {
			raw = v
		}
	}

	if ids := ParseIDList(raw); len(ids) > 0 {
		state[CategoryFilter] = ids
	}
	return state
}

// ParseIDList parses a comma-delimited list of positive ids. Malformed and
// non-positive entries are dropped and duplicates removed, keeping the
// first occurrence.
func ParseIDList(raw string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
