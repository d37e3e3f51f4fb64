// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package route maps directory URLs onto category pages and back. Inbound
// paths are matched against an ordered list of patterns relative to the
// directory base path; when pretty permalinks are off, the same pages are
// addressed with ap_page/q_cat/paged query parameters.
package route

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"qacategory/internal/models"
)

// PageKind identifies which directory view a request targets.
type PageKind string

const (
	CategoriesListing PageKind = "categories_listing"
	SingleCategory    PageKind = "single_category"
)

// Query parameter names used when pretty permalinks are off.
const (
	ParamPage     = "ap_page"
	ParamCategory = "q_cat"
	ParamPaged    = "paged"
)

// RouteMatch is the outcome of a successful match.
type RouteMatch struct {
	Kind PageKind `json:"kind"`
	// CategoryRef is a slug or numeric id; empty for the listing.
	CategoryRef string `json:"category_ref,omitempty"`
	// Page is 1-based.
	Page int `json:"page"`
}

// MatchHook runs on every successful match before it is returned. It may
// rewrite the match, or return false to turn it into a miss.
type MatchHook func(m RouteMatch) (RouteMatch, bool)

// CategoryFinder is the part of the category store the resolver needs.
type CategoryFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

// Options configures a Resolver.
type Options struct {
	// SiteURL is the scheme and host without a trailing slash.
	SiteURL string
	// BasePath is the directory base page path, with leading and trailing slash.
	BasePath string
	// CategoriesSlug is the listing page segment.
	CategoriesSlug string
	// CategorySlug is the single category page segment.
	CategorySlug string
	// Pretty selects path URLs over query-string URLs.
	Pretty bool
}

type pattern struct {
	kind PageKind
	re   *regexp.Regexp
	// group indexes; 0 means the pattern has no such group
	ref, page int
}

// Resolver matches and builds directory URLs.
type Resolver struct {
	opts     Options
	patterns []pattern
	finder   CategoryFinder
	hooks    []MatchHook
}

// New builds a Resolver. Patterns are registered most specific first:
// paged listing, paged category, category, listing.
func New(opts Options, finder CategoryFinder, hooks ...MatchHook) *Resolver {
	if opts.BasePath == "" {
		opts.BasePath = "/"
	}
	if !strings.HasSuffix(opts.BasePath, "/") {
		opts.BasePath += "/"
	}
	opts.SiteURL = strings.TrimRight(opts.SiteURL, "/")

	cats := regexp.QuoteMeta(opts.CategoriesSlug)
	cat := regexp.QuoteMeta(opts.CategorySlug)

	return &Resolver{
		opts:   opts,
		finder: finder,
		hooks:  hooks,
		patterns: []pattern{
			{kind: CategoriesListing, re: regexp.MustCompile(`^` + cats + `/page/(\d+)/?$`), page: 1},
			{kind: SingleCategory, re: regexp.MustCompile(`^` + cat + `/([^/]+)/page/(\d+)/?$`), ref: 1, page: 2},
			{kind: SingleCategory, re: regexp.MustCompile(`^` + cat + `/([^/]+)/?$`), ref: 1},
			{kind: CategoriesListing, re: regexp.MustCompile(`^` + cats + `/?$`)},
		},
	}
}

// Options returns the resolver's normalized options.
func (r *Resolver) Options() Options {
	return r.opts
}

// baseURL is the absolute URL of the directory base page.
func (r *Resolver) baseURL() string {
	return r.opts.SiteURL + r.opts.BasePath
}

// CanonicalURL returns the outbound URL of a category's page.
func (r *Resolver) CanonicalURL(c *models.Category) string {
	if r.opts.Pretty {
		return r.baseURL() + r.opts.CategorySlug + "/" + url.PathEscape(c.Slug) + "/"
	}
	q := url.Values{}
	q.Set(ParamPage, r.opts.CategorySlug)
	q.Set(ParamCategory, strconv.FormatInt(c.ID, 10))
	return r.baseURL() + "?" + q.Encode()
}

// CategoryPageURL returns the URL of page n of a category's question list.
func (r *Resolver) CategoryPageURL(c *models.Category, page int) string {
	if page <= 1 {
		return r.CanonicalURL(c)
	}
	if r.opts.Pretty {
		return fmt.Sprintf("%spage/%d/", r.CanonicalURL(c), page)
	}
	return fmt.Sprintf("%s&%s=%d", r.CanonicalURL(c), ParamPaged, page)
}

// CategoriesURL returns the URL of page n of the categories listing.
func (r *Resolver) CategoriesURL(page int) string {
	if r.opts.Pretty {
		u := r.baseURL() + r.opts.CategoriesSlug + "/"
		if page > 1 {
			u += fmt.Sprintf("page/%d/", page)
		}
		return u
	}
	q := url.Values{}
	q.Set(ParamPage, r.opts.CategoriesSlug)
	if page > 1 {
		q.Set(ParamPaged, strconv.Itoa(page))
	}
	return r.baseURL() + "?" + q.Encode()
}

// Match matches a request path against the registered patterns in order.
// The path may still be percent-encoded. ok is false when the path is
// outside the directory or no pattern applies.
func (r *Resolver) Match(path string) (RouteMatch, bool) {
	if !strings.HasPrefix(path, r.opts.BasePath) {
		return RouteMatch{}, false
	}
	rel := strings.TrimPrefix(path, r.opts.BasePath)

	for _, p := range r.patterns {
		groups := p.re.FindStringSubmatch(rel)
		if groups == nil {
			continue
		}
		m := RouteMatch{Kind: p.kind, Page: 1}
		if p.ref > 0 {
			ref, err := url.PathUnescape(groups[p.ref])
			if err != nil {
				ref = groups[p.ref]
			}
			m.CategoryRef = ref
		}
		if p.page > 0 {
			m.Page = parsePage(groups[p.page])
		}
		return r.finish(m)
	}
	return RouteMatch{}, false
}

// MatchQuery matches the query-string form used when pretty permalinks are
// off: ap_page names the view, q_cat the category and paged the page.
func (r *Resolver) MatchQuery(q url.Values) (RouteMatch, bool) {
	page := parsePage(q.Get(ParamPaged))
	switch q.Get(ParamPage) {
	case r.opts.CategoriesSlug:
		return r.finish(RouteMatch{Kind: CategoriesListing, Page: page})
	case r.opts.CategorySlug:
		ref := strings.TrimSpace(q.Get(ParamCategory))
		if ref == "" {
			return RouteMatch{}, false
		}
		return r.finish(RouteMatch{Kind: SingleCategory, CategoryRef: ref, Page: page})
	}
	return RouteMatch{}, false
}

// Resolve matches a request by path and, on the base page itself, by
// query string.
func (r *Resolver) Resolve(req *http.Request) (RouteMatch, bool) {
	path := req.URL.EscapedPath()
	if m, ok := r.Match(path); ok {
		return m, true
	}
	if path == r.opts.BasePath || path+"/" == r.opts.BasePath {
		return r.MatchQuery(req.URL.Query())
	}
	return RouteMatch{}, false
}

// ResolveCategoryRef looks a category up by a reference taken from a URL.
// A numeric ref is tried as an id first and then as a slug; anything else
// is a slug, matched exactly and then in lower case. Returns (nil, nil)
// when no category matches.
func (r *Resolver) ResolveCategoryRef(ctx context.Context, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, nil
	}

	if id, err := strconv.ParseInt(ref, 10, 64); err == nil && id > 0 {
		c, err := r.finder.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve category %q: %w", ref, err)
		}
		if c != nil {
			return c, nil
		}
	}

	c, err := r.finder.GetBySlug(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", ref, err)
	}
	if c != nil {
		return c, nil
	}

	lower := strings.ToLower(ref)
	if lower == ref {
		return nil, nil
	}
	c, err = r.finder.GetBySlug(ctx, lower)
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", ref, err)
	}
	return c, nil
}

func (r *Resolver) finish(m RouteMatch) (RouteMatch, bool) {
	for _, hook := range r.hooks {
		var ok bool
		if m, ok = hook(m); !ok {
			return RouteMatch{}, false
		}
	}
	return m, true
}

// parsePage parses a 1-based page number. Missing, malformed and
// non-positive values are page 1.
func parsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
