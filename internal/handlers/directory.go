// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"qacategory/internal/listing"
	"qacategory/internal/markdown"
	"qacategory/internal/models"
	"qacategory/internal/route"
	"qacategory/internal/store"
)

// NotFoundTitle is the page title of an unknown category.
const NotFoundTitle = "No matching category found"

// DirectoryOptions configures the directory pages.
type DirectoryOptions struct {
	Title            string // categories page title
	PerPage          int    // categories per page
	OrderBy          string
	Order            string
	ImageHeight      int
	QuestionsPerPage int
}

// Directory serves the categories listing and single category pages
// under the directory base path.
type Directory struct {
	routes     *route.Resolver
	categories store.DirectoryReader
	meta       store.MetadataReader
	questions  QuestionLister
	cards      Cards
	opts       DirectoryOptions
}

// NewDirectory creates a Directory handler.
func NewDirectory(routes *route.Resolver, categories store.DirectoryReader, meta store.MetadataReader, questions QuestionLister, cards Cards, opts DirectoryOptions) *Directory {
	if opts.PerPage < 1 {
		opts.PerPage = 20
	}
	if opts.QuestionsPerPage < 1 {
		opts.QuestionsPerPage = 20
	}
	return &Directory{
		routes:     routes,
		categories: categories,
		meta:       meta,
		questions:  questions,
		cards:      cards,
		opts:       opts,
	}
}

// childItem is a direct child listed under a category.
type childItem struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Link  string `json:"link"`
	Count int    `json:"count"`
}

// categoryItem is a category as shown on the directory pages.
type categoryItem struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Description     string      `json:"description"`
	DescriptionHTML string      `json:"description_html"`
	Link            string      `json:"link"`
	Count           int         `json:"count"`
	Icon            string      `json:"icon"`
	Image           string      `json:"image"`
	Color           string      `json:"color"`
	SubCategories   []childItem `json:"sub_categories"`
}

type categoriesPage struct {
	Title      string         `json:"title"`
	Page       int            `json:"page"`
	MaxPages   int            `json:"max_pages"`
	Total      int            `json:"total"`
	Categories []categoryItem `json:"categories"`
	Prev       string         `json:"prev,omitempty"`
	Next       string         `json:"next,omitempty"`
}

type categoryPage struct {
	Title     string             `json:"title"`
	Category  categoryItem       `json:"category"`
	Questions []models.Question  `json:"questions"`
	Predicate *listing.Predicate `json:"predicate"`
	Page      int                `json:"page"`
	MaxPages  int                `json:"max_pages"`
	Total     int                `json:"total"`
	Feed      string             `json:"feed"`
	AskLink   string             `json:"ask_link"`
	Prev      string             `json:"prev,omitempty"`
	Next      string             `json:"next,omitempty"`
}

// Serve dispatches a request under the base path to the page it matches.
func (d *Directory) Serve(w http.ResponseWriter, r *http.Request) {
	m, ok := d.routes.Resolve(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	switch m.Kind {
	case route.CategoriesListing:
		d.listingPage(w, r, m.Page)
	case route.SingleCategory:
		d.category(w, r, m)
	default:
		writeError(w, http.StatusNotFound, "Not Found")
	}
}

// listingPage renders one page of top-level categories.
func (d *Directory) listingPage(w http.ResponseWriter, r *http.Request, page int) {
	ctx := r.Context()

	total, err := d.categories.CountTopLevel(ctx)
	if err != nil {
		slog.Error("count top-level categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	cats, err := d.categories.ListTopLevel(ctx, store.ListOptions{
		Limit:   d.opts.PerPage,
		Offset:  pageOffset(d.opts.PerPage, page),
		OrderBy: d.opts.OrderBy,
		Order:   d.opts.Order,
	})
	if err != nil {
		slog.Error("list top-level categories failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	resp := categoriesPage{
		Title:      d.opts.Title,
		Page:       page,
		MaxPages:   maxPages(total, d.opts.PerPage),
		Total:      total,
		Categories: make([]categoryItem, 0, len(cats)),
	}
	for i := range cats {
		item, err := d.item(ctx, &cats[i])
		if err != nil {
			slog.Error("build category item failed", "category_id", cats[i].ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		resp.Categories = append(resp.Categories, item)
	}
	if page > 1 {
		resp.Prev = d.routes.CategoriesURL(page - 1)
	}
	if page < resp.MaxPages {
		resp.Next = d.routes.CategoriesURL(page + 1)
	}

	writeJSON(w, http.StatusOK, resp)
}

// category renders a single category with its questions.
func (d *Directory) category(w http.ResponseWriter, r *http.Request, m route.RouteMatch) {
	ctx := r.Context()

	c, err := d.routes.ResolveCategoryRef(ctx, m.CategoryRef)
	if err != nil {
		slog.Error("resolve category failed", "ref", m.CategoryRef, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"title": NotFoundTitle,
			"error": "Not Found",
		})
		return
	}

	item, err := d.item(ctx, c)
	if err != nil {
		slog.Error("build category item failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	p := &listing.Predicate{
		Taxonomy: listing.Taxonomy,
		Field:    listing.FieldID,
		IDs:      []int64{c.ID},
		Operator: listing.OperatorIn,
	}
	total, err := d.questions.Count(ctx, p)
	if err != nil {
		slog.Error("count category questions failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	questions, err := d.questions.List(ctx, store.QuestionQuery{
		Predicate: p,
		Limit:     d.opts.QuestionsPerPage,
		Offset:    pageOffset(d.opts.QuestionsPerPage, m.Page),
	})
	if err != nil {
		slog.Error("list category questions failed", "category_id", c.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	if questions == nil {
		questions = []models.Question{}
	}

	opts := d.routes.Options()
	resp := categoryPage{
		Title:     c.Name,
		Category:  item,
		Questions: questions,
		Predicate: p,
		Page:      m.Page,
		MaxPages:  maxPages(total, d.opts.QuestionsPerPage),
		Total:     total,
		Feed:      feedURL(opts.SiteURL, c.Slug),
		AskLink:   opts.SiteURL + opts.BasePath + "ask/?category=" + strconv.FormatInt(c.ID, 10),
	}
	if m.Page > 1 {
		resp.Prev = d.routes.CategoryPageURL(c, m.Page-1)
	}
	if m.Page < resp.MaxPages {
		resp.Next = d.routes.CategoryPageURL(c, m.Page+1)
	}

	w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="canonical"`, item.Link))
	writeJSON(w, http.StatusOK, resp)
}

// item loads the presentation data of a category and its direct children.
func (d *Directory) item(ctx context.Context, c *models.Category) (categoryItem, error) {
	meta, err := d.meta.Get(ctx, c.ID)
	if err != nil {
		return categoryItem{}, err
	}
	children, err := d.categories.GetChildren(ctx, c.ID)
	if err != nil {
		return categoryItem{}, err
	}

	description, err := markdown.ToHTML(c.Description)
	if err != nil {
		slog.Warn("category description render failed", "category_id", c.ID, "error", err)
		description = "<p>" + html.EscapeString(c.Description) + "</p>"
	}

	item := categoryItem{
		ID:              c.ID,
		Name:            c.Name,
		Slug:            c.Slug,
		Description:     c.Description,
		DescriptionHTML: description,
		Link:            d.routes.CanonicalURL(c),
		Count:           c.ItemCount,
		Icon:            meta.Icon(),
		Image:           d.cards.Image(ctx, meta, d.opts.ImageHeight),
		Color:           meta.Background(),
		SubCategories:   make([]childItem, 0, len(children)),
	}
	for i := range children {
		item.SubCategories = append(item.SubCategories, childItem{
			ID:    children[i].ID,
			Name:  children[i].Name,
			Link:  d.routes.CanonicalURL(&children[i]),
			Count: children[i].ItemCount,
		})
	}
	return item, nil
}

// feedURL returns the question feed of a category.
func feedURL(siteURL, categorySlug string) string {
	q := url.Values{}
	q.Set("post_type", "question")
	q.Set("question_category", categorySlug)
	return siteURL + "/feed?" + q.Encode()
}
