// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package summary

import (
	"fmt"
	"html"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"qacategory/internal/models"
)

const (
	questionCountKey = "%d Question"
	subCategoryKey   = "%d Sub category"
)

var printer = newPrinter()

func newPrinter() *message.Printer {
	b := catalog.NewBuilder()
	set := func(key, one, other string) {
		if err := b.Set(language.English, key,
			plural.Selectf(1, "%d", plural.One, one, plural.Other, other),
		); err != nil {
			panic(fmt.Sprintf("summary: catalog entry %q: %v", key, err))
		}
	}
	set(questionCountKey, "%d Question", "%d Questions")
	set(subCategoryKey, "%d Sub category", "%d Sub categories")
	return message.NewPrinter(language.English, message.Catalog(b))
}

// QuestionCount renders n as "1 Question" or "n Questions".
func QuestionCount(n int) string {
	return printer.Sprintf(questionCountKey, n)
}

// SubCategoryCount renders n as "1 Sub category" or "n Sub categories".
func SubCategoryCount(n int) string {
	return printer.Sprintf(subCategoryKey, n)
}

// ImageBlock returns the placeholder block shown in place of a category
// image: a box of the category color, height pixels tall.
func ImageBlock(meta *models.CategoryMetadata, height int) string {
	return fmt.Sprintf(`<div class="ap-category-defimage" style="background:%s;height:%dpx;"></div>`,
		html.EscapeString(meta.Background()), height)
}

// IconBlock returns the category icon span. attrs is appended to the
// inline style.
func IconBlock(meta *models.CategoryMetadata, attrs string) string {
	return fmt.Sprintf(`<span class="ap-category-icon %s" style="background:%s;%s"></span>`,
		html.EscapeString(meta.Icon()), html.EscapeString(meta.Background()), html.EscapeString(attrs))
}
