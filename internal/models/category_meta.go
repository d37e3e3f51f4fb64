// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

const (
	// DefaultCategoryIcon is the font-icon class used when no icon is set.
	DefaultCategoryIcon = "apicon-category"

	// DefaultCategoryColor is the background used when no color is set.
	DefaultCategoryColor = "#333"
)

// Image references a file in the media store. URL and ID are always
// written together.
type Image struct {
	URL string `json:"url"`
	ID  int64  `json:"id"`
}

// CategoryMetadata holds presentation attributes for a category. It is
// stored apart from the category record and may outlive it, so every field
// is optional.
type CategoryMetadata struct {
	CategoryID int64  `json:"category_id"`
	Image      *Image `json:"image,omitempty"`
	IconClass  string `json:"icon_class,omitempty"`
	Color      string `json:"color,omitempty"`
}

// HasImage reports whether a media reference is stored for the category.
func (m *CategoryMetadata) HasImage() bool {
	return m != nil && m.Image != nil && m.Image.ID > 0
}

// Icon returns the icon class, falling back to the generic category icon.
func (m *CategoryMetadata) Icon() string {
	if m == nil || m.IconClass == "" {
		return DefaultCategoryIcon
	}
	return m.IconClass
}

// Background returns the color, falling back to DefaultCategoryColor.
func (m *CategoryMetadata) Background() string {
	if m == nil || m.Color == "" {
		return DefaultCategoryColor
	}
	return m.Color
}

// MetadataUpdate is a partial write to a CategoryMetadata record. Nil
// fields are left untouched.
type MetadataUpdate struct {
	Image     *Image
	IconClass *string
	Color     *string
}

// IsEmpty reports whether the update would write nothing.
func (u MetadataUpdate) IsEmpty() bool {
	return u.Image == nil && u.IconClass == nil && u.Color == nil
}

// Apply merges the update into m. An image without both URL and ID is
// ignored.
func (u MetadataUpdate) Apply(m *CategoryMetadata) {
	if u.Image != nil && u.Image.URL != "" && u.Image.ID > 0 {
		img := *u.Image
		m.Image = &img
	}
	if u.IconClass != nil {
		m.IconClass = *u.IconClass
	}
	if u.Color != nil {
		m.Color = *u.Color
	}
}
