// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"mime"
	"strings"
	"time"
)

// Media is an uploaded file a category may use as its image. The record
// lives in PostgreSQL, the bytes in an S3 bucket.
type Media struct {
	ID          int64     `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Bucket      string    `json:"bucket"`
	S3Key       string    `json:"s3_key"`
	AltText     *string   `json:"alt_text,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage reports whether the media can back a category image. Content
// type parameters and case are ignored.
func (m *Media) IsImage() bool {
	mediaType, _, err := mime.ParseMediaType(m.ContentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}

// Alt returns the alt text for image markup, defaulting to the filename.
func (m *Media) Alt() string {
	if m.AltText != nil && *m.AltText != "" {
		return *m.AltText
	}
	return m.Filename
}

// MediaVariant is a resized rendition of an image, stored next to the
// original under its own key.
type MediaVariant struct {
	ID      int64  `json:"id"`
	MediaID int64  `json:"media_id"`
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	S3Key   string `json:"s3_key"`
}
