// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

// TestGenerate covers category names and the raw values that arrive in
// ap_categories query parameters.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"category name", "Programming", "programming"},
		{"two words", "Machine Learning", "machine-learning"},
		{"ampersand", "Databases & Storage", "databases-storage"},
		{"slash", "CI/CD Pipelines", "cicd-pipelines"},
		{"question mark", "What is Go? Basics", "what-is-go-basics"},
		{"dotted version", "Go 1.25", "go-125"},
		{"year", "2024", "2024"},
		{"accents folded", "Café Systèmes", "cafe-systemes"},
		{"non-latin stripped", "Go 语言", "go"},
		{"already a slug", "go-concurrency", "go-concurrency"},
		{"query value padded", "  go ", "go"},
		{"url-decoded plus", "machine learning", "machine-learning"},
		{"hyphen runs", "--front--end--", "front-end"},
		{"tab inside", "dev\tops", "dev-ops"},
		{"empty", "", ""},
		{"punctuation only", "!@#$%", ""},
		{"non-latin only", "世界", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerateStable checks that a stored category slug survives being
// sanitized again when it comes back in a URL.
func TestGenerateStable(t *testing.T) {
	for _, s := range []string{"go", "databases-storage", "2024", "cicd-pipelines"} {
		if got := Generate(Generate(s)); got != s {
			t.Errorf("Generate(Generate(%q)) = %q", s, got)
		}
	}
}

// TestOrDefault covers the configured directory page slugs.
func TestOrDefault(t *testing.T) {
	tests := []struct {
		input    string
		fallback string
		want     string
	}{
		{"Topics", "categories", "topics"},
		{"Sub Topic", "category", "sub-topic"},
		{"categories", "categories", "categories"},
		{"  ", "categories", "categories"},
		{"!!!", "category", "category"},
		{"", "category", "category"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := OrDefault(tt.input, tt.fallback); got != tt.want {
				t.Errorf("OrDefault(%q, %q) = %q, want %q", tt.input, tt.fallback, got, tt.want)
			}
		})
	}
}
