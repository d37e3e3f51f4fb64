// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"qacategory/internal/slug"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	DBMaxOpenConns int
	DBMaxIdleConns int

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage for category images
	S3Endpoint      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3BucketPublic  string
	S3BucketPrivate string
	S3PublicURL     string

	// Directory settings
	SiteURL          string // scheme://host without trailing slash
	BasePath         string // path of the questions base page, always "/.../"
	PrettyPermalinks bool
	CategoriesSlug   string
	CategorySlug     string

	CategoriesPerPage   int
	CategoriesOrderBy   string // "count", "name", "id", "slug"
	CategoriesOrder     string // "ASC" or "DESC"
	CategoriesPageTitle string
	CategoryImageHeight int
	QuestionsPerPage    int

	// Hover card
	CardTTL       time.Duration
	CardRateLimit float64
	CardRateBurst int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode or a numeric value does not parse.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "qacategory"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "qacategory"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3Region:        envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3BucketPublic:  envOrDefault("S3_BUCKET_PUBLIC", "qacategory-public"),
		S3BucketPrivate: envOrDefault("S3_BUCKET_PRIVATE", "qacategory-private"),
		S3PublicURL:     os.Getenv("S3_PUBLIC_URL"),

		SiteURL:             strings.TrimRight(envOrDefault("SITE_URL", "http://localhost:8080"), "/"),
		BasePath:            normalizeBasePath(envOrDefault("BASE_PATH", "/questions/")),
		CategoriesSlug:      slug.OrDefault(os.Getenv("CATEGORIES_PAGE_SLUG"), "categories"),
		CategorySlug:        slug.OrDefault(os.Getenv("CATEGORY_PAGE_SLUG"), "category"),
		CategoriesOrderBy:   envOrDefault("CATEGORIES_ORDER_BY", "count"),
		CategoriesPageTitle: envOrDefault("CATEGORIES_PAGE_TITLE", "Categories"),
	}

	if strings.EqualFold(os.Getenv("CATEGORIES_ORDER"), "ASC") {
		cfg.CategoriesOrder = "ASC"
	} else {
		cfg.CategoriesOrder = "DESC"
	}

	var err error
	if cfg.PrettyPermalinks, err = envBool("PRETTY_PERMALINKS", true); err != nil {
		return nil, err
	}
	if cfg.CategoriesPerPage, err = envInt("CATEGORIES_PER_PAGE", 20); err != nil {
		return nil, err
	}
	if cfg.CategoryImageHeight, err = envInt("CATEGORY_IMAGE_HEIGHT", 150); err != nil {
		return nil, err
	}
	if cfg.DBMaxOpenConns, err = envInt("POSTGRES_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdleConns, err = envInt("POSTGRES_MAX_IDLE_CONNS", 5); err != nil {
		return nil, err
	}
	if cfg.QuestionsPerPage, err = envInt("QUESTIONS_PER_PAGE", 20); err != nil {
		return nil, err
	}
	if cfg.CardRateBurst, err = envInt("CARD_RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.CardRateLimit, err = envFloat("CARD_RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.CardTTL, err = envDuration("CATEGORY_CARD_TTL", time.Hour); err != nil {
		return nil, err
	}

	if cfg.CategoriesPerPage < 1 {
		return nil, fmt.Errorf("CATEGORIES_PER_PAGE must be positive, got %d", cfg.CategoriesPerPage)
	}
	if cfg.QuestionsPerPage < 1 {
		return nil, fmt.Errorf("QUESTIONS_PER_PAGE must be positive, got %d", cfg.QuestionsPerPage)
	}
	if cfg.CategoriesSlug == cfg.CategorySlug {
		return nil, fmt.Errorf("CATEGORIES_PAGE_SLUG and CATEGORY_PAGE_SLUG must differ, both are %q", cfg.CategorySlug)
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasStorage reports whether the S3 endpoint and both halves of the
// credential pair are configured.
func (c *Config) HasStorage() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// normalizeBasePath makes sure the base path starts and ends with a slash.
func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return "/"
	}
	return "/" + p + "/"
}
