package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes   = regexp.MustCompile(`-+`)
)

const maxSlugBase = 80

// Slugify creates a URL-friendly slug from a name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = slugDashes.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugBase {
		slug = strings.Trim(slug[:maxSlugBase], "-")
	}
	if slug == "" {
		slug = "product"
	}
	return slug
}

// UniqueSlug appends a short random suffix to Slugify(name).
func UniqueSlug(name string) string {
	return Slugify(name) + "-" + uuid.New().String()[:8]
}
