package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	domainErrors "github.com/polkiloo/gophershop/internal/domain/errors"
	"github.com/polkiloo/gophershop/internal/domain/repository"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "product"
	}
	return slug
}

func slugSuffix() string {
	return uuid.NewString()[:4]
}

// uniqueSlug resolves a free slug for the product name, appending a short
// random suffix when the plain slug is taken by another product. selfID is
// the product being renamed; its own slug does not count as a collision.
func uniqueSlug(ctx context.Context, products repository.ProductRepository, name, selfID string) (string, error) {
	base := Slugify(name)
	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		existing, err := products.GetBySlug(ctx, candidate)
		if errors.Is(err, domainErrors.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if selfID != "" && existing.ID == selfID {
			return candidate, nil
		}
		candidate = base + "-" + slugSuffix()
	}
	return "", domainErrors.ErrAlreadyExists
}
