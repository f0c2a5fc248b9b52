package services

import (
	"fmt"

	"rentique/internal/models"
)

// uniqueSlug derives a slug from name and resolves collisions by
// probing base, base-1, base-2, … excluding the entity's own identity.
// A unique index on the slug column backstops races between concurrent
// probes.
func uniqueSlug(name, excludeID string, exists func(slug, excludeID string) (bool, error)) (string, error) {
	base := models.Slugify(name)
	if base == "" {
		base = "item"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to probe slug %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
