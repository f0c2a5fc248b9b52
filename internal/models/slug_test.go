package models_test

import (
	"testing"

	"rentique/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Red Dress":             "red-dress",
		"  Red   Dress  ":       "red-dress",
		"Gucci's Finest (2024)": "gucci-s-finest-2024",
		"ALL CAPS":              "all-caps",
		"already-a-slug":        "already-a-slug",
		"Ünïcode Näme":          "n-code-n-me",
		"!!!":                   "",
		"":                      "",
	}
	for input, want := range cases {
		assert.Equal(t, want, models.Slugify(input), "input %q", input)
	}
}

func TestSlugify_Deterministic(t *testing.T) {
	assert.Equal(t, models.Slugify("Red Dress"), models.Slugify("Red Dress"))
}

func TestProduct_SyncPrimaryCategory(t *testing.T) {
	product := &models.Product{
		CategoryID: "stale",
		Categories: []models.Category{{ID: "cat-2"}, {ID: "cat-1"}},
	}
	product.SyncPrimaryCategory()
	assert.Equal(t, "cat-2", product.CategoryID)

	// An empty set leaves the legacy column alone; writes never reach
	// the hook with zero categories.
	product.Categories = nil
	product.SyncPrimaryCategory()
	assert.Equal(t, "cat-2", product.CategoryID)
}

func TestIsValidSize(t *testing.T) {
	for _, size := range models.ValidSizes {
		assert.True(t, models.IsValidSize(size), size)
	}
	assert.False(t, models.IsValidSize("XXXL"))
	assert.False(t, models.IsValidSize("m"))
}

func TestOrderStatusValidation(t *testing.T) {
	assert.True(t, models.IsValidOrderStatus(models.OrderPending))
	assert.True(t, models.IsValidOrderStatus(models.OrderDelivered))
	assert.False(t, models.IsValidOrderStatus("Teleported"))

	assert.True(t, models.IsValidPaymentStatus(models.PaymentPaid))
	assert.False(t, models.IsValidPaymentStatus("IOU"))
}
