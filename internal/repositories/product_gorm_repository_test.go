package repositories_test

import (
	"testing"

	"rentique/internal/models"
	"rentique/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductSize{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// seedCatalog creates two categories and three products covering both
// ways a product can reference a category: the legacy single field and
// the many-to-many set.
func seedCatalog(t *testing.T, db *gorm.DB) (repositories.ProductRepository, models.Category, models.Category) {
	t.Helper()
	repo := repositories.NewGORMProductRepository(db)

	dresses := models.Category{Name: "Dresses", Slug: "dresses"}
	suits := models.Category{Name: "Suits", Slug: "suits"}
	require.NoError(t, repositories.NewGORMCategoryRepository(db).Create(&dresses))
	require.NoError(t, repositories.NewGORMCategoryRepository(db).Create(&suits))

	// Referenced through the legacy field only.
	legacyOnly := models.Product{
		Name: "Silk Gown", Slug: "silk-gown", Description: "Flowing evening gown",
		CategoryID: suits.ID, Price: 80, Color: "Emerald Green", IsAvailable: true,
		Tags:  []string{"vintage", "formal"},
		Sizes: []models.ProductSize{{Size: "M", IsAvailable: true, Quantity: 1}},
	}
	require.NoError(t, repo.Create(&legacyOnly))

	// Referenced through the set only: the legacy field mirrors the
	// first category, so the second lives solely in the join table.
	setOnly := models.Product{
		Name: "Tux Jacket", Slug: "tux-jacket", Description: "Sharp black tie option",
		Categories: []models.Category{dresses, suits},
		Price:      120, Color: "Black", IsAvailable: true, IsFeatured: true,
		Sizes: []models.ProductSize{{Size: "L", IsAvailable: true, Quantity: 2}},
	}
	require.NoError(t, repo.Create(&setOnly))

	unrelated := models.Product{
		Name: "Summer Dress", Slug: "summer-dress", Description: "Light cotton dress",
		Categories: []models.Category{dresses},
		Price:      45, Color: "Red", IsAvailable: true,
		Sizes: []models.ProductSize{{Size: "S", IsAvailable: true, Quantity: 3}},
	}
	require.NoError(t, repo.Create(&unrelated))

	return repo, dresses, suits
}

func listSlugs(products []models.Product) []string {
	slugs := make([]string, 0, len(products))
	for _, p := range products {
		slugs = append(slugs, p.Slug)
	}
	return slugs
}

func TestGORMProductRepository_CategoryFilterMatchesBothFields(t *testing.T) {
	db := newTestDB(t)
	repo, _, suits := seedCatalog(t, db)

	opts := repositories.ListOptions{}.Normalize("created_at", "desc")
	products, total, err := repo.List(repositories.ProductFilter{CategoryID: suits.ID}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.ElementsMatch(t, []string{"silk-gown", "tux-jacket"}, listSlugs(products))
}

func TestGORMProductRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	repo, _, _ := seedCatalog(t, db)
	opts := repositories.ListOptions{}.Normalize("created_at", "desc")

	// Free-text search hits name, description and tags.
	products, _, err := repo.List(repositories.ProductFilter{Search: "GOWN"}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"silk-gown"}, listSlugs(products))

	products, _, err = repo.List(repositories.ProductFilter{Search: "vintage"}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"silk-gown"}, listSlugs(products))

	// Exact size within the size rows.
	products, _, err = repo.List(repositories.ProductFilter{Size: "L"}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tux-jacket"}, listSlugs(products))

	// Partial color match is case-insensitive.
	products, _, err = repo.List(repositories.ProductFilter{Color: "green"}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"silk-gown"}, listSlugs(products))

	// Price range.
	min, max := 50.0, 100.0
	products, _, err = repo.List(repositories.ProductFilter{MinPrice: &min, MaxPrice: &max}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"silk-gown"}, listSlugs(products))

	products, _, err = repo.List(repositories.ProductFilter{FeaturedOnly: true}, opts)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tux-jacket"}, listSlugs(products))
}

func TestGORMProductRepository_SortInputNeverReachesSQL(t *testing.T) {
	db := newTestDB(t)
	repo, _, _ := seedCatalog(t, db)

	// A hostile sort column is replaced by the default instead of being
	// interpolated into ORDER BY.
	opts := repositories.ListOptions{
		SortBy:    "id, (CASE WHEN (SELECT password FROM users LIMIT 1) LIKE 's%' THEN products.price ELSE -products.price END)",
		SortOrder: "asc",
	}.Normalize("created_at", "desc")
	products, total, err := repo.List(repositories.ProductFilter{}, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, products, 3)

	// A legitimate whitelisted column still sorts.
	opts = repositories.ListOptions{SortBy: "price", SortOrder: "asc"}.Normalize("created_at", "desc")
	products, _, err = repo.List(repositories.ProductFilter{}, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"summer-dress", "silk-gown", "tux-jacket"}, listSlugs(products))
}

func TestGORMCategoryRepository_SortInputNeverReachesSQL(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMCategoryRepository(db)
	require.NoError(t, repo.Create(&models.Category{Name: "Dresses", Slug: "dresses", SortOrder: 2}))
	require.NoError(t, repo.Create(&models.Category{Name: "Suits", Slug: "suits", SortOrder: 1}))

	opts := repositories.ListOptions{
		SortBy: "(CASE WHEN (SELECT password FROM users LIMIT 1) LIKE 's%' THEN name ELSE slug END)",
	}.Normalize("sort_order", "asc")
	categories, total, err := repo.List(opts)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	// Falls back to the default sort order ordering.
	assert.Equal(t, "Suits", categories[0].Name)
}
