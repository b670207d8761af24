package catalog_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/Carhuajulca/go-identity/catalog"
	"github.com/Carhuajulca/go-identity/repository"
)

func setupCatalogDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, db.ResetModel(ctx, (*catalog.Category)(nil)))
	require.NoError(t, db.ResetModel(ctx, (*catalog.Product)(nil)))

	return db
}

func TestProducts_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewProductsRepository(setupCatalogDB(t))

	created, err := products.Create(ctx, &catalog.Product{
		Name:       "Mechanical Keyboard",
		Slug:       "mechanical-keyboard",
		SKU:        "KB-001",
		PriceCents: 12999,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "mechanical-keyboard", got.Slug)
	})

	t.Run("by slug", func(t *testing.T) {
		got, err := products.GetBySlug(ctx, "mechanical-keyboard")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("by sku", func(t *testing.T) {
		got, err := products.GetBySKU(ctx, "KB-001")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
	})

	t.Run("unknown slug is not found", func(t *testing.T) {
		_, err := products.GetBySlug(ctx, "nope")
		assert.True(t, repository.IsRecordNotFound(err))
	})
}

func TestProducts_UniqueSlugAndSKU(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewProductsRepository(setupCatalogDB(t))

	_, err := products.Create(ctx, &catalog.Product{
		Name: "First", Slug: "taken", SKU: "SKU-1", PriceCents: 100,
	})
	require.NoError(t, err)

	_, err = products.Create(ctx, &catalog.Product{
		Name: "Second", Slug: "taken", SKU: "SKU-2", PriceCents: 100,
	})
	require.Error(t, err)
	assert.True(t, repository.IsConstraintViolation(err))

	_, err = products.Create(ctx, &catalog.Product{
		Name: "Third", Slug: "free", SKU: "SKU-1", PriceCents: 100,
	})
	require.Error(t, err)
	assert.True(t, repository.IsConstraintViolation(err))
}

func TestProducts_ListPage(t *testing.T) {
	ctx := context.Background()
	products := catalog.NewProductsRepository(setupCatalogDB(t))

	for i := 0; i < 5; i++ {
		_, err := products.Create(ctx, &catalog.Product{
			Name:       fmt.Sprintf("Product %d", i),
			Slug:       fmt.Sprintf("product-%d", i),
			SKU:        fmt.Sprintf("SKU-%d", i),
			PriceCents: int64(100 * (i + 1)),
		})
		require.NoError(t, err)
	}

	t.Run("skip and limit", func(t *testing.T) {
		page, err := products.ListPage(ctx, 2, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "product-2", page[0].Slug)
	})

	t.Run("negative skip clamps to zero", func(t *testing.T) {
		page, err := products.ListPage(ctx, -10, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "product-0", page[0].Slug)
	})

	t.Run("oversized limit clamps to the cap", func(t *testing.T) {
		page, err := products.ListPage(ctx, 0, 10_000)
		require.NoError(t, err)
		assert.Len(t, page, 5)
	})
}

func TestProducts_ListByCategory(t *testing.T) {
	ctx := context.Background()
	db := setupCatalogDB(t)
	categories := catalog.NewCategoriesRepository(db)
	products := catalog.NewProductsRepository(db)

	keyboards, err := categories.Create(ctx, &catalog.Category{Name: "Keyboards", Slug: "keyboards", IsActive: true})
	require.NoError(t, err)
	mice, err := categories.Create(ctx, &catalog.Category{Name: "Mice", Slug: "mice", IsActive: true})
	require.NoError(t, err)

	_, err = products.Create(ctx, &catalog.Product{
		Name: "KB", Slug: "kb", SKU: "KB-1", PriceCents: 100, CategoryID: &keyboards.ID,
	})
	require.NoError(t, err)
	_, err = products.Create(ctx, &catalog.Product{
		Name: "Mouse", Slug: "mouse", SKU: "MS-1", PriceCents: 100, CategoryID: &mice.ID,
	})
	require.NoError(t, err)

	got, err := products.ListByCategory(ctx, keyboards.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kb", got[0].Slug)
}

func TestCategories_NestingAndLookup(t *testing.T) {
	ctx := context.Background()
	categories := catalog.NewCategoriesRepository(setupCatalogDB(t))

	root, err := categories.Create(ctx, &catalog.Category{
		Name: "Electronics", Slug: "electronics", IsActive: true,
	})
	require.NoError(t, err)

	child, err := categories.Create(ctx, &catalog.Category{
		Name: "Keyboards", Slug: "keyboards", ParentID: &root.ID, IsActive: true,
	})
	require.NoError(t, err)

	got, err := categories.GetBySlug(ctx, "keyboards")
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)
	assert.Equal(t, child.ID, got.ID)
}

func TestCategories_UpdateFields(t *testing.T) {
	ctx := context.Background()
	categories := catalog.NewCategoriesRepository(setupCatalogDB(t))

	created, err := categories.Create(ctx, &catalog.Category{
		Name: "Audio", Slug: "audio", IsActive: true,
	})
	require.NoError(t, err)

	updated, err := categories.Update(ctx, created.ID, map[string]any{
		"sort_order": 5,
		"is_active":  false,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.SortOrder)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "audio", updated.Slug)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Mechanical Keyboard", "mechanical-keyboard"},
		{"  Café  con   Leche  ", "caf-con-leche"},
		{"UPPER", "upper"},
		{"100% cotton", "100-cotton"},
		{"trailing!!!", "trailing"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Slugify(tt.in))
		})
	}
}
