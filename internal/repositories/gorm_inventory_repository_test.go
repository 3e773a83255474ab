package repositories_test

import (
	"context"
	"fmt"
	"testing"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openGORMRepo builds the repository over an in-memory SQLite database named
// after the test, so tests stay isolated from each other.
func openGORMRepo(t *testing.T) *repositories.GORMInventoryRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	repo := repositories.NewGORMInventoryRepository(db)
	require.NoError(t, repo.EnsureSchema(context.Background()))
	t.Cleanup(func() { repo.Close(context.Background()) })
	return repo
}

func TestGORMRepository_EnsureSchemaIdempotent(t *testing.T) {
	repo := openGORMRepo(t)

	// Already ran once in openGORMRepo; a second run must be a no-op.
	assert.NoError(t, repo.EnsureSchema(context.Background()))
}

func TestGORMRepository_InsertAndGet(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	first, err := repo.InsertItem(ctx, &models.Item{
		Name:     "Classic Tee",
		Category: "T-Shirts",
		Price:    19.99,
		Sizes:    models.SizeStock{"S": 5, "M": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Empty(t, first.Description)

	second, err := repo.InsertItem(ctx, &models.Item{
		Name:        "Slim Jeans",
		Category:    "Jeans",
		Price:       59.99,
		Description: "Dark wash",
		Sizes:       models.SizeStock{"32": 6},
	})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	fetched, err := repo.GetItem(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, fetched)
	assert.Equal(t, models.SizeStock{"S": 5, "M": 10}, fetched.Sizes)
}

func TestGORMRepository_GetItemNotFound(t *testing.T) {
	repo := openGORMRepo(t)

	_, err := repo.GetItem(context.Background(), 999)

	assert.ErrorIs(t, err, repositories.ErrItemNotFound)
}

func TestGORMRepository_ListOrdering(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	for _, item := range []models.Item{
		{Name: "Slim Jeans", Category: "Jeans", Price: 59.99, Sizes: models.SizeStock{"32": 6}},
		{Name: "Graphic Tee", Category: "T-Shirts", Price: 24.99, Sizes: models.SizeStock{"M": 10}},
		{Name: "Summer Dress", Category: "Dresses", Price: 79.0, Sizes: models.SizeStock{"M": 8}},
		{Name: "Classic Tee", Category: "T-Shirts", Price: 19.99, Sizes: models.SizeStock{"S": 5}},
	} {
		_, err := repo.InsertItem(ctx, &item)
		require.NoError(t, err)
	}

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	assert.Equal(t, []string{"Summer Dress", "Slim Jeans", "Classic Tee", "Graphic Tee"}, names)
	assert.Equal(t, models.SizeStock{"M": 8}, items[0].Sizes)
}

func TestGORMRepository_SetSizeQuantity(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{
		Name:     "Classic Tee",
		Category: "T-Shirts",
		Price:    19.99,
		Sizes:    models.SizeStock{"S": 5, "M": 10},
	})
	require.NoError(t, err)

	updated, err := repo.SetSizeQuantity(ctx, created.ID, "M", 3)
	require.NoError(t, err)

	// Only the addressed size changed.
	assert.Equal(t, models.SizeStock{"S": 5, "M": 3}, updated.Sizes)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Price, updated.Price)

	// Setting to zero is a valid stock level.
	updated, err = repo.SetSizeQuantity(ctx, created.ID, "S", 0)
	require.NoError(t, err)
	assert.Equal(t, models.SizeStock{"S": 0, "M": 3}, updated.Sizes)
}

func TestGORMRepository_SetSizeQuantityErrors(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{
		Name:     "Classic Tee",
		Category: "T-Shirts",
		Price:    19.99,
		Sizes:    models.SizeStock{"S": 5},
	})
	require.NoError(t, err)

	// Missing item.
	_, err = repo.SetSizeQuantity(ctx, 999, "S", 1)
	assert.ErrorIs(t, err, repositories.ErrItemNotFound)

	// Missing size on an existing item.
	_, err = repo.SetSizeQuantity(ctx, created.ID, "XXL", 1)
	var sizeErr *repositories.SizeNotFoundError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "XXL", sizeErr.Size)

	// The failed update never creates the size or touches the others.
	fetched, err := repo.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SizeStock{"S": 5}, fetched.Sizes)
}

func seedRecords() []models.SeedItem {
	return []models.SeedItem{
		{Name: "Classic Tee", Category: "T-Shirts", Price: 19.99, Sizes: models.SizeStock{"S": 5, "M": 10}},
		{Name: "Slim Jeans", Category: "Jeans", Price: 59.99, Sizes: models.SizeStock{"32": 6}},
	}
}

func TestGORMRepository_SeedIfEmpty(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedIfEmpty(ctx, seedRecords()))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.SizeStock{"32": 6}, items[0].Sizes)

	// Seeding again must not duplicate or alter anything.
	require.NoError(t, repo.SeedIfEmpty(ctx, seedRecords()))
	again, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, again)
}

func TestGORMRepository_SeedIfEmptySkipsPopulatedStore(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	_, err := repo.InsertItem(ctx, &models.Item{Name: "Existing", Category: "Misc", Sizes: models.SizeStock{"M": 1}})
	require.NoError(t, err)

	require.NoError(t, repo.SeedIfEmpty(ctx, seedRecords()))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Existing", items[0].Name)
}

func TestGORMRepository_InsertContinuesAfterSeed(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedIfEmpty(ctx, seedRecords()))

	created, err := repo.InsertItem(ctx, &models.Item{
		Name:     "New Arrival",
		Category: "Jackets",
		Price:    89.99,
		Sizes:    models.SizeStock{"L": 2},
	})
	require.NoError(t, err)

	// Seeded rows took ids 1 and 2; the next insert continues past them.
	assert.Equal(t, int64(3), created.ID)
}

func TestGORMRepository_Reseed(t *testing.T) {
	repo := openGORMRepo(t)
	ctx := context.Background()

	_, err := repo.InsertItem(ctx, &models.Item{Name: "Old Stock", Category: "Misc", Sizes: models.SizeStock{"M": 1}})
	require.NoError(t, err)

	require.NoError(t, repo.Reseed(ctx, seedRecords()))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.NotEqual(t, "Old Stock", item.Name)
	}
}
