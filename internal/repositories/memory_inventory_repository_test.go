package repositories_test

import (
	"context"
	"testing"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_InsertAndGet(t *testing.T) {
	repo := repositories.NewMemoryInventoryRepository()
	ctx := context.Background()

	first, err := repo.InsertItem(ctx, &models.Item{
		Name:     "Classic Tee",
		Category: "T-Shirts",
		Price:    19.99,
		Sizes:    models.SizeStock{"S": 5, "M": 10},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)

	second, err := repo.InsertItem(ctx, &models.Item{Name: "Slim Jeans", Category: "Jeans", Price: 59.99, Sizes: models.SizeStock{"32": 6}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	fetched, err := repo.GetItem(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, fetched)

	_, err = repo.GetItem(ctx, 99)
	assert.ErrorIs(t, err, repositories.ErrItemNotFound)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := repositories.NewMemoryInventoryRepository()
	ctx := context.Background()

	created, err := repo.InsertItem(ctx, &models.Item{
		Name:     "Classic Tee",
		Category: "T-Shirts",
		Price:    19.99,
		Sizes:    models.SizeStock{"S": 5},
	})
	require.NoError(t, err)

	// Mutating what the caller got back must not reach the store.
	created.Sizes["S"] = 999

	fetched, err := repo.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, fetched.Sizes["S"])
}

func TestMemoryRepository_ListOrdering(t *testing.T) {
	repo := repositories.NewMemoryInventoryRepository()
	ctx := context.Background()

	for _, item := range []models.Item{
		{Name: "Graphic Tee", Category: "T-Shirts", Price: 24.99, Sizes: models.SizeStock{"M": 10}},
		{Name: "Slim Jeans", Category: "Jeans", Price: 59.99, Sizes: models.SizeStock{"32": 6}},
		{Name: "Classic Tee", Category: "T-Shirts", Price: 19.99, Sizes: models.SizeStock{"S": 5}},
	} {
		_, err := repo.InsertItem(ctx, &item)
		require.NoError(t, err)
	}

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Slim Jeans", items[0].Name)
	assert.Equal(t, "Classic Tee", items[1].Name)
	assert.Equal(t, "Graphic Tee", items[2].Name)
}

func TestMemoryRepository_SetSizeQuantity(t *testing.T) {
	repo := repositories.NewMemoryInventoryRepository()
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
	assert.Equal(t, models.SizeStock{"S": 5, "M": 3}, updated.Sizes)

	_, err = repo.SetSizeQuantity(ctx, 99, "M", 3)
	assert.ErrorIs(t, err, repositories.ErrItemNotFound)

	_, err = repo.SetSizeQuantity(ctx, created.ID, "XXL", 3)
	var sizeErr *repositories.SizeNotFoundError
	require.ErrorAs(t, err, &sizeErr)
	assert.Equal(t, "XXL", sizeErr.Size)

	fetched, err := repo.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SizeStock{"S": 5, "M": 3}, fetched.Sizes)
}

func TestMemoryRepository_Seeding(t *testing.T) {
	repo := repositories.NewMemoryInventoryRepository()
	ctx := context.Background()

	records := []models.SeedItem{
		{Name: "Classic Tee", Category: "T-Shirts", Price: 19.99, Sizes: models.SizeStock{"S": 5}},
		{Name: "Slim Jeans", Category: "Jeans", Price: 59.99, Sizes: models.SizeStock{"32": 6}},
	}

	require.NoError(t, repo.SeedIfEmpty(ctx, records))
	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// Idempotent on a populated store.
	require.NoError(t, repo.SeedIfEmpty(ctx, records))
	again, err := repo.ListItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, items, again)

	// Inserts continue past the seeded ids.
	created, err := repo.InsertItem(ctx, &models.Item{Name: "New Arrival", Category: "Jackets", Sizes: models.SizeStock{"L": 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)

	// Reseed replaces everything and resets the id counter.
	require.NoError(t, repo.Reseed(ctx, records))
	items, err = repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	created, err = repo.InsertItem(ctx, &models.Item{Name: "After Reseed", Category: "Misc", Sizes: models.SizeStock{"M": 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
}
