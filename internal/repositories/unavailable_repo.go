package repositories

import (
	"context"
	"fmt"

	"gudang/internal/models"
)

// UnavailableRepository stands in when the configured store cannot be opened
// at startup. The server still comes up and answers every request; each
// storage call reports the original failure instead of panicking or killing
// the process.
type UnavailableRepository struct {
	cause error
}

// Ensure UnavailableRepository implements InventoryRepository.
var _ InventoryRepository = (*UnavailableRepository)(nil)

// NewUnavailableRepository wraps the startup failure that prevented a real
// repository from being built.
func NewUnavailableRepository(cause error) *UnavailableRepository {
	return &UnavailableRepository{cause: cause}
}

func (r *UnavailableRepository) err() error {
	return fmt.Errorf("storage unavailable: %w", r.cause)
}

func (r *UnavailableRepository) EnsureSchema(ctx context.Context) error {
	return r.err()
}

func (r *UnavailableRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	return nil, r.err()
}

func (r *UnavailableRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	return nil, r.err()
}

func (r *UnavailableRepository) InsertItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	return nil, r.err()
}

func (r *UnavailableRepository) SetSizeQuantity(ctx context.Context, id int64, size string, quantity int) (*models.Item, error) {
	return nil, r.err()
}

func (r *UnavailableRepository) SeedIfEmpty(ctx context.Context, records []models.SeedItem) error {
	return r.err()
}

func (r *UnavailableRepository) Reseed(ctx context.Context, records []models.SeedItem) error {
	return r.err()
}

func (r *UnavailableRepository) Close(ctx context.Context) error {
	return nil
}
