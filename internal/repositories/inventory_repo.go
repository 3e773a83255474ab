package repositories

import (
	"context"
	"errors"
	"fmt"

	"gudang/internal/models"
)

// Storage errors. Operations translate these into failure envelopes; nothing
// else in the error chain is meant for clients.
var (
	// ErrItemNotFound reports a lookup for an id that is not in the store.
	ErrItemNotFound = errors.New("item not found")
)

// SizeNotFoundError reports a quantity update against a size label the item
// does not carry. Updates never create size keys.
type SizeNotFoundError struct {
	Size string
}

func (e *SizeNotFoundError) Error() string {
	return fmt.Sprintf("size %q not found for this item", e.Size)
}

// InventoryRepository defines the interface for inventory data access. Two
// backing shapes implement it with identical behavior: the relational store
// (items plus item_sizes rows, joined on read) and the document store (one
// document per item with the size map embedded).
type InventoryRepository interface {
	// EnsureSchema creates the underlying tables, collections or indexes if
	// absent. Safe to call on every startup.
	EnsureSchema(ctx context.Context) error

	// SeedIfEmpty inserts every record when the store holds zero items and is
	// a no-op otherwise. Ids are derived from record positions so that two
	// racing seed attempts converge on the state of a single successful seed.
	SeedIfEmpty(ctx context.Context, records []models.SeedItem) error

	// Reseed wipes the store and loads the records fresh. Backs the explicit
	// force-reseed flag; never invoked during normal operation.
	Reseed(ctx context.Context, records []models.SeedItem) error

	// ListItems returns all items with their full size breakdown, ordered by
	// category then name for display stability.
	ListItems(ctx context.Context) ([]models.Item, error)

	// GetItem returns the item with the given id or ErrItemNotFound.
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	// InsertItem persists a new item, assigning the next id, and returns the
	// stored item. The input's ID field is ignored.
	InsertItem(ctx context.Context, item *models.Item) (*models.Item, error)

	// SetSizeQuantity replaces the quantity for one existing size of one item
	// and returns the refreshed item. Returns ErrItemNotFound when the id is
	// absent and SizeNotFoundError when the item lacks the size key. The
	// write is atomic with respect to the single item it touches.
	SetSizeQuantity(ctx context.Context, id int64, size string, quantity int) (*models.Item, error)

	// Close releases the backing connection or pool.
	Close(ctx context.Context) error
}

// seedID derives the stable id for a seed record from its position in the
// external list. Deterministic ids are what make concurrent seeding converge:
// the second writer upserts the rows the first already wrote.
func seedID(position int) int64 {
	return int64(position) + 1
}
