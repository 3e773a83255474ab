package repositories

import (
	"context"
	"sort"
	"sync"

	"gudang/internal/models"
)

// MemoryInventoryRepository keeps the whole inventory in process memory. It
// backs the memory storage driver and doubles as the repository used by the
// handler and service tests.
type MemoryInventoryRepository struct {
	mutex  sync.RWMutex
	items  map[int64]models.Item
	nextID int64
}

// Ensure MemoryInventoryRepository implements InventoryRepository.
var _ InventoryRepository = (*MemoryInventoryRepository)(nil)

// NewMemoryInventoryRepository creates a new instance of
// MemoryInventoryRepository.
func NewMemoryInventoryRepository() *MemoryInventoryRepository {
	return &MemoryInventoryRepository{
		items: make(map[int64]models.Item),
	}
}

// copyItem detaches an item from the store so callers can mutate their copy
// freely. Sizes come back as an empty map rather than nil, matching what the
// persistent implementations return.
func copyItem(item models.Item) models.Item {
	sizes := item.Sizes.Copy()
	if sizes == nil {
		sizes = models.SizeStock{}
	}
	item.Sizes = sizes
	return item
}

// EnsureSchema is a no-op; the map needs no preparation.
func (r *MemoryInventoryRepository) EnsureSchema(ctx context.Context) error {
	return nil
}

// ListItems returns all items ordered by category then name.
func (r *MemoryInventoryRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	items := make([]models.Item, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, copyItem(item))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// GetItem returns a single item by its id.
func (r *MemoryInventoryRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	out := copyItem(item)
	return &out, nil
}

// InsertItem stores a new item under the next free id.
func (r *MemoryInventoryRepository) InsertItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.nextID++
	stored := copyItem(*item)
	stored.ID = r.nextID
	r.items[stored.ID] = stored

	out := copyItem(stored)
	return &out, nil
}

// SetSizeQuantity replaces the quantity of one existing size.
func (r *MemoryInventoryRepository) SetSizeQuantity(ctx context.Context, id int64, size string, quantity int) (*models.Item, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	if _, ok := item.Sizes[size]; !ok {
		return nil, &SizeNotFoundError{Size: size}
	}
	item.Sizes[size] = quantity
	r.items[id] = item

	out := copyItem(item)
	return &out, nil
}

func (r *MemoryInventoryRepository) storeSeedRecords(records []models.SeedItem) {
	for i, rec := range records {
		id := seedID(i)
		sizes := rec.Sizes.Copy()
		if sizes == nil {
			sizes = models.SizeStock{}
		}
		r.items[id] = models.Item{
			ID:          id,
			Name:        rec.Name,
			Category:    rec.Category,
			Price:       rec.Price,
			Description: rec.Description,
			Sizes:       sizes,
		}
		if id > r.nextID {
			r.nextID = id
		}
	}
}

// SeedIfEmpty loads the seed records when the store holds zero items.
func (r *MemoryInventoryRepository) SeedIfEmpty(ctx context.Context, records []models.SeedItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.items) > 0 {
		return nil
	}
	r.storeSeedRecords(records)
	return nil
}

// Reseed wipes the store and loads the records fresh.
func (r *MemoryInventoryRepository) Reseed(ctx context.Context, records []models.SeedItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.items = make(map[int64]models.Item)
	r.nextID = 0
	r.storeSeedRecords(records)
	return nil
}

// Close is a no-op.
func (r *MemoryInventoryRepository) Close(ctx context.Context) error {
	return nil
}
