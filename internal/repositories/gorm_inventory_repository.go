package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gudang/internal/models"
)

// GORMInventoryRepository is the relational implementation of
// InventoryRepository: item attributes in `items`, one `item_sizes` row per
// size label, joined on read. Works against SQLite and PostgreSQL.
type GORMInventoryRepository struct {
	db *gorm.DB
}

// itemRecord and itemSizeRecord are the table shapes. They stay private to
// this file; everything crossing the repository boundary is models.Item.
type itemRecord struct {
	ID          int64            `gorm:"primaryKey;autoIncrement"`
	Name        string           `gorm:"not null"`
	Category    string           `gorm:"not null;index"`
	Price       float64          `gorm:"not null"`
	Description string
	Sizes       []itemSizeRecord `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

func (itemRecord) TableName() string { return "items" }

type itemSizeRecord struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	ItemID   int64  `gorm:"not null;uniqueIndex:idx_item_sizes_item_size"`
	Size     string `gorm:"not null;uniqueIndex:idx_item_sizes_item_size"`
	Quantity int    `gorm:"not null"`
}

func (itemSizeRecord) TableName() string { return "item_sizes" }

// Ensure GORMInventoryRepository implements InventoryRepository.
var _ InventoryRepository = (*GORMInventoryRepository)(nil)

// NewGORMInventoryRepository creates a new instance of GORMInventoryRepository.
func NewGORMInventoryRepository(db *gorm.DB) *GORMInventoryRepository {
	return &GORMInventoryRepository{
		db: db,
	}
}

func recordToItem(rec itemRecord) models.Item {
	sizes := make(models.SizeStock, len(rec.Sizes))
	for _, s := range rec.Sizes {
		sizes[s.Size] = s.Quantity
	}
	return models.Item{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Category,
		Price:       rec.Price,
		Description: rec.Description,
		Sizes:       sizes,
	}
}

// EnsureSchema creates the items and item_sizes tables if they are absent.
func (r *GORMInventoryRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&itemRecord{}, &itemSizeRecord{}); err != nil {
		return fmt.Errorf("failed to migrate inventory schema: %w", err)
	}
	return nil
}

// ListItems retrieves all items with their sizes, ordered by category then
// name.
func (r *GORMInventoryRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	var recs []itemRecord
	if err := r.db.WithContext(ctx).Preload("Sizes").Order("category, name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]models.Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, recordToItem(rec))
	}
	return items, nil
}

// GetItem retrieves a single item by its id.
func (r *GORMInventoryRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var rec itemRecord
	if err := r.db.WithContext(ctx).Preload("Sizes").First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	item := recordToItem(rec)
	return &item, nil
}

// InsertItem persists a new item and its size rows in one transaction. The id
// comes from the items table's auto-increment, so it is strictly greater than
// every id handed out before.
func (r *GORMInventoryRepository) InsertItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	rec := itemRecord{
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Description: item.Description,
	}
	for size, qty := range item.Sizes {
		rec.Sizes = append(rec.Sizes, itemSizeRecord{Size: size, Quantity: qty})
	}

	if err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rec).Error
	}); err != nil {
		return nil, fmt.Errorf("failed to insert item: %w", err)
	}

	// Re-read so the caller sees exactly what was stored.
	return r.GetItem(ctx, rec.ID)
}

// SetSizeQuantity replaces the quantity of one existing size. The lookup and
// the update share a transaction so a concurrent write cannot leave the item
// half-updated.
func (r *GORMInventoryRepository) SetSizeQuantity(ctx context.Context, id int64, size string, quantity int) (*models.Item, error) {
	var rec itemRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&itemRecord{}, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to get item %d: %w", id, err)
		}

		res := tx.Model(&itemSizeRecord{}).
			Where("item_id = ? AND size = ?", id, size).
			Update("quantity", quantity)
		if res.Error != nil {
			return fmt.Errorf("failed to update quantity: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// The item exists but carries no such size key; updates never
			// create one.
			return &SizeNotFoundError{Size: size}
		}

		return tx.Preload("Sizes").First(&rec, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	item := recordToItem(rec)
	return &item, nil
}

// SeedIfEmpty loads the seed records when the store holds zero items. Records
// get position-derived ids and go in with ON CONFLICT DO NOTHING, so a racing
// second seed attempt finds the rows already present and changes nothing.
func (r *GORMInventoryRepository) SeedIfEmpty(ctx context.Context, records []models.SeedItem) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&itemRecord{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count items before seeding: %w", err)
		}
		if count > 0 {
			return nil
		}
		return insertSeedRecords(tx, records)
	})
}

// Reseed wipes both tables and loads the records fresh.
func (r *GORMInventoryRepository) Reseed(ctx context.Context, records []models.SeedItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM item_sizes").Error; err != nil {
			return fmt.Errorf("failed to clear item_sizes: %w", err)
		}
		if err := tx.Exec("DELETE FROM items").Error; err != nil {
			return fmt.Errorf("failed to clear items: %w", err)
		}
		return insertSeedRecords(tx, records)
	})
}

func insertSeedRecords(tx *gorm.DB, records []models.SeedItem) error {
	for i, rec := range records {
		item := itemRecord{
			ID:          seedID(i),
			Name:        rec.Name,
			Category:    rec.Category,
			Price:       rec.Price,
			Description: rec.Description,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
			return fmt.Errorf("failed to seed item %q: %w", rec.Name, err)
		}
		for size, qty := range rec.Sizes {
			sizeRow := itemSizeRecord{ItemID: item.ID, Size: size, Quantity: qty}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&sizeRow).Error; err != nil {
				return fmt.Errorf("failed to seed size %q of item %q: %w", size, rec.Name, err)
			}
		}
	}
	return syncIDSequences(tx)
}

// syncIDSequences advances the PostgreSQL id sequences past the explicitly
// seeded ids. Without it the first insert after seeding would collide with a
// seeded row; SQLite keeps its rowid counter in step on its own.
func syncIDSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"items", "item_sizes"} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s','id'), (SELECT COALESCE(MAX(id), 1) FROM %s))",
			table, table,
		)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to sync id sequence for %s: %w", table, err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *GORMInventoryRepository) Close(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection: %w", err)
	}
	return sqlDB.Close()
}
