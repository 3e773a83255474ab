package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gudang/internal/models"
)

const (
	itemsCollection = "items"
	mongoOpTimeout  = 5 * time.Second

	// How many times InsertItem retries when a concurrent insert grabs the
	// same id.
	insertIDRetries = 5
)

// MongoInventoryRepository is the document implementation of
// InventoryRepository: one document per item, sizes embedded as a map.
type MongoInventoryRepository struct {
	client *mongo.Client
	items  *mongo.Collection
}

// itemDoc is the stored document shape. The item id doubles as the document
// _id, which gives uniqueness for free.
type itemDoc struct {
	ID          int64          `bson:"_id"`
	Name        string         `bson:"name"`
	Category    string         `bson:"category"`
	Price       float64        `bson:"price"`
	Description string         `bson:"description"`
	Sizes       map[string]int `bson:"sizes"`
}

// Ensure MongoInventoryRepository implements InventoryRepository.
var _ InventoryRepository = (*MongoInventoryRepository)(nil)

// NewMongoInventoryRepository connects to MongoDB and pings it before
// returning, so a bad URI surfaces at startup rather than on the first
// request.
func NewMongoInventoryRepository(ctx context.Context, uri, database string) (*MongoInventoryRepository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoInventoryRepository{
		client: client,
		items:  client.Database(database).Collection(itemsCollection),
	}, nil
}

func docToItem(doc itemDoc) models.Item {
	sizes := make(models.SizeStock, len(doc.Sizes))
	for size, qty := range doc.Sizes {
		sizes[size] = qty
	}
	return models.Item{
		ID:          doc.ID,
		Name:        doc.Name,
		Category:    doc.Category,
		Price:       doc.Price,
		Description: doc.Description,
		Sizes:       sizes,
	}
}

func itemToDoc(item models.Item) itemDoc {
	return itemDoc{
		ID:          item.ID,
		Name:        item.Name,
		Category:    item.Category,
		Price:       item.Price,
		Description: item.Description,
		Sizes:       item.Sizes,
	}
}

// EnsureSchema creates the listing index. Documents themselves need no
// migration.
func (r *MongoInventoryRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	_, err := r.items.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create inventory index: %w", err)
	}
	return nil
}

// ListItems retrieves all items ordered by category then name.
func (r *MongoInventoryRepository) ListItems(ctx context.Context) ([]models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.items.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	items := make([]models.Item, 0, len(docs))
	for _, doc := range docs {
		items = append(items, docToItem(doc))
	}
	return items, nil
}

// GetItem retrieves a single item by its id.
func (r *MongoInventoryRepository) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var doc itemDoc
	if err := r.items.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	item := docToItem(doc)
	return &item, nil
}

func (r *MongoInventoryRepository) maxItemID(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var doc struct {
		ID int64 `bson:"_id"`
	}
	err := r.items.FindOne(ctx, bson.M{}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to find highest item id: %w", err)
	}
	return doc.ID, nil
}

// InsertItem persists a new item under the next free id. Ids are handed out
// as max+1; when two inserts race for the same id the loser hits the _id
// uniqueness constraint and retries with a fresh id.
func (r *MongoInventoryRepository) InsertItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	for attempt := 0; attempt < insertIDRetries; attempt++ {
		maxID, err := r.maxItemID(ctx)
		if err != nil {
			return nil, err
		}

		doc := itemToDoc(*item)
		doc.ID = maxID + 1
		if doc.Sizes == nil {
			doc.Sizes = map[string]int{}
		}

		_, err = r.items.InsertOne(ctx, doc)
		if mongo.IsDuplicateKeyError(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to insert item: %w", err)
		}

		stored := docToItem(doc)
		return &stored, nil
	}
	return nil, fmt.Errorf("failed to insert item: id contention persisted after %d attempts", insertIDRetries)
}

// SetSizeQuantity replaces the quantity of one existing size. The filter
// matches the size key together with the id, so the update is atomic and a
// missing size can never be created by it.
func (r *MongoInventoryRepository) SetSizeQuantity(ctx context.Context, id int64, size string, quantity int) (*models.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	sizeField := fmt.Sprintf("sizes.%s", size)
	filter := bson.M{"_id": id, sizeField: bson.M{"$exists": true}}
	update := bson.M{"$set": bson.M{sizeField: quantity}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc itemDoc
	err := r.items.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		item := docToItem(doc)
		return &item, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	// Nothing matched: find out whether the item or only the size is missing.
	if err := r.items.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item %d: %w", id, err)
	}
	return nil, &SizeNotFoundError{Size: size}
}

func (r *MongoInventoryRepository) upsertSeedRecords(ctx context.Context, records []models.SeedItem) error {
	for i, rec := range records {
		doc := itemDoc{
			ID:          seedID(i),
			Name:        rec.Name,
			Category:    rec.Category,
			Price:       rec.Price,
			Description: rec.Description,
			Sizes:       rec.Sizes,
		}
		if doc.Sizes == nil {
			doc.Sizes = map[string]int{}
		}
		filter := bson.M{"_id": doc.ID}
		if _, err := r.items.ReplaceOne(ctx, filter, doc, options.Replace().SetUpsert(true)); err != nil {
			return fmt.Errorf("failed to seed item %q: %w", rec.Name, err)
		}
	}
	return nil
}

// SeedIfEmpty loads the seed records when the collection holds zero items.
// Records get position-derived ids and go in as upserts, so two racing seed
// attempts write identical documents and converge on the same state.
func (r *MongoInventoryRepository) SeedIfEmpty(ctx context.Context, records []models.SeedItem) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	count, err := r.items.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count items before seeding: %w", err)
	}
	if count > 0 {
		return nil
	}
	return r.upsertSeedRecords(ctx, records)
}

// Reseed wipes the collection and loads the records fresh.
func (r *MongoInventoryRepository) Reseed(ctx context.Context, records []models.SeedItem) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	if _, err := r.items.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}
	return r.upsertSeedRecords(ctx, records)
}

// Close disconnects from MongoDB.
func (r *MongoInventoryRepository) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}
