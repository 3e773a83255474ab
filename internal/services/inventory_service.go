package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// ErrInvalidQuantity rejects negative stock levels before they reach the
// store.
var ErrInvalidQuantity = errors.New("quantity cannot be negative")

// Publisher sends inventory events to the message broker. A nil Publisher
// disables eventing without touching the request path.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// InventoryService implements the five inventory operations on top of an
// InventoryRepository. Every method returns either a success envelope or an
// error; translating errors into the failure envelope happens once, in the
// transport layer.
type InventoryService struct {
	repo      repositories.InventoryRepository
	publisher Publisher
	seeds     []models.SeedItem
	logger    *zap.Logger
	validate  *validator.Validate
	seedOnce  sync.Once
}

// NewInventoryService creates a new instance of InventoryService. The seed
// records back the lazy seed-and-retry in listing; pass nil to disable it.
func NewInventoryService(repo repositories.InventoryRepository, publisher Publisher, seeds []models.SeedItem, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		repo:      repo,
		publisher: publisher,
		seeds:     seeds,
		logger:    logger,
		validate:  validator.New(),
	}
}

func defaultSizes() models.SizeStock {
	return models.SizeStock{"S": 0, "M": 0, "L": 0}
}

// listItems lists the store and, when it comes back empty while seed records
// exist, seeds once per process and lists again. A seeding failure is logged
// and swallowed; an empty store after the retry is a valid empty inventory,
// not an error.
func (s *InventoryService) listItems(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 || len(s.seeds) == 0 {
		return items, nil
	}

	s.seedOnce.Do(func() {
		if err := s.repo.SeedIfEmpty(ctx, s.seeds); err != nil {
			s.logger.Warn("lazy seeding failed", zap.Error(err))
		}
	})
	return s.repo.ListItems(ctx)
}

func distinctCategories(items []models.Item) []string {
	seen := make(map[string]struct{}, len(items))
	categories := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Category]; ok {
			continue
		}
		seen[item.Category] = struct{}{}
		categories = append(categories, item.Category)
	}
	return categories
}

// GetInventory returns every item together with the distinct categories.
func (s *InventoryService) GetInventory(ctx context.Context) (models.InventoryResponse, error) {
	items, err := s.listItems(ctx)
	if err != nil {
		return models.InventoryResponse{}, err
	}
	return models.NewInventoryResponse(items, distinctCategories(items)), nil
}

// AddItem validates the request, substitutes the default size breakdown when
// the caller sent none, and persists the new item.
func (s *InventoryService) AddItem(ctx context.Context, req *models.AddItemRequest) (models.ItemResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return models.ItemResponse{}, err
	}

	sizes := req.Sizes
	if sizes == nil {
		sizes = defaultSizes()
	}

	created, err := s.repo.InsertItem(ctx, &models.Item{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Sizes:       sizes,
	})
	if err != nil {
		return models.ItemResponse{}, err
	}

	s.publishEvent("item_added", map[string]interface{}{
		"item_id":  created.ID,
		"name":     created.Name,
		"category": created.Category,
	})

	return models.NewItemResponse(created), nil
}

func (s *InventoryService) GetItemByID(ctx context.Context, id int64) (models.ItemResponse, error) {
	item, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return models.ItemResponse{}, err
	}
	return models.NewItemResponse(item), nil
}

// UpdateItemQuantity sets the stock level of one existing size on one item.
func (s *InventoryService) UpdateItemQuantity(ctx context.Context, id int64, size string, quantity int) (models.ItemResponse, error) {
	if quantity < 0 {
		return models.ItemResponse{}, ErrInvalidQuantity
	}

	item, err := s.repo.SetSizeQuantity(ctx, id, size, quantity)
	if err != nil {
		return models.ItemResponse{}, err
	}

	s.publishEvent("quantity_updated", map[string]interface{}{
		"item_id":  item.ID,
		"size":     size,
		"quantity": quantity,
	})

	return models.NewItemResponse(item), nil
}

// SearchItems filters the full listing by a case-insensitive substring match
// on name or category. The echoed query is the lowercased form that was
// matched.
func (s *InventoryService) SearchItems(ctx context.Context, query string) (models.SearchResponse, error) {
	items, err := s.listItems(ctx)
	if err != nil {
		return models.SearchResponse{}, err
	}

	q := strings.ToLower(query)
	matches := make([]models.Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), q) ||
			strings.Contains(strings.ToLower(item.Category), q) {
			matches = append(matches, item)
		}
	}
	return models.NewSearchResponse(matches, q), nil
}

// publishEvent emits one inventory event. Eventing is best-effort: a missing
// broker or a failed publish is logged and never fails the operation that
// triggered it.
func (s *InventoryService) publishEvent(event string, fields map[string]interface{}) {
	if s.publisher == nil {
		return
	}

	fields["event"] = event
	fields["event_id"] = uuid.New().String()
	fields["occurred_at"] = time.Now().UTC().Format(time.RFC3339)

	body, err := json.Marshal(fields)
	if err != nil {
		s.logger.Warn("failed to encode inventory event", zap.String("event", event), zap.Error(err))
		return
	}
	if err := s.publisher.Publish("", "inventory_events", body); err != nil {
		s.logger.Warn("failed to publish inventory event", zap.String("event", event), zap.Error(err))
	}
}
