package models

// SizeStock maps a size label (e.g. "S", "M", "32") to the quantity in stock.
// Labels are free-form text and unique per item; the map carries no ordering.
type SizeStock map[string]int

// Copy returns an independent copy of the stock map so callers can hold on to
// an Item without sharing mutable state with the store.
func (s SizeStock) Copy() SizeStock {
	if s == nil {
		return nil
	}
	out := make(SizeStock, len(s))
	for size, qty := range s {
		out[size] = qty
	}
	return out
}

// Item represents a clothing item in the inventory.
// The ID is assigned by the storage backend on insert and never reused.
type Item struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Sizes       SizeStock `json:"sizes"`
}

// SeedItem is one record of the external seed list: the same fields as Item
// minus the id, which the seeding routine assigns.
type SeedItem struct {
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Sizes       SizeStock `json:"sizes"`
}

// AddItemRequest is the payload for creating a new item. Sizes may be omitted;
// the service substitutes the default S/M/L breakdown before persisting.
type AddItemRequest struct {
	Name        string    `json:"name" validate:"required"`
	Category    string    `json:"category" validate:"required"`
	Price       float64   `json:"price" validate:"gte=0"`
	Description string    `json:"description"`
	Sizes       SizeStock `json:"sizes" validate:"omitempty,dive,keys,min=1,endkeys,gte=0"`
}
