package models

// Every operation answers with one of the envelope types below: a success
// envelope carrying the operation's payload fields, or ErrorResponse. Failures
// are part of the response body, not the transport status, so a storage or
// lookup error never surfaces as a protocol-level fault.

// InventoryResponse is the success envelope for the full inventory listing.
type InventoryResponse struct {
	Success    bool     `json:"success"`
	Items      []Item   `json:"items"`
	TotalItems int      `json:"total_items"`
	Categories []string `json:"categories"`
}

// ItemResponse is the success envelope for operations returning a single item.
type ItemResponse struct {
	Success bool  `json:"success"`
	Item    *Item `json:"item"`
}

// SearchResponse is the success envelope for search, echoing the normalized
// (lowercased) query that was matched.
type SearchResponse struct {
	Success bool   `json:"success"`
	Items   []Item `json:"items"`
	Count   int    `json:"count"`
	Query   string `json:"query"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewInventoryResponse creates a success envelope for the listing. Items and
// categories always marshal as arrays, never null.
func NewInventoryResponse(items []Item, categories []string) InventoryResponse {
	if items == nil {
		items = []Item{}
	}
	if categories == nil {
		categories = []string{}
	}
	return InventoryResponse{
		Success:    true,
		Items:      items,
		TotalItems: len(items),
		Categories: categories,
	}
}

// NewItemResponse creates a success envelope around a single item.
func NewItemResponse(item *Item) ItemResponse {
	return ItemResponse{
		Success: true,
		Item:    item,
	}
}

// NewSearchResponse creates a success envelope for a search result set.
func NewSearchResponse(items []Item, query string) SearchResponse {
	if items == nil {
		items = []Item{}
	}
	return SearchResponse{
		Success: true,
		Items:   items,
		Count:   len(items),
		Query:   query,
	}
}

// NewErrorResponse creates the failure envelope.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   message,
	}
}
