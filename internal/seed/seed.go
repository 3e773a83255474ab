package seed

import (
	"encoding/json"
	"fmt"
	"os"

	"gudang/internal/models"
)

// LoadFile reads seed records from a JSON file holding an array of items. A
// missing file is not an error; it simply yields no records, and the store
// starts empty.
func LoadFile(path string) ([]models.SeedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var records []models.SeedItem
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return records, nil
}
