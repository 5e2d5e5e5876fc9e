package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/san-kum/hydrodrag/internal/performance"
	"gopkg.in/yaml.v3"
)

// LoadShipData reads the user tier of ship overrides, keyed by class
// name. When the file does not exist an example document is written in
// its place and an empty tier is returned with created set.
func LoadShipData(path string) (records map[string]performance.Overrides, created bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := SaveShipData(path, performance.Examples()); err != nil {
			return nil, false, fmt.Errorf("write example ship data: %w", err)
		}
		return map[string]performance.Overrides{}, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	records = make(map[string]performance.Overrides)
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, false, fmt.Errorf("parse ship data %s: %w", path, err)
	}
	return records, false, nil
}

func SaveShipData(path string, records map[string]performance.Overrides) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
