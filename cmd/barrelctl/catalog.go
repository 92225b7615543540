package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/honeybarrel/backend/internal/domain"
)

// decodeFile decodes a JSON or YAML file into out, chosen by extension
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// loadBottle reads the scraped bottle to match
func loadBottle(path string) (domain.BottleRecord, error) {
	var bottle domain.BottleRecord
	if err := decodeFile(path, &bottle); err != nil {
		return domain.BottleRecord{}, err
	}
	if strings.TrimSpace(bottle.Name) == "" {
		return domain.BottleRecord{}, fmt.Errorf("%s: bottle name is required", path)
	}
	return bottle, nil
}

// loadCatalog reads a catalog file holding a list of listings
func loadCatalog(path string) ([]domain.ListingRecord, error) {
	var catalog []domain.ListingRecord
	if err := decodeFile(path, &catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}
