package baxus

import (
	"fmt"
	"strings"

	"github.com/honeybarrel/backend/internal/domain"
)

// listingURLFormat is the public page for a listing
const listingURLFormat = "https://baxus.co/listing/%s"

// unknownCategory is what BAXUS listings without a category are tagged with
const unknownCategory = "unknown"

// MapToListings converts a BAXUS search response to catalog records,
// preserving the API's ordering
func MapToListings(resp *domain.BAXUSSearchResponse) []domain.ListingRecord {
	if resp == nil {
		return []domain.ListingRecord{}
	}

	listings := make([]domain.ListingRecord, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		listings = append(listings, MapToListing(&hit.Source))
	}
	return listings
}

// MapToListing converts one raw BAXUS listing document
func MapToListing(src *domain.BAXUSListing) domain.ListingRecord {
	category := strings.TrimSpace(src.Category)
	if category == "" {
		category = unknownCategory
	}

	price := float64(src.Price)
	if price < 0 {
		price = 0
	}

	id := strings.TrimSpace(string(src.ID))

	return domain.ListingRecord{
		ID:       id,
		Name:     strings.TrimSpace(src.Name),
		Brand:    strings.TrimSpace(src.Brand),
		Vintage:  strings.TrimSpace(string(src.Vintage)),
		Volume:   strings.TrimSpace(string(src.Volume)),
		Category: category,
		Price:    price,
		URL:      fmt.Sprintf(listingURLFormat, id),
		ImageURL: src.ImageURL,
	}
}
