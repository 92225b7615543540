package usecase

import "github.com/honeybarrel/backend/internal/domain"

// Attribute names used in scores and debug output
const (
	AttributeName    = "name"
	AttributeBrand   = "brand"
	AttributeVintage = "vintage"
	AttributeVolume  = "volume"
)

// exactScore is awarded for an exact vintage or an equal volume
const exactScore = 100

// scoreName compares bottle names; name is mandatory so it is always evaluated
func scoreName(query *domain.BottleRecord, listing *domain.ListingRecord) int {
	return Similarity(query.Name, listing.Name)
}

// scoreBrand returns the brand similarity and whether both sides had a brand
func scoreBrand(query *domain.BottleRecord, listing *domain.ListingRecord) (int, bool) {
	if query.Brand == "" || listing.Brand == "" {
		return 0, false
	}
	return Similarity(query.Brand, listing.Brand), true
}

// scoreVintage compares vintages as exact strings
func scoreVintage(query *domain.BottleRecord, listing *domain.ListingRecord) (int, bool) {
	if query.Vintage == "" || listing.Vintage == "" {
		return 0, false
	}
	if query.Vintage != listing.Vintage {
		return 0, true
	}
	return exactScore, true
}

// scoreVolume returns 100 when both volumes convert to the same size
func scoreVolume(query *domain.BottleRecord, listing *domain.ListingRecord) (int, bool) {
	if query.Volume == "" || listing.Volume == "" {
		return 0, false
	}
	if !VolumesEqual(query.Volume, listing.Volume) {
		return 0, true
	}
	return exactScore, true
}
