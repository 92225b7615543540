package usecase

import "strings"

// CategoryFamily is the coarse grouping used to pre-filter catalog entries
type CategoryFamily string

const (
	CategoryUnknown CategoryFamily = "unknown"
	CategoryWhisky  CategoryFamily = "whisky"
	CategoryWine    CategoryFamily = "wine"
)

var (
	whiskyTerms = []string{"whisky", "whiskey", "bourbon", "scotch", "rye"}
	wineTerms   = []string{"wine", "red", "white", "rose", "champagne", "sparkling"}
)

// containsAny reports whether normalized text contains any of terms as a substring
func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// ClassifyCategory maps free text to a category family. Whisky terms win
// when text carries both, e.g. "white whiskey".
func ClassifyCategory(text string) CategoryFamily {
	normalized := Normalize(text)
	switch {
	case containsAny(normalized, whiskyTerms):
		return CategoryWhisky
	case containsAny(normalized, wineTerms):
		return CategoryWine
	default:
		return CategoryUnknown
	}
}

// CategoriesCompatible reports whether two category strings may describe the
// same product. Both must share a family; text without any family term on
// either side carries no signal and is treated as compatible.
func CategoriesCompatible(catA, catB string) bool {
	a := Normalize(catA)
	b := Normalize(catB)

	whiskyA, wineA := containsAny(a, whiskyTerms), containsAny(a, wineTerms)
	whiskyB, wineB := containsAny(b, whiskyTerms), containsAny(b, wineTerms)

	if (!whiskyA && !wineA) || (!whiskyB && !wineB) {
		return true
	}

	return (whiskyA && whiskyB) || (wineA && wineB)
}
