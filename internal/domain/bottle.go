package domain

// BottleRecord is a bottle scraped from a retail product page.
// Empty strings and a zero price mean the field was not found on the page.
type BottleRecord struct {
	Name     string  `json:"name" yaml:"name" binding:"required"`
	Brand    string  `json:"brand,omitempty" yaml:"brand,omitempty"`
	Vintage  string  `json:"vintage,omitempty" yaml:"vintage,omitempty"`
	Volume   string  `json:"volume,omitempty" yaml:"volume,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	Price    float64 `json:"price" yaml:"price"`
	URL      string  `json:"url,omitempty" yaml:"url,omitempty"`
}

// ListingRecord is one entry of the BAXUS marketplace catalog
type ListingRecord struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Brand    string  `json:"brand" yaml:"brand"`
	Vintage  string  `json:"vintage" yaml:"vintage"`
	Volume   string  `json:"volume" yaml:"volume"`
	Category string  `json:"category" yaml:"category"`
	Price    float64 `json:"price" yaml:"price"`
	URL      string  `json:"url" yaml:"url"`
	ImageURL string  `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// ComparisonResult is what the extension renders after a bottle was detected
type ComparisonResult struct {
	Match      bool           `json:"match"`
	BottleInfo BottleRecord   `json:"bottleInfo"`
	Listing    *ListingRecord `json:"baxusListing,omitempty"`
	Savings    float64        `json:"savings"`
	BetterDeal bool           `json:"betterDeal"`
	Site       string         `json:"site,omitempty"`
	Error      bool           `json:"error,omitempty"`
	Message    string         `json:"message,omitempty"`
}

// BAXUSSearchResponse represents the response from the BAXUS listings search API
type BAXUSSearchResponse struct {
	Hits []BAXUSHit `json:"hits"`
}

// BAXUSHit wraps one search hit; the listing lives under _source
type BAXUSHit struct {
	Source BAXUSListing `json:"_source"`
}

// BAXUSListing is the raw listing document as returned by BAXUS
type BAXUSListing struct {
	ID       FlexString `json:"id"`
	Name     string     `json:"name"`
	Brand    string     `json:"brand"`
	Vintage  FlexString `json:"vintage"`
	Volume   FlexString `json:"volume"`
	Price    FlexFloat  `json:"price"`
	ImageURL string     `json:"imageUrl"`
	Category string     `json:"category"`
}
