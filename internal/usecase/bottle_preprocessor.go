package usecase

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/honeybarrel/backend/internal/domain"
)

// Site identifies which retailer a bottle was scraped from
type Site string

const (
	SiteGeneralRetail  Site = "general"
	SiteTotalWine      Site = "totalwine"
	SiteReserveBar     Site = "reservebar"
	SiteWineEnthusiast Site = "wineenthusiast"
	SiteMarketplace    Site = "baxus"
)

// siteRule pairs a URL pattern with the site it identifies
type siteRule struct {
	pattern *regexp.Regexp
	site    Site
}

// siteRules is checked in order; anything unmatched is general retail
var siteRules = []siteRule{
	{regexp.MustCompile(`(?i)(^|\.)baxus\.co$`), SiteMarketplace},
	{regexp.MustCompile(`(?i)(^|\.)totalwine\.com$`), SiteTotalWine},
	{regexp.MustCompile(`(?i)(^|\.)reservebar\.com$`), SiteReserveBar},
	{regexp.MustCompile(`(?i)(^|\.)wineenthusiast\.com$`), SiteWineEnthusiast},
}

// siteCleaners holds the field clean-up applied per site after the common pass
var siteCleaners = map[Site]func(*domain.BottleRecord, *url.URL){
	SiteGeneralRetail:  cleanGeneralRetail,
	SiteTotalWine:      cleanTotalWine,
	SiteReserveBar:     cleanReserveBar,
	SiteWineEnthusiast: cleanWineEnthusiast,
}

// Compiled patterns for bottle preprocessing
var (
	// Four digit years from 1900 to 2099
	vintagePattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// Trailing size suffix on a product title, e.g. "Blanton's - 750ML"
	trailingVolumePattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:ml|cl|l)$`)

	// Proof statement anywhere in a title, e.g. "93 Proof"
	proofPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*proof`)

	// Dangling separators left after the suffixes are removed
	danglingSeparatorPattern = regexp.MustCompile(`\s*[-|]\s*$`)

	// Volume mentions inside a title
	nameVolumePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*ml`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*cl`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*l\b`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*oz`),
		regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*liter`),
	}
)

// ClassifySite maps a page URL to one of the known retail sites
func ClassifySite(rawURL string) Site {
	host := hostOf(rawURL)
	if host == "" {
		return SiteGeneralRetail
	}
	for _, rule := range siteRules {
		if rule.pattern.MatchString(host) {
			return rule.site
		}
	}
	return SiteGeneralRetail
}

// hostOf extracts the lower-cased host name, tolerating URLs without a scheme
func hostOf(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// BottlePreprocessor fills in and cleans scraped bottle fields the way each
// retailer's page layout requires
type BottlePreprocessor struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewBottlePreprocessor creates a new bottle preprocessor
func NewBottlePreprocessor(logger *zap.Logger, enableDebugLogging bool) *BottlePreprocessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BottlePreprocessor{
		logger:             logger.Named("preprocessor"),
		enableDebugLogging: enableDebugLogging,
	}
}

// Prepare returns a cleaned copy of bottle together with the site it came from.
// The input record is not modified.
func (p *BottlePreprocessor) Prepare(bottle domain.BottleRecord) (domain.BottleRecord, Site) {
	cleaned := domain.BottleRecord{
		Name:     strings.TrimSpace(bottle.Name),
		Brand:    strings.TrimSpace(bottle.Brand),
		Vintage:  strings.TrimSpace(bottle.Vintage),
		Volume:   strings.TrimSpace(bottle.Volume),
		Category: strings.TrimSpace(bottle.Category),
		Price:    bottle.Price,
		URL:      strings.TrimSpace(bottle.URL),
	}

	site := ClassifySite(cleaned.URL)
	if site == SiteMarketplace {
		return cleaned, site
	}

	if cleaned.Vintage == "" {
		cleaned.Vintage = ExtractVintage(cleaned.Name)
	}

	if clean, ok := siteCleaners[site]; ok {
		clean(&cleaned, parsedURL(cleaned.URL))
	}

	if p.enableDebugLogging {
		p.logger.Debug("bottle prepared",
			zap.String("site", string(site)),
			zap.String("input", bottle.Name),
			zap.String("name", cleaned.Name),
			zap.String("brand", cleaned.Brand),
			zap.String("vintage", cleaned.Vintage),
			zap.String("volume", cleaned.Volume),
			zap.String("category", cleaned.Category))
	}

	return cleaned, site
}

// ExtractVintage returns the first 19xx/20xx year in text, or ""
func ExtractVintage(text string) string {
	return vintagePattern.FindString(text)
}

// ExtractVolume returns the first volume mention in text, or ""
func ExtractVolume(text string) string {
	for _, pattern := range nameVolumePatterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// CleanProductName removes trailing size suffixes and proof statements from a title
func CleanProductName(name string) string {
	name = strings.TrimSpace(name)
	name = trailingVolumePattern.ReplaceAllString(name, "")
	name = proofPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(name)
	name = danglingSeparatorPattern.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

// firstWordBrand guesses a brand from the first word of a title
func firstWordBrand(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// missingCategory reports whether the scraper failed to find a category
func missingCategory(category string) bool {
	return category == "" || strings.EqualFold(category, string(CategoryUnknown))
}

// categoryFromName derives a category from title terms when none was scraped
func categoryFromName(bottle *domain.BottleRecord) {
	if !missingCategory(bottle.Category) {
		return
	}
	if family := ClassifyCategory(bottle.Name); family != CategoryUnknown {
		bottle.Category = string(family)
	}
}

// pathRule assigns family when the URL path contains any of segments
type pathRule struct {
	segments []string
	family   CategoryFamily
}

// categoryFromPath derives a category from URL path segments; first rule wins
func categoryFromPath(bottle *domain.BottleRecord, u *url.URL, rules []pathRule) {
	if u == nil || !missingCategory(bottle.Category) {
		return
	}
	path := strings.ToLower(u.Path)
	for _, rule := range rules {
		if pathHasAny(path, rule.segments) {
			bottle.Category = string(rule.family)
			return
		}
	}
}

// pathHasAny reports whether path contains any of segments
func pathHasAny(path string, segments []string) bool {
	for _, segment := range segments {
		if strings.Contains(path, segment) {
			return true
		}
	}
	return false
}

// parsedURL parses rawURL, returning nil when it is empty or malformed
func parsedURL(rawURL string) *url.URL {
	if rawURL == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	return u
}

var (
	reserveBarPaths = []pathRule{
		{[]string{"/whiskey/", "/bourbon/", "/scotch/"}, CategoryWhisky},
		{[]string{"/wine/"}, CategoryWine},
	}
	wineEnthusiastPaths = []pathRule{
		{[]string{"/wine/", "/champagne/"}, CategoryWine},
		{[]string{"/spirits/", "/whiskey/", "/bourbon/"}, CategoryWhisky},
	}
)

func cleanGeneralRetail(bottle *domain.BottleRecord, _ *url.URL) {
	if bottle.Volume == "" {
		bottle.Volume = ExtractVolume(bottle.Name)
	}
	bottle.Name = CleanProductName(bottle.Name)
	if bottle.Brand == "" {
		if word := firstWordBrand(bottle.Name); len([]rune(word)) > 2 {
			bottle.Brand = word
		}
	}
	categoryFromName(bottle)
}

func cleanTotalWine(bottle *domain.BottleRecord, _ *url.URL) {
	categoryFromName(bottle)
}

func cleanReserveBar(bottle *domain.BottleRecord, u *url.URL) {
	categoryFromPath(bottle, u, reserveBarPaths)
}

func cleanWineEnthusiast(bottle *domain.BottleRecord, u *url.URL) {
	if bottle.Brand == "" {
		bottle.Brand = firstWordBrand(bottle.Name)
	}
	categoryFromPath(bottle, u, wineEnthusiastPaths)
}
