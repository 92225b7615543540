package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/honeybarrel/backend/internal/domain"
	"github.com/honeybarrel/backend/internal/infrastructure/metrics"
)

// listingsCacheKey is the single cache entry holding the BAXUS catalog snapshot
const listingsCacheKey = "baxus:listings"

// defaultListingsTTL matches how long the extension trusted a fetched catalog
const defaultListingsTTL = 15 * time.Minute

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	ListingsTTL        time.Duration
	Logger             *zap.Logger
	EnableDebugLogging bool
}

// ComparisonService handles one bottle detection: load the catalog, find the
// matching listing and work out whether BAXUS is cheaper
type ComparisonService struct {
	cache           domain.CacheRepository
	listingsClient  domain.ListingsClient
	matchingService *MatchingService
	preprocessor    *BottlePreprocessor
	listingsTTL     time.Duration
	logger          *zap.Logger
}

// NewComparisonService creates a new comparison service with dependencies
func NewComparisonService(
	cache domain.CacheRepository,
	listingsClient domain.ListingsClient,
	config ComparisonServiceConfig,
) *ComparisonService {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := config.ListingsTTL
	if ttl <= 0 {
		ttl = defaultListingsTTL
	}

	return &ComparisonService{
		cache:          cache,
		listingsClient: listingsClient,
		matchingService: NewMatchingService(MatchConfig{
			Logger:             logger,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		preprocessor: NewBottlePreprocessor(logger, config.EnableDebugLogging),
		listingsTTL:  ttl,
		logger:       logger.Named("comparison"),
	}
}

// Compare looks up the BAXUS listing for a scraped bottle.
// Flow: clean bottle -> load listings (cache or BAXUS) -> match -> savings
func (s *ComparisonService) Compare(ctx context.Context, bottle *domain.BottleRecord) (*domain.ComparisonResult, error) {
	if bottle == nil || bottle.Name == "" || bottle.Price <= 0 {
		return nil, domain.ErrInvalidRequest
	}

	prepared, site := s.preprocessor.Prepare(*bottle)
	if prepared.Name == "" {
		return nil, domain.ErrInvalidRequest
	}

	// Never compare a BAXUS page against BAXUS
	if site == SiteMarketplace {
		metrics.ComparisonsTotal.WithLabelValues(string(site), metrics.OutcomeSkipped).Inc()
		return NewComparisonResult(prepared, site, nil), nil
	}

	listings, err := s.Listings(ctx)
	if err != nil {
		metrics.ComparisonsTotal.WithLabelValues(string(site), metrics.OutcomeError).Inc()
		return nil, err
	}

	match := s.matchingService.FindMatch(&prepared, listings)
	result := NewComparisonResult(prepared, site, match)
	if match == nil {
		metrics.ComparisonsTotal.WithLabelValues(string(site), metrics.OutcomeNoMatch).Inc()
		return result, nil
	}

	metrics.ComparisonsTotal.WithLabelValues(string(site), metrics.OutcomeMatch).Inc()
	s.logger.Info("bottle matched",
		zap.String("site", string(site)),
		zap.String("bottle", prepared.Name),
		zap.String("listing_id", match.ID),
		zap.Float64("savings", result.Savings))

	return result, nil
}

// NewComparisonResult builds the result for a prepared bottle and its match, if any
func NewComparisonResult(bottle domain.BottleRecord, site Site, match *domain.ListingRecord) *domain.ComparisonResult {
	result := &domain.ComparisonResult{
		BottleInfo: bottle,
		Site:       string(site),
	}
	if match == nil {
		return result
	}

	result.Match = true
	result.Listing = match
	result.Savings = Savings(bottle.Price, match.Price)
	result.BetterDeal = match.Price < bottle.Price
	return result
}

// Savings returns how much cheaper the listing is, rounded to cents, or 0
func Savings(retailPrice, listingPrice float64) float64 {
	if retailPrice <= listingPrice {
		return 0
	}
	return math.Round((retailPrice-listingPrice)*100) / 100
}

// Listings returns the BAXUS catalog, served from cache while it is fresh
func (s *ComparisonService) Listings(ctx context.Context) ([]domain.ListingRecord, error) {
	listings, err := s.getFromCache(ctx)
	if err == nil {
		metrics.ListingsCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
		return listings, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("listings cache read failed", zap.Error(err))
	}
	metrics.ListingsCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()

	listings, err = s.listingsClient.FetchListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrListingsUnavailable, err)
	}

	if err := s.setInCache(ctx, listings); err != nil {
		// Not fatal: the fetched listings are still served
		s.logger.Warn("listings cache write failed", zap.Error(err))
	}

	return listings, nil
}

// RefreshListings drops the cached catalog so the next lookup fetches it again
func (s *ComparisonService) RefreshListings(ctx context.Context) error {
	return s.cache.Delete(ctx, listingsCacheKey)
}

// getFromCache retrieves the listings snapshot from cache
func (s *ComparisonService) getFromCache(ctx context.Context) ([]domain.ListingRecord, error) {
	data, err := s.cache.Get(ctx, listingsCacheKey)
	if err != nil {
		return nil, err
	}

	var listings []domain.ListingRecord
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("%w: corrupt listings entry: %v", domain.ErrCacheMiss, err)
	}

	return listings, nil
}

// setInCache stores the listings snapshot in cache
func (s *ComparisonService) setInCache(ctx context.Context, listings []domain.ListingRecord) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, listingsCacheKey, data, s.listingsTTL)
}
