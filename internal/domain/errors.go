package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrListingsUnavailable is returned when the marketplace catalog cannot be loaded
	ErrListingsUnavailable = errors.New("marketplace listings unavailable")

	// ErrMarketplaceAPIFailure is returned when a BAXUS API request fails
	ErrMarketplaceAPIFailure = errors.New("BAXUS API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
