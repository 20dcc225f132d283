package domain

import "errors"

var (
	// ErrProductNotFound is returned when a product does not exist in the store
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters or record fields are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrTranslationFailed is returned when the language model call fails or returns garbage
	ErrTranslationFailed = errors.New("translation failed")

	// ErrTranslationNotConfigured is returned when no translation API key is set
	ErrTranslationNotConfigured = errors.New("translation service not configured")

	// ErrRecordFetch is returned when records for a document cannot be loaded
	ErrRecordFetch = errors.New("failed to fetch product records")

	// ErrFontsNotReady is returned when a render is requested before fonts finished loading
	ErrFontsNotReady = errors.New("fonts are not loaded yet")

	// ErrFontLoad is returned when a configured font could not be loaded
	ErrFontLoad = errors.New("font loading failed")
)
