package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Get decodes the stored value into dst and returns ErrCacheMiss when absent or expired.
type CacheRepository interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ProductRepository defines the interface for product persistence.
// List is the record selector documents are composed from: it applies
// RecordQuery.Matches semantics and returns records in creation order.
type ProductRepository interface {
	Create(ctx context.Context, product *ProductRecord) error
	Update(ctx context.Context, product *ProductRecord) error
	GetByID(ctx context.Context, id string) (*ProductRecord, error)
	List(ctx context.Context, query RecordQuery) ([]ProductRecord, error)
	SearchByName(ctx context.Context, query string, limit int) ([]ProductRecord, error)
}

// Translator translates the five text fields of a product into the target language
type Translator interface {
	Translate(ctx context.Context, text TranslatedText) (*TranslatedText, error)
}
