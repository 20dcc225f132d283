package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/zap"
)

// ProductServiceConfig holds configuration for the product service
type ProductServiceConfig struct {
	MinSuggestionLength int
	SuggestionLimit     int
}

// ProductService manages product records: saving, lookup, selection and translation.
type ProductService struct {
	repo         domain.ProductRepository
	translations *TranslationService
	logger       *zap.SugaredLogger
	minSuggest   int
	suggestLimit int

	now   func() time.Time
	newID func() string
}

// NewProductService creates a new product service with dependencies
func NewProductService(
	repo domain.ProductRepository,
	translations *TranslationService,
	config ProductServiceConfig,
	logger *zap.SugaredLogger,
) *ProductService {
	minSuggest := config.MinSuggestionLength
	if minSuggest == 0 {
		minSuggest = 2
	}
	limit := config.SuggestionLimit
	if limit == 0 {
		limit = 5
	}

	return &ProductService{
		repo:         repo,
		translations: translations,
		logger:       logger,
		minSuggest:   minSuggest,
		suggestLimit: limit,
		now:          func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:        uuid.NewString,
	}
}

// Save creates the product when it has no ID and replaces it otherwise.
func (s *ProductService) Save(ctx context.Context, p *domain.ProductRecord) (*domain.ProductRecord, error) {
	if p == nil {
		return nil, domain.ErrInvalidRequest
	}
	p.FontSize = p.FontSize.OrDefault()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for _, warning := range p.DataQualityWarnings() {
		s.logger.Warnw("product data quality", "name", p.Name, "warning", warning)
	}

	now := s.now()
	if p.ID == "" {
		p.ID = s.newID()
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.repo.Create(ctx, p); err != nil {
			return nil, err
		}
		s.logger.Infow("product created", "id", p.ID, "name", p.Name, "week", p.WeekNumber)
		return p, nil
	}

	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Infow("product updated", "id", p.ID, "name", p.Name)
	return p, nil
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.ProductRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", domain.ErrInvalidRequest)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns the records a document for q is composed from, in creation order.
// Store failures are reported as domain.ErrRecordFetch.
func (s *ProductService) List(ctx context.Context, q domain.RecordQuery) ([]domain.ProductRecord, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Errorw("record fetch failed", "week", q.Week, "channel", q.Channel, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrRecordFetch, err)
	}
	return records, nil
}

// Suggest returns products whose name contains the query. Queries shorter
// than the minimum length return an empty list without touching the store.
func (s *ProductService) Suggest(ctx context.Context, query string) ([]domain.ProductRecord, error) {
	query = normalizeQuery(query)
	if len([]rune(query)) < s.minSuggest {
		return []domain.ProductRecord{}, nil
	}
	products, err := s.repo.SearchByName(ctx, query, s.suggestLimit*2)
	if err != nil {
		return nil, err
	}
	products = rankSuggestions(query, products)
	if len(products) > s.suggestLimit {
		products = products[:s.suggestLimit]
	}
	return products, nil
}

// Translate translates the stored original fields and persists the result.
// On failure the stored translation is left as it was.
func (s *ProductService) Translate(ctx context.Context, id string) (*domain.ProductRecord, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	translated, err := s.translations.Translate(ctx, p.OriginalText())
	if err != nil {
		if !errors.Is(err, domain.ErrTranslationNotConfigured) {
			s.logger.Warnw("translation failed", "id", id, "error", err)
		}
		return nil, err
	}
	p.Translation = translated
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
