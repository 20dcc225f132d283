package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/zap"
)

// TranslationServiceConfig holds configuration for the translation service
type TranslationServiceConfig struct {
	CacheTTL time.Duration
	// LanguagePair is part of the cache key, e.g. "sv-en"
	LanguagePair string
}

// TranslationService translates product texts with caching.
// A nil translator means translation is not configured.
type TranslationService struct {
	cache      domain.CacheRepository
	translator domain.Translator
	cacheTTL   time.Duration
	pair       string
	logger     *zap.SugaredLogger
}

// NewTranslationService creates a new translation service with dependencies
func NewTranslationService(
	cache domain.CacheRepository,
	translator domain.Translator,
	config TranslationServiceConfig,
	logger *zap.SugaredLogger,
) *TranslationService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 720 * time.Hour // Default 30 days
	}
	pair := config.LanguagePair
	if pair == "" {
		pair = "sv-en"
	}

	return &TranslationService{
		cache:      cache,
		translator: translator,
		cacheTTL:   cacheTTL,
		pair:       pair,
		logger:     logger,
	}
}

// Configured reports whether a translator is available.
func (s *TranslationService) Configured() bool {
	return s.translator != nil
}

// Translate returns the translation of the five text fields.
// Flow: check cache -> call translator -> cache -> return
func (s *TranslationService) Translate(ctx context.Context, text domain.TranslatedText) (*domain.TranslatedText, error) {
	if strings.TrimSpace(text.Name) == "" {
		return nil, fmt.Errorf("%w: name is required for translation", domain.ErrInvalidRequest)
	}
	if s.translator == nil {
		return nil, domain.ErrTranslationNotConfigured
	}

	cacheKey := s.generateCacheKey(text)
	var cached domain.TranslatedText
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	translated, err := s.translator.Translate(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, translated, s.cacheTTL); err != nil {
		s.logger.Warnw("failed to cache translation", "error", err)
	}
	return translated, nil
}

// generateCacheKey hashes the normalized input fields.
// Format: "translation:{pair}:{sha256 hex}"
func (s *TranslationService) generateCacheKey(text domain.TranslatedText) string {
	h := sha256.New()
	for _, field := range []string{text.Name, text.Ingredients, text.Allergens, text.ConsumptionGuidelines, text.Description} {
		h.Write([]byte(normalizeForCacheKey(field)))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("translation:%s:%s", s.pair, hex.EncodeToString(h.Sum(nil)))
}

// normalizeForCacheKey collapses whitespace and trims. Case is significant.
func normalizeForCacheKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
