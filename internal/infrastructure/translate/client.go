// Package translate translates product texts with a Gemini language model.
package translate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const maxAttempts = 3

// Generator is the part of the genai models API the client uses.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config holds the translation settings.
type Config struct {
	Model             string
	Source            language.Tag
	Target            language.Tag
	RequestsPerMinute int
	// BaseBackoff is the wait before the second attempt; it doubles per attempt.
	BaseBackoff time.Duration
}

// Client implements domain.Translator.
type Client struct {
	generator   Generator
	cfg         Config
	rateLimiter *rate.Limiter
	logger      *zap.SugaredLogger
}

// NewClient creates a client for the Gemini API.
func NewClient(ctx context.Context, apiKey string, cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrTranslationNotConfigured
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewClientWithGenerator(client.Models, cfg, logger), nil
}

// NewClientWithGenerator creates a client on top of any Generator.
func NewClientWithGenerator(generator Generator, cfg Config, logger *zap.SugaredLogger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	if cfg.Source == language.Und {
		cfg.Source = language.Swedish
	}
	if cfg.Target == language.Und {
		cfg.Target = language.English
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 500 * time.Millisecond
	}
	return &Client{
		generator:   generator,
		cfg:         cfg,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), 5),
		logger:      logger,
	}
}

// Translate translates the five text fields. Generation errors are retried;
// a response that cannot be parsed is not.
func (c *Client) Translate(ctx context.Context, text domain.TranslatedText) (*domain.TranslatedText, error) {
	prompt := buildPrompt(c.cfg.Source, c.cfg.Target, text)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.generator.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), config)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
			}
			c.logger.Warnw("translation request failed", "attempt", attempt, "error", err)
			lastErr = err
			if attempt < maxAttempts {
				if err := sleep(ctx, c.backoff(attempt)); err != nil {
					return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
				}
			}
			continue
		}

		translated, err := parseResponse(resp.Text())
		if err != nil {
			c.logger.Warnw("translation response rejected", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
		}
		return translated, nil
	}

	c.logger.Errorw("all translation attempts failed", "name", text.Name)
	return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, lastErr)
}

// backoff returns the wait after a failed attempt: base, 2*base, 4*base...
func (c *Client) backoff(attempt int) time.Duration {
	return time.Duration(float64(c.cfg.BaseBackoff) * math.Pow(2, float64(attempt-1)))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
