// Package app wires configuration into the services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/sizzle/labelpress/config"
	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/infrastructure/cache"
	"github.com/sizzle/labelpress/internal/infrastructure/fonts"
	"github.com/sizzle/labelpress/internal/infrastructure/mongo"
	"github.com/sizzle/labelpress/internal/infrastructure/pdf"
	"github.com/sizzle/labelpress/internal/infrastructure/sqlite"
	"github.com/sizzle/labelpress/internal/infrastructure/translate"
	"github.com/sizzle/labelpress/internal/layout"
	"github.com/sizzle/labelpress/internal/usecase"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App holds the wired services.
type App struct {
	Products     *usecase.ProductService
	Translations *usecase.TranslationService
	Documents    *usecase.DocumentService
	Fonts        *fonts.Registry

	closers []func(context.Context) error
}

// NewLogger builds the process logger: development config in development,
// production JSON otherwise.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if cfg.Server.Environment == "development" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// New opens the product store, starts loading fonts and builds the services.
func New(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	a := &App{}

	repo, err := a.openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	memoryCache := cache.NewMemoryCache(cache.DefaultCleanupInterval)
	a.closers = append(a.closers, func(context.Context) error { return memoryCache.Close() })

	var translator domain.Translator
	source, target := cfg.LanguageTags()
	if cfg.TranslationEnabled() {
		client, err := translate.NewClient(ctx, cfg.Translation.APIKey, translate.Config{
			Model:             cfg.Translation.Model,
			Source:            source,
			Target:            target,
			RequestsPerMinute: cfg.Translation.RequestsPerMinute,
		}, logger.Named("translate"))
		if err != nil {
			a.Close(ctx)
			return nil, err
		}
		translator = client
		logger.Infow("translation configured", "model", cfg.Translation.Model, "source", source, "target", target)
	} else {
		logger.Warn("translation not configured (set LABELPRESS_TRANSLATION_API_KEY)")
	}

	a.Fonts = fonts.NewRegistry(fonts.Config{
		Builtin:     cfg.Fonts.Builtin,
		Family:      cfg.Fonts.Family,
		Regular:     cfg.Fonts.Regular,
		Bold:        cfg.Fonts.Bold,
		Italic:      cfg.Fonts.Italic,
		LoadTimeout: cfg.Fonts.LoadTimeout,
	}, nil, logger.Named("fonts"))
	a.Fonts.Start(context.WithoutCancel(ctx))

	a.Translations = usecase.NewTranslationService(memoryCache, translator, usecase.TranslationServiceConfig{
		CacheTTL:     cfg.Translation.CacheTTL,
		LanguagePair: source.String() + "-" + target.String(),
	}, logger.Named("translations"))
	a.Products = usecase.NewProductService(repo, a.Translations, usecase.ProductServiceConfig{}, logger.Named("products"))
	a.Documents = usecase.NewDocumentService(repo, pdf.NewProvider(a.Fonts), usecase.DocumentServiceConfig{
		Menu: layout.MenuConfig{
			CompanyName:         cfg.Documents.MenuCompanyName,
			StorytelCompanyName: cfg.Documents.StorytelCompanyName,
		},
		FontWait: cfg.Fonts.LoadTimeout,
	}, logger.Named("documents"))

	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (domain.ProductRepository, error) {
	switch cfg.Storage.Driver {
	case "mongo":
		store, err := mongo.New(ctx, mongo.Config{
			URI:      cfg.Storage.MongoURI,
			Database: cfg.Storage.MongoDatabase,
			Timeout:  cfg.Storage.MongoTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		a.closers = append(a.closers, store.Close)
		logger.Infow("product store opened", "driver", "mongo", "database", cfg.Storage.MongoDatabase)
		return store, nil
	default:
		store, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		logger.Infow("product store opened", "driver", "sqlite", "path", cfg.Storage.SQLitePath)
		return store, nil
	}
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
