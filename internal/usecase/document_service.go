package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/layout"
	"go.uber.org/zap"
)

// RendererProvider hands out a renderer once fonts are available.
type RendererProvider interface {
	Renderer(ctx context.Context) (layout.Renderer, error)
}

// DocumentServiceConfig holds configuration for the document service
type DocumentServiceConfig struct {
	Label layout.LabelConfig
	Menu  layout.MenuConfig
	// FontWait bounds how long a render waits for fonts still loading
	FontWait time.Duration
}

// MenuRequest asks for one weekly menu.
type MenuRequest struct {
	Week      int
	Channel   domain.Channel
	VeganOnly bool
	FontSize  domain.FontSize
}

// Rendered is a finished document.
type Rendered struct {
	Filename string
	Content  []byte
	Pages    int
}

// DocumentService composes and renders label sheets and weekly menus.
type DocumentService struct {
	repo      domain.ProductRepository
	renderers RendererProvider
	cfg       DocumentServiceConfig
	logger    *zap.SugaredLogger
}

// NewDocumentService creates a new document service with dependencies
func NewDocumentService(
	repo domain.ProductRepository,
	renderers RendererProvider,
	config DocumentServiceConfig,
	logger *zap.SugaredLogger,
) *DocumentService {
	if config.FontWait == 0 {
		config.FontWait = 5 * time.Second
	}
	return &DocumentService{
		repo:      repo,
		renderers: renderers,
		cfg:       config,
		logger:    logger,
	}
}

// Label renders the label sheet of one product. An empty size uses the
// size stored with the product.
func (s *DocumentService) Label(ctx context.Context, id string, size domain.FontSize) (*Rendered, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: unknown font size %q", domain.ErrInvalidRequest, size)
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRecordFetch, err)
	}

	renderer, err := s.renderer(ctx)
	if err != nil {
		return nil, err
	}
	composer, err := layout.NewLabelComposer(renderer.Metrics(), s.cfg.Label)
	if err != nil {
		return nil, err
	}
	doc := composer.Compose(p, size)
	return s.render(renderer, doc, fmt.Sprintf("label-%s.pdf", p.ID))
}

// Menu renders the weekly menu of a channel. Nothing is rendered when the
// records cannot be fetched.
func (s *DocumentService) Menu(ctx context.Context, req MenuRequest) (*Rendered, error) {
	if !req.FontSize.Valid() {
		return nil, fmt.Errorf("%w: unknown font size %q", domain.ErrInvalidRequest, req.FontSize)
	}
	q := domain.RecordQuery{Week: req.Week, Channel: req.Channel, VeganOnly: req.VeganOnly}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	records, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Errorw("menu record fetch failed", "week", req.Week, "channel", req.Channel, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrRecordFetch, err)
	}

	renderer, err := s.renderer(ctx)
	if err != nil {
		return nil, err
	}
	composer := layout.NewMenuComposer(renderer.Metrics(), s.cfg.Menu)
	doc := composer.Compose(records, layout.MenuRequest{
		Channel:   req.Channel,
		Mode:      layout.ModeFor(req.Channel),
		Week:      req.Week,
		VeganOnly: req.VeganOnly,
		FontSize:  req.FontSize.OrDefault(),
	})
	s.logger.Debugw("menu composed", "channel", req.Channel, "week", req.Week, "records", len(records), "pages", len(doc.Pages))
	return s.render(renderer, doc, fmt.Sprintf("menu-%s-week%02d.pdf", req.Channel, req.Week))
}

// renderer waits for the fonts gate, at most FontWait.
func (s *DocumentService) renderer(ctx context.Context) (layout.Renderer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FontWait)
	defer cancel()
	return s.renderers.Renderer(ctx)
}

// render draws into a buffer so a failed render never yields partial output.
func (s *DocumentService) render(renderer layout.Renderer, doc *layout.Document, filename string) (*Rendered, error) {
	var buf bytes.Buffer
	if err := renderer.Render(doc, &buf); err != nil {
		s.logger.Errorw("render failed", "document", filename, "error", err)
		return nil, err
	}
	return &Rendered{Filename: filename, Content: buf.Bytes(), Pages: len(doc.Pages)}, nil
}
