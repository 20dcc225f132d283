// Package fonts loads the font faces documents are rendered with.
package fonts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/layout"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BuiltinFamily is the PDF core font family used when no font files are configured.
const BuiltinFamily = "Helvetica"

// maxFontSize caps a downloaded font file.
const maxFontSize = 16 << 20

// Config selects the font faces. Sources are file paths or http(s) URLs.
type Config struct {
	Builtin     bool
	Family      string
	Regular     string
	Bold        string
	Italic      string // empty means the regular source
	LoadTimeout time.Duration
}

// Set is a loaded font family. A builtin set carries no bytes.
type Set struct {
	Family  string
	Builtin bool
	faces   map[layout.Face][]byte
}

// Bytes returns the TrueType data of a face, nil for builtin sets.
func (s *Set) Bytes(face layout.Face) []byte {
	return s.faces[face]
}

// Registry loads the configured fonts once and lets renderers wait for them.
type Registry struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.SugaredLogger

	once  sync.Once
	ready chan struct{}
	set   *Set
	err   error
}

// NewRegistry creates a registry. Nothing is loaded until Start or Load is called.
func NewRegistry(cfg Config, httpClient *http.Client, logger *zap.SugaredLogger) *Registry {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Family == "" {
		cfg.Family = "Poppins"
	}
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = 30 * time.Second
	}
	return &Registry{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		ready:      make(chan struct{}),
	}
}

// Start begins loading in the background and returns immediately.
func (r *Registry) Start(ctx context.Context) {
	go r.Load(ctx)
}

// Load loads the fonts, or waits for the load already in progress, and returns the result.
func (r *Registry) Load(ctx context.Context) (*Set, error) {
	r.once.Do(func() {
		defer close(r.ready)
		started := time.Now()
		r.set, r.err = r.load(ctx)
		if r.err != nil {
			r.logger.Errorw("font loading failed", "error", r.err)
			return
		}
		r.logger.Infow("fonts loaded", "family", r.set.Family, "builtin", r.set.Builtin, "took", time.Since(started))
	})
	<-r.ready
	return r.set, r.err
}

// Ready is closed once loading finished, successfully or not.
func (r *Registry) Ready() <-chan struct{} {
	return r.ready
}

// Wait blocks until loading finished or ctx is done.
func (r *Registry) Wait(ctx context.Context) (*Set, error) {
	select {
	case <-r.ready:
		return r.set, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrFontsNotReady, ctx.Err())
	}
}

func (r *Registry) load(ctx context.Context) (*Set, error) {
	if r.cfg.Builtin {
		return &Set{Family: BuiltinFamily, Builtin: true}, nil
	}
	if r.cfg.Regular == "" || r.cfg.Bold == "" {
		return nil, fmt.Errorf("%w: regular and bold sources are required", domain.ErrFontLoad)
	}
	italic := r.cfg.Italic
	if italic == "" {
		italic = r.cfg.Regular
	}
	sources := map[layout.Face]string{
		layout.FaceRegular: r.cfg.Regular,
		layout.FaceBold:    r.cfg.Bold,
		layout.FaceItalic:  italic,
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.LoadTimeout)
	defer cancel()

	var mu sync.Mutex
	faces := make(map[layout.Face][]byte, len(sources))
	eg, egCtx := errgroup.WithContext(ctx)
	for face, src := range sources {
		eg.Go(func() error {
			data, err := r.fetch(egCtx, src)
			if err != nil {
				return fmt.Errorf("%w: %s face from %s: %v", domain.ErrFontLoad, face, src, err)
			}
			mu.Lock()
			faces[face] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Set{Family: r.cfg.Family, faces: faces}, nil
}

func (r *Registry) fetch(ctx context.Context, src string) ([]byte, error) {
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, err
		}
		return nonEmpty(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "labelpress/1.0")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontSize))
	if err != nil {
		return nil, err
	}
	return nonEmpty(data)
}

func nonEmpty(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty font file")
	}
	return data, nil
}
