// Package pdf draws laid-out documents as PDF files with fpdf.
package pdf

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/go-pdf/fpdf"
	"github.com/sizzle/labelpress/internal/domain"
	"github.com/sizzle/labelpress/internal/infrastructure/fonts"
	"github.com/sizzle/labelpress/internal/layout"
)

const creator = "labelpress"

func styleOf(face layout.Face) string {
	switch face {
	case layout.FaceBold:
		return "B"
	case layout.FaceItalic:
		return "I"
	}
	return ""
}

// newPDF creates an A4 document in points with the font set registered.
func newPDF(set *fonts.Set) (*fpdf.Fpdf, func(string) string, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(creator, true)

	if set.Builtin {
		// core fonts are cp1252; the translator maps å, ä, ö and friends
		return pdf, pdf.UnicodeTranslatorFromDescriptor(""), pdf.Error()
	}
	for _, face := range layout.Faces {
		pdf.AddUTF8FontFromBytes(set.Family, styleOf(face), set.Bytes(face))
	}
	if err := pdf.Error(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrFontLoad, err)
	}
	return pdf, func(s string) string { return s }, nil
}

// Metrics measures strings with the font set documents are drawn with.
// fpdf is not safe for concurrent use, so measurements are serialized.
type Metrics struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

// StringWidth implements layout.Metrics.
func (m *Metrics) StringWidth(s string, face layout.Face, size float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pdf.SetFont(m.family, styleOf(face), size)
	return m.pdf.GetStringWidth(m.tr(s))
}

// Renderer turns layout documents into PDF bytes.
type Renderer struct {
	set     *fonts.Set
	metrics *Metrics
}

// NewRenderer validates the font set by registering it once.
func NewRenderer(set *fonts.Set) (*Renderer, error) {
	pdf, tr, err := newPDF(set)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		set:     set,
		metrics: &Metrics{pdf: pdf, family: set.Family, tr: tr},
	}, nil
}

// Metrics returns text metrics matching the fonts this renderer draws with.
func (r *Renderer) Metrics() layout.Metrics {
	return r.metrics
}

// Render writes doc to w. Nothing is written when drawing fails.
func (r *Renderer) Render(doc *layout.Document, w io.Writer) error {
	pdf, tr, err := newPDF(r.set)
	if err != nil {
		return err
	}
	pdf.SetTitle(doc.Title, true)

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, block := range page.Blocks {
			if block.Border != nil {
				drawBorder(pdf, block.Border)
			}
			for _, rule := range block.Rules {
				pdf.SetDrawColor(int(rule.Color.R), int(rule.Color.G), int(rule.Color.B))
				pdf.SetLineWidth(rule.Width)
				pdf.Line(rule.X1, rule.Y1, rule.X2, rule.Y2)
			}
			for _, text := range block.Texts {
				pdf.SetFont(r.set.Family, styleOf(text.Style.Face), text.Style.Size)
				pdf.SetTextColor(int(text.Style.Color.R), int(text.Style.Color.G), int(text.Style.Color.B))
				pdf.Text(text.X, text.Baseline(), tr(text.Content))
			}
		}
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render %q: %w", doc.Title, err)
	}
	return pdf.Output(w)
}

func drawBorder(pdf *fpdf.Fpdf, b *layout.Border) {
	pdf.SetDrawColor(int(b.Color.R), int(b.Color.G), int(b.Color.B))
	pdf.SetLineWidth(b.LineWidth)
	if b.Radius > 0 {
		pdf.RoundedRect(b.X, b.Y, b.W, b.H, b.Radius, "1234", "D")
		return
	}
	pdf.Rect(b.X, b.Y, b.W, b.H, "D")
}

// FontSource hands out the loaded font set.
type FontSource interface {
	Wait(ctx context.Context) (*fonts.Set, error)
}

// Provider builds the renderer once the fonts are available.
type Provider struct {
	fonts FontSource

	mu       sync.Mutex
	renderer *Renderer
}

// NewProvider creates a provider backed by a font source.
func NewProvider(fonts FontSource) *Provider {
	return &Provider{fonts: fonts}
}

// Renderer waits for the fonts and returns the shared renderer.
func (p *Provider) Renderer(ctx context.Context) (layout.Renderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.renderer != nil {
		return p.renderer, nil
	}

	set, err := p.fonts.Wait(ctx)
	if err != nil {
		return nil, err
	}
	r, err := NewRenderer(set)
	if err != nil {
		return nil, err
	}
	p.renderer = r
	return r, nil
}

var _ layout.Renderer = (*Renderer)(nil)
