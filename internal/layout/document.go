package layout

import (
	"io"

	"github.com/sizzle/labelpress/internal/domain"
)

// Rect is an axis-aligned rectangle with its origin at the top-left, in points.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Text is one laid-out line of text. X and Y are the top-left of the line box.
type Text struct {
	Role    Role
	Style   Style
	X, Y    float64
	Content string
}

// Baseline is the y coordinate renderers draw the glyphs on.
func (t Text) Baseline() float64 {
	leading := t.Style.Leading()
	return t.Y + (leading-t.Style.Size)/2 + t.Style.Size*0.8
}

// Border is a stroked outline around a block.
type Border struct {
	Rect
	LineWidth float64
	Radius    float64
	Color     Color
}

// Rule is a straight stroked line.
type Rule struct {
	X1, Y1, X2, Y2 float64
	Width          float64
	Color          Color
}

// BlockKind tells what a block represents on the page.
type BlockKind int

const (
	BlockLabelCell BlockKind = iota
	BlockHeader
	BlockMenuItem
	BlockDaySection
)

// Column tells which language column a menu item block belongs to.
type Column int

const (
	ColumnOriginal Column = iota
	ColumnTranslated
)

// Block groups the drawing primitives of one logical unit: a label cell,
// the page header, one menu item in one column or one weekday section.
type Block struct {
	Kind    BlockKind
	Column  Column
	Row     int // index of the record in the composed list, -1 when not applicable
	Day     domain.DeliveryDay
	Frame   Rect
	Border  *Border
	Texts   []Text
	Rules   []Rule
	Clipped bool // content did not fit the frame and was cut
}

// Count returns the number of lines with the given role.
func (b Block) Count(role Role) int {
	n := 0
	for _, t := range b.Texts {
		if t.Role == role {
			n++
		}
	}
	return n
}

// Lines returns the contents of the lines with the given role, in order.
func (b Block) Lines(role Role) []string {
	var lines []string
	for _, t := range b.Texts {
		if t.Role == role {
			lines = append(lines, t.Content)
		}
	}
	return lines
}

// Page is one fixed-size page.
type Page struct {
	Width  float64
	Height float64
	Blocks []Block
}

// Document is the output of a composer.
type Document struct {
	Title string
	Pages []Page
}

// Blocks returns all blocks of the given kind across pages, in page order.
func (d *Document) Blocks(kind BlockKind) []Block {
	var out []Block
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == kind {
				out = append(out, b)
			}
		}
	}
	return out
}

// Renderer draws documents in an output format. Composers must wrap text with
// the renderer's Metrics for lines to fit.
type Renderer interface {
	Metrics() Metrics
	Render(doc *Document, w io.Writer) error
}
