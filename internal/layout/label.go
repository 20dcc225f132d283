package layout

import (
	"math"

	"github.com/sizzle/labelpress/internal/domain"
)

// LabelText holds the fixed strings printed on every label.
type LabelText struct {
	BestBefore  string
	Ingredients string
	Allergens   string
	Vegan       string
}

// DefaultLabelText is the Swedish label wording used on the printed sheets.
var DefaultLabelText = LabelText{
	BestBefore:  "Best före:",
	Ingredients: "Ingredienser:",
	Allergens:   "Allergener:",
	Vegan:       "Vegan",
}

// LabelConfig configures the label sheet composer. Zero fields take defaults.
type LabelConfig struct {
	Page   PageSpec
	Styles *StyleTable
	Text   LabelText
}

// cell box model, points
var (
	cellPaddingTop   = ToPoints(0.2)
	cellPaddingSide  = 10.0
	cellBorderWidth  = 1.0
	cellBorderRadius = 5.0
	bestBeforeMinW   = 80.0
	headerGap        = 8.0
	headerMarginBtm  = 4.0
	veganInset       = 8.0
)

// LabelComposer lays out a product repeated into every cell of a label sheet.
type LabelComposer struct {
	metrics  Metrics
	geometry Geometry
	styles   *StyleTable
	text     LabelText
}

// NewLabelComposer creates a label composer. It fails if the style table
// misses one of the roles a label needs.
func NewLabelComposer(metrics Metrics, cfg LabelConfig) (*LabelComposer, error) {
	if cfg.Page == (PageSpec{}) {
		cfg.Page = DefaultLabelPage()
	}
	if cfg.Styles == nil {
		cfg.Styles = LabelStyles
	}
	if cfg.Text == (LabelText{}) {
		cfg.Text = DefaultLabelText
	}
	if err := cfg.Styles.require(labelRoles...); err != nil {
		return nil, err
	}
	return &LabelComposer{
		metrics:  metrics,
		geometry: ComputeGeometry(cfg.Page),
		styles:   cfg.Styles,
		text:     cfg.Text,
	}, nil
}

// Geometry returns the sheet geometry the composer lays cells into.
func (c *LabelComposer) Geometry() Geometry {
	return c.geometry
}

// Compose renders one page with the product in every cell, column by column.
// An empty size falls back to the size stored with the product.
func (c *LabelComposer) Compose(p *domain.ProductRecord, size domain.FontSize) *Document {
	if size == "" {
		size = p.FontSize.OrDefault()
	}
	page := Page{Width: c.geometry.Page.Width, Height: c.geometry.Page.Height}
	for col := 0; col < c.geometry.Page.Columns; col++ {
		for row := 0; row < c.geometry.Page.Rows; row++ {
			x, y := c.geometry.CellOrigin(col, row)
			page.Blocks = append(page.Blocks, c.cell(p, size, x, y))
		}
	}
	return &Document{Title: p.Name, Pages: []Page{page}}
}

func (c *LabelComposer) cell(p *domain.ProductRecord, size domain.FontSize, x, y float64) Block {
	frame := Rect{X: x, Y: y, W: c.geometry.CellWidth, H: c.geometry.CellHeight}
	block := Block{
		Kind:   BlockLabelCell,
		Row:    -1,
		Frame:  frame,
		Border: &Border{Rect: frame, LineWidth: cellBorderWidth, Radius: cellBorderRadius, Color: Black},
	}

	innerX := x + cellPaddingSide
	innerW := frame.W - 2*cellPaddingSide
	top := y + cellPaddingTop
	limit := frame.Bottom() - cellPaddingSide

	body := c.styles.Resolve(RoleBodyText, size)
	nameStyle := c.styles.Resolve(RoleItemName, size)

	// header row: wrapping name on the left, best-before box on the right
	bestBefore := c.text.BestBefore + " " + p.DueDate.String()
	bbWidth := math.Max(bestBeforeMinW, c.metrics.StringWidth(bestBefore, body.Face, body.Size))
	bbCol := column{metrics: c.metrics, x: innerX + innerW - bbWidth, width: bbWidth, y: top, limit: limit}
	bbStyle := body
	bbStyle.Align = AlignRight
	block.Texts = append(block.Texts, bbCol.paragraph(RoleBodyText, bbStyle, bestBefore)...)

	nameCol := column{metrics: c.metrics, x: innerX, width: innerW - bbWidth - headerGap, y: top, limit: limit}
	block.Texts = append(block.Texts, nameCol.paragraph(RoleItemName, nameStyle, p.Name)...)

	content := column{metrics: c.metrics, x: innerX, width: innerW, y: math.Max(nameCol.y, bbCol.y) + headerMarginBtm, limit: limit}
	block.Texts = append(block.Texts, content.paragraph(RoleBodyText, body, c.text.Ingredients+" "+p.Ingredients)...)
	// the allergens prefix is printed even when there are no allergens
	block.Texts = append(block.Texts, content.paragraph(RoleAllergensText, c.styles.Resolve(RoleAllergensText, size), c.text.Allergens+" "+p.Allergens)...)
	if p.ConsumptionGuidelines != "" {
		block.Texts = append(block.Texts, content.paragraph(RoleBodyText, body, p.ConsumptionGuidelines)...)
	}
	if p.Description != "" {
		block.Texts = append(block.Texts, content.paragraph(RoleBodyText, body, p.Description)...)
	}
	block.Clipped = nameCol.clipped || bbCol.clipped || content.clipped

	if p.IsVegan {
		vegan := c.styles.Resolve(RoleVeganBadge, size)
		w := c.metrics.StringWidth(c.text.Vegan, vegan.Face, vegan.Size)
		block.Texts = append(block.Texts, Text{
			Role:    RoleVeganBadge,
			Style:   vegan,
			X:       frame.X + frame.W - veganInset - w,
			Y:       frame.Bottom() - veganInset - vegan.Leading(),
			Content: c.text.Vegan,
		})
	}
	return block
}
