package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sizzle/labelpress/internal/domain"
)

// MenuMode selects how a menu groups its records.
type MenuMode int

const (
	// ModeFlat lists records in two columns: original language and translation.
	ModeFlat MenuMode = iota
	// ModeDayGrouped buckets translated records under Monday to Friday.
	ModeDayGrouped
)

// ModeFor returns the grouping mode documents of a channel use.
func ModeFor(channel domain.Channel) MenuMode {
	if channel == domain.ChannelStorytel {
		return ModeDayGrouped
	}
	return ModeFlat
}

// MenuTitle returns the title line of a menu.
func MenuTitle(channel domain.Channel, veganOnly bool) string {
	switch channel {
	case domain.ChannelStorytel:
		return "Storytel Weekly Menu"
	case domain.ChannelSnack:
		if veganOnly {
			return "Vegan Snacks"
		}
		return "Snack Menu"
	}
	if veganOnly {
		return "Vegan Menu"
	}
	return "Weekly Menu"
}

// MenuText holds the fixed strings printed on menus.
type MenuText struct {
	Week          string
	Allergens     string
	Vegan         string
	NoTranslation string
	NoDishes      string
	Currency      string
}

// DefaultMenuText is the English menu wording.
var DefaultMenuText = MenuText{
	Week:          "Week",
	Allergens:     "Allergens:",
	Vegan:         "Vegan",
	NoTranslation: "Translation not available",
	NoDishes:      "No dishes scheduled",
	Currency:      "kr",
}

// MenuConfig configures the menu composer. Zero fields take defaults.
type MenuConfig struct {
	CompanyName         string
	StorytelCompanyName string
	Text                MenuText
}

// MenuRequest describes one menu document.
type MenuRequest struct {
	Channel   domain.Channel
	Mode      MenuMode
	Week      int
	VeganOnly bool
	FontSize  domain.FontSize
}

// page box model of the menus, points
var (
	menuPaddingY         = 40.0
	flatPaddingX         = ToPoints(0.4)
	dayPaddingX          = 20.0
	headerMarginBottom   = 30.0
	columnGap            = 40.0
	columnMaxShare       = 0.45
	dayRuleWidth         = 2.0
	flatItemGap          = [3]float64{10.375, 7.875, 5.375}
	dayItemGap           = [3]float64{12, 10, 8}
	dayItemIndent        = [3]float64{10, 8, 6}
	daySectionGap        = [3]float64{20, 16, 12}
	dayHeaderRulePadding = [3]float64{4, 3, 2}
)

// MenuComposer lays out weekly menus.
type MenuComposer struct {
	metrics Metrics
	cfg     MenuConfig
}

// NewMenuComposer creates a menu composer.
func NewMenuComposer(metrics Metrics, cfg MenuConfig) *MenuComposer {
	if cfg.CompanyName == "" {
		cfg.CompanyName = "Sizzle x Wester & Wester"
	}
	if cfg.StorytelCompanyName == "" {
		cfg.StorytelCompanyName = "Sizzle"
	}
	if cfg.Text == (MenuText{}) {
		cfg.Text = DefaultMenuText
	}
	return &MenuComposer{metrics: metrics, cfg: cfg}
}

// Compose lays out records in the order given. Records are not filtered or
// sorted here, except that the day-grouped mode skips untranslated records
// and records without a delivery day.
func (c *MenuComposer) Compose(records []domain.ProductRecord, req MenuRequest) *Document {
	if req.Mode == ModeDayGrouped {
		return c.composeDays(records, req)
	}
	return c.composeFlat(records, req)
}

// FormatPrice renders the price suffix of an item name. Absent and zero
// prices produce no suffix.
func (c *MenuComposer) FormatPrice(price *float64) string {
	if price == nil || *price == 0 {
		return ""
	}
	return " " + strconv.FormatFloat(*price, 'f', -1, 64) + " " + c.cfg.Text.Currency
}

// pager tracks the current page and vertical cursor while composing.
type pager struct {
	doc    *Document
	page   *Page
	bottom float64
}

func (p *pager) newPage() {
	p.doc.Pages = append(p.doc.Pages, Page{Width: A4Width, Height: A4Height})
	p.page = &p.doc.Pages[len(p.doc.Pages)-1]
}

func (p *pager) add(b Block) {
	p.page.Blocks = append(p.page.Blocks, b)
}

// header adds the company, week and title lines and returns the cursor below them.
func (c *MenuComposer) header(p *pager, styles *StyleTable, req MenuRequest, company string, x, width float64) float64 {
	col := column{metrics: c.metrics, x: x, width: width, y: menuPaddingY}
	block := Block{Kind: BlockHeader, Row: -1}
	block.Texts = append(block.Texts, col.paragraph(RoleCompanyName, styles.Resolve(RoleCompanyName, req.FontSize), company)...)
	block.Texts = append(block.Texts, col.paragraph(RoleWeekInfo, styles.Resolve(RoleWeekInfo, req.FontSize), fmt.Sprintf("%s %d", c.cfg.Text.Week, req.Week))...)
	block.Texts = append(block.Texts, col.paragraph(RoleTitle, styles.Resolve(RoleTitle, req.FontSize), MenuTitle(req.Channel, req.VeganOnly))...)
	block.Frame = Rect{X: x, Y: menuPaddingY, W: width, H: col.y - menuPaddingY}
	p.add(block)
	return col.y + headerMarginBottom
}

func (c *MenuComposer) composeFlat(records []domain.ProductRecord, req MenuRequest) *Document {
	styles := StandardMenuStyles
	if req.Channel == domain.ChannelSnack {
		styles = SnackMenuStyles
	}
	tier := TierOf(req.FontSize)

	usable := A4Width - 2*flatPaddingX
	colWidth := math.Min((usable-columnGap)/2, usable*columnMaxShare)
	leftX := flatPaddingX
	rightX := flatPaddingX + colWidth + columnGap

	doc := &Document{Title: MenuTitle(req.Channel, req.VeganOnly)}
	p := &pager{doc: doc, bottom: A4Height - menuPaddingY}
	var left, right column
	startPage := func() {
		p.newPage()
		y := c.header(p, styles, req, c.cfg.CompanyName, flatPaddingX, usable)
		left = column{metrics: c.metrics, x: leftX, width: colWidth, y: y, limit: p.bottom}
		right = column{metrics: c.metrics, x: rightX, width: colWidth, y: y, limit: p.bottom}
	}
	startPage()

	rowsOnPage := 0
	for i := range records {
		rec := &records[i]
		original := rec.OriginalText()
		hLeft := c.measureFlatItem(left, styles, req.FontSize, rec, &original) + flatItemGap[tier]
		var hRight float64
		if rec.HasTranslation() {
			hRight = c.measureFlatItem(right, styles, req.FontSize, rec, rec.Translation)
		} else {
			hRight = right.measure(styles.Resolve(RoleNoTranslationNote, req.FontSize), c.cfg.Text.NoTranslation)
		}
		hRight += flatItemGap[tier]
		// both columns break together so row N stays beside row N
		if rowsOnPage > 0 && (left.y+hLeft > p.bottom || right.y+hRight > p.bottom) {
			startPage()
			rowsOnPage = 0
		}

		p.add(c.flatItem(&left, styles, req.FontSize, rec, &original, ColumnOriginal, i))
		if rec.HasTranslation() {
			p.add(c.flatItem(&right, styles, req.FontSize, rec, rec.Translation, ColumnTranslated, i))
		} else {
			p.add(c.missingTranslation(&right, styles, req.FontSize, i))
		}
		left.y += flatItemGap[tier]
		right.y += flatItemGap[tier]
		rowsOnPage++
	}
	return doc
}

func (c *MenuComposer) measureFlatItem(col column, styles *StyleTable, size domain.FontSize, rec *domain.ProductRecord, text *domain.TranslatedText) float64 {
	start := col.y
	col.limit = 0
	c.itemTexts(&col, styles, size, rec, text, c.FormatPrice(rec.Price))
	return col.y - start
}

func (c *MenuComposer) flatItem(col *column, styles *StyleTable, size domain.FontSize, rec *domain.ProductRecord, text *domain.TranslatedText, which Column, row int) Block {
	start := col.y
	block := Block{Kind: BlockMenuItem, Column: which, Row: row}
	block.Texts = c.itemTexts(col, styles, size, rec, text, c.FormatPrice(rec.Price))
	block.Frame = Rect{X: col.x, Y: start, W: col.width, H: col.y - start}
	block.Clipped = col.clipped
	col.clipped = false
	return block
}

func (c *MenuComposer) missingTranslation(col *column, styles *StyleTable, size domain.FontSize, row int) Block {
	start := col.y
	block := Block{Kind: BlockMenuItem, Column: ColumnTranslated, Row: row}
	block.Texts = col.paragraph(RoleNoTranslationNote, styles.Resolve(RoleNoTranslationNote, size), c.cfg.Text.NoTranslation)
	block.Frame = Rect{X: col.x, Y: start, W: col.width, H: col.y - start}
	return block
}

// itemTexts lays out name (with optional price), description, allergens and the vegan badge.
func (c *MenuComposer) itemTexts(col *column, styles *StyleTable, size domain.FontSize, rec *domain.ProductRecord, text *domain.TranslatedText, priceSuffix string) []Text {
	var out []Text
	out = append(out, c.nameWithPrice(col, styles, size, text.Name, priceSuffix)...)
	if text.Description != "" {
		out = append(out, col.paragraph(RoleBodyText, styles.Resolve(RoleBodyText, size), text.Description)...)
	}
	out = append(out, col.paragraph(RoleAllergensText, styles.Resolve(RoleAllergensText, size), c.cfg.Text.Allergens+" "+text.Allergens)...)
	if rec.IsVegan {
		out = append(out, col.paragraph(RoleVeganBadge, styles.Resolve(RoleVeganBadge, size), c.cfg.Text.Vegan)...)
	}
	return out
}

// nameWithPrice wraps "name price" as one paragraph and, when the price ended
// up on the last line after some name text, splits it into its own run.
func (c *MenuComposer) nameWithPrice(col *column, styles *StyleTable, size domain.FontSize, name, priceSuffix string) []Text {
	nameStyle := styles.Resolve(RoleItemName, size)
	lines := col.paragraph(RoleItemName, nameStyle, name+priceSuffix)
	if priceSuffix == "" || len(lines) == 0 || styles.require(RolePriceText) != nil {
		return lines
	}
	last := &lines[len(lines)-1]
	head := strings.TrimSuffix(last.Content, priceSuffix)
	if head == last.Content || head == "" {
		return lines
	}
	priceStyle := styles.Resolve(RolePriceText, size)
	last.Content = head
	return append(lines, Text{
		Role:    RolePriceText,
		Style:   priceStyle,
		X:       last.X + c.metrics.StringWidth(head, nameStyle.Face, nameStyle.Size),
		Y:       last.Y,
		Content: priceSuffix,
	})
}

func (c *MenuComposer) composeDays(records []domain.ProductRecord, req MenuRequest) *Document {
	styles := StorytelMenuStyles
	tier := TierOf(req.FontSize)
	width := A4Width - 2*dayPaddingX

	// only translated fields are printed, so untranslated records are left out
	var translated []domain.ProductRecord
	for _, rec := range records {
		if rec.HasTranslation() {
			translated = append(translated, rec)
		}
	}

	doc := &Document{Title: MenuTitle(req.Channel, req.VeganOnly)}
	p := &pager{doc: doc, bottom: A4Height - menuPaddingY}
	var col column
	startPage := func() {
		p.newPage()
		y := c.header(p, styles, req, c.cfg.StorytelCompanyName, dayPaddingX, width)
		col = column{metrics: c.metrics, x: dayPaddingX, width: width, y: y, limit: p.bottom}
	}
	startPage()
	blocksOnPage := func() int { return len(p.page.Blocks) - 1 }

	itemCol := func() column {
		ic := col
		ic.x += dayItemIndent[tier]
		ic.width -= dayItemIndent[tier]
		return ic
	}

	for _, day := range domain.DeliveryDays {
		var bucket []int
		for i := range translated {
			if translated[i].DeliveryDay == day {
				bucket = append(bucket, i)
			}
		}

		headerStyle := styles.Resolve(RoleDayHeader, req.FontSize)
		headerHeight := headerStyle.Leading() + dayHeaderRulePadding[tier] + dayRuleWidth + headerStyle.MarginBottom
		var firstHeight float64
		if len(bucket) > 0 {
			firstHeight = c.measureDayItem(itemCol(), styles, req.FontSize, &translated[bucket[0]])
		} else {
			firstHeight = col.measure(styles.Resolve(RoleNoDishesNote, req.FontSize), c.cfg.Text.NoDishes)
		}
		if blocksOnPage() > 0 && col.y+headerHeight+firstHeight > p.bottom {
			startPage()
		}

		section := Block{Kind: BlockDaySection, Row: -1, Day: day}
		start := col.y
		dayStyle := headerStyle
		dayStyle.MarginBottom = 0
		section.Texts = append(section.Texts, col.paragraph(RoleDayHeader, dayStyle, string(day))...)
		col.y += dayHeaderRulePadding[tier] + dayRuleWidth/2
		section.Rules = append(section.Rules, Rule{X1: col.x, Y1: col.y, X2: col.x + col.width, Y2: col.y, Width: dayRuleWidth, Color: Purple})
		col.y += dayRuleWidth/2 + headerStyle.MarginBottom
		if len(bucket) == 0 {
			section.Texts = append(section.Texts, col.paragraph(RoleNoDishesNote, styles.Resolve(RoleNoDishesNote, req.FontSize), c.cfg.Text.NoDishes)...)
		}
		section.Frame = Rect{X: col.x, Y: start, W: col.width, H: col.y - start}
		section.Clipped = col.clipped
		col.clipped = false
		p.add(section)

		for n, idx := range bucket {
			rec := &translated[idx]
			if n > 0 {
				h := c.measureDayItem(itemCol(), styles, req.FontSize, rec)
				if col.y+h > p.bottom {
					startPage()
				}
			}
			ic := itemCol()
			start := ic.y
			item := Block{Kind: BlockMenuItem, Column: ColumnTranslated, Row: idx, Day: day}
			item.Texts = c.itemTexts(&ic, styles, req.FontSize, rec, rec.Translation, "")
			item.Frame = Rect{X: ic.x, Y: start, W: ic.width, H: ic.y - start}
			item.Clipped = ic.clipped
			p.add(item)
			col.y = ic.y + dayItemGap[tier]
		}
		col.y += daySectionGap[tier]
	}
	return doc
}

func (c *MenuComposer) measureDayItem(col column, styles *StyleTable, size domain.FontSize, rec *domain.ProductRecord) float64 {
	start := col.y
	col.limit = 0
	c.itemTexts(&col, styles, size, rec, rec.Translation, "")
	return col.y - start + dayItemGap[TierOf(size)]
}
