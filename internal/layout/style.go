package layout

import (
	"fmt"
	"sort"

	"github.com/sizzle/labelpress/internal/domain"
)

// Role is the visual role of a piece of text.
type Role int

const (
	RoleTitle Role = iota
	RoleCompanyName
	RoleWeekInfo
	RoleItemName
	RoleBodyText
	RoleAllergensText
	RolePriceText
	RoleVeganBadge
	RoleNoTranslationNote
	RoleDayHeader
	RoleNoDishesNote
)

var roleNames = map[Role]string{
	RoleTitle:             "title",
	RoleCompanyName:       "companyName",
	RoleWeekInfo:          "weekInfo",
	RoleItemName:          "itemName",
	RoleBodyText:          "bodyText",
	RoleAllergensText:     "allergensText",
	RolePriceText:         "priceText",
	RoleVeganBadge:        "veganBadge",
	RoleNoTranslationNote: "noTranslationNote",
	RoleDayHeader:         "dayHeader",
	RoleNoDishesNote:      "noDishesNote",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Face selects the font face of a text run.
type Face int

const (
	FaceRegular Face = iota
	FaceBold
	FaceItalic
)

// Faces lists every face a font set has to provide.
var Faces = []Face{FaceRegular, FaceBold, FaceItalic}

func (f Face) String() string {
	switch f {
	case FaceBold:
		return "bold"
	case FaceItalic:
		return "italic"
	}
	return "regular"
}

// Align is the horizontal alignment of a line within its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

var (
	Black  = Color{0, 0, 0}
	Ink    = Color{0x1a, 0x1a, 0x1a}
	Grey   = Color{0x66, 0x66, 0x66}
	Muted  = Color{0x6b, 0x72, 0x80}
	Red    = Color{0xdc, 0x26, 0x26}
	Green  = Color{0x05, 0x96, 0x69}
	Purple = Color{0x7c, 0x3a, 0xed}
	Amber  = Color{0xd9, 0x77, 0x06}
)

const defaultLineHeight = 1.2

// Style is the concrete rendering of a role at one size tier.
type Style struct {
	Size         float64
	Face         Face
	Color        Color
	Align        Align
	LineHeight   float64 // multiple of Size, 0 means 1.2
	MarginTop    float64
	MarginBottom float64
	Indent       float64
}

// Leading is the height of one line of text in this style.
func (s Style) Leading() float64 {
	lh := s.LineHeight
	if lh == 0 {
		lh = defaultLineHeight
	}
	return s.Size * lh
}

// Tier indexes the three size variants: 0 normal, 1 small, 2 smaller.
type Tier int

// TierOf maps a font-size selection to its tier. The empty selection is normal.
func TierOf(f domain.FontSize) Tier {
	switch f {
	case domain.FontSizeSmall:
		return 1
	case domain.FontSizeSmaller:
		return 2
	}
	return 0
}

// StyleTable maps (role, tier) to a style.
type StyleTable struct {
	name   string
	styles map[Role][3]Style
}

// NewStyleTable validates that sizes strictly decrease from normal to smaller
// for every role and that every role in required is present.
func NewStyleTable(name string, styles map[Role][3]Style, required ...Role) (*StyleTable, error) {
	for _, role := range required {
		if _, ok := styles[role]; !ok {
			return nil, fmt.Errorf("style table %s: missing role %s", name, role)
		}
	}
	for role, tiers := range styles {
		for i, s := range tiers {
			if s.Size <= 0 {
				return nil, fmt.Errorf("style table %s: role %s tier %d has size %v", name, role, i, s.Size)
			}
		}
		if !(tiers[0].Size > tiers[1].Size && tiers[1].Size > tiers[2].Size) {
			return nil, fmt.Errorf("style table %s: role %s sizes must decrease, got %v/%v/%v",
				name, role, tiers[0].Size, tiers[1].Size, tiers[2].Size)
		}
	}
	return &StyleTable{name: name, styles: styles}, nil
}

// MustStyleTable is NewStyleTable for package-level tables.
func MustStyleTable(name string, styles map[Role][3]Style, required ...Role) *StyleTable {
	t, err := NewStyleTable(name, styles, required...)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the style for role at the selected size.
// Asking for a role the table does not carry is a programming error.
func (t *StyleTable) Resolve(role Role, size domain.FontSize) Style {
	tiers, ok := t.styles[role]
	if !ok {
		panic(fmt.Sprintf("style table %s has no role %s", t.name, role))
	}
	return tiers[TierOf(size)]
}

// Roles returns the roles of the table in declaration order.
func (t *StyleTable) Roles() []Role {
	roles := make([]Role, 0, len(t.styles))
	for role := range t.styles {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// require fails when any of roles is missing from the table.
func (t *StyleTable) require(roles ...Role) error {
	for _, role := range roles {
		if _, ok := t.styles[role]; !ok {
			return fmt.Errorf("style table %s: missing role %s", t.name, role)
		}
	}
	return nil
}

func (t *StyleTable) Name() string {
	return t.name
}

func tiered(size [3]float64, face Face, color Color, marginBottom [3]float64) [3]Style {
	var out [3]Style
	for i := range out {
		out[i] = Style{Size: size[i], Face: face, Color: color, MarginBottom: marginBottom[i]}
	}
	return out
}

func withLineHeight(tiers [3]Style, lh [3]float64) [3]Style {
	for i := range tiers {
		tiers[i].LineHeight = lh[i]
	}
	return tiers
}

func withMarginTop(tiers [3]Style, mt [3]float64) [3]Style {
	for i := range tiers {
		tiers[i].MarginTop = mt[i]
	}
	return tiers
}

func withIndent(tiers [3]Style, indent [3]float64) [3]Style {
	for i := range tiers {
		tiers[i].Indent = indent[i]
	}
	return tiers
}

func centered(tiers [3]Style) [3]Style {
	for i := range tiers {
		tiers[i].Align = AlignCenter
	}
	return tiers
}

var labelRoles = []Role{RoleItemName, RoleBodyText, RoleAllergensText, RoleVeganBadge}

// LabelStyles is the size table of the label sheet.
var LabelStyles = MustStyleTable("label", map[Role][3]Style{
	RoleItemName:      tiered([3]float64{11, 10, 9}, FaceBold, Black, [3]float64{4, 4, 4}),
	RoleBodyText:      tiered([3]float64{8, 7, 6}, FaceRegular, Black, [3]float64{2, 2, 2}),
	RoleAllergensText: tiered([3]float64{8, 7, 6}, FaceBold, Black, [3]float64{2, 2, 2}),
	RoleVeganBadge:    tiered([3]float64{8, 7, 6}, FaceRegular, Green, [3]float64{}),
}, labelRoles...)

var flatMenuRoles = []Role{
	RoleCompanyName, RoleWeekInfo, RoleTitle, RoleItemName, RolePriceText,
	RoleBodyText, RoleAllergensText, RoleVeganBadge, RoleNoTranslationNote,
}

// menuStyles builds the table shared by the standard and snack menus; only the title color differs.
func menuStyles(name string, titleColor Color) *StyleTable {
	return MustStyleTable(name, map[Role][3]Style{
		RoleCompanyName:       centered(tiered([3]float64{16, 14, 12}, FaceBold, Black, [3]float64{8, 6, 4})),
		RoleWeekInfo:          centered(tiered([3]float64{12, 10, 9}, FaceRegular, Grey, [3]float64{6, 4, 3})),
		RoleTitle:             centered(tiered([3]float64{24, 20, 16}, FaceBold, titleColor, [3]float64{7.0875, 7.0875, 7.0875})),
		RoleItemName:          tiered([3]float64{14, 12, 10}, FaceBold, Black, [3]float64{6, 4, 3}),
		RolePriceText:         tiered([3]float64{14, 12, 10}, FaceBold, Black, [3]float64{6, 4, 3}),
		RoleBodyText:          withLineHeight(tiered([3]float64{11, 9, 8}, FaceRegular, Black, [3]float64{6, 4, 3}), [3]float64{1.4, 1.3, 1.2}),
		RoleAllergensText:     tiered([3]float64{10, 8, 7}, FaceBold, Red, [3]float64{4, 3, 2}),
		RoleVeganBadge:        withMarginTop(tiered([3]float64{9, 8, 7}, FaceRegular, Green, [3]float64{}), [3]float64{4, 3, 2}),
		RoleNoTranslationNote: tiered([3]float64{11, 9, 8}, FaceItalic, Muted, [3]float64{}),
	}, flatMenuRoles...)
}

// StandardMenuStyles and SnackMenuStyles are the size tables of the flat menus.
var (
	StandardMenuStyles = menuStyles("standard-menu", Ink)
	SnackMenuStyles    = menuStyles("snack-menu", Amber)
)

var dayMenuRoles = []Role{
	RoleCompanyName, RoleWeekInfo, RoleTitle, RoleDayHeader, RoleItemName,
	RoleBodyText, RoleAllergensText, RoleVeganBadge, RoleNoDishesNote,
}

// StorytelMenuStyles is the size table of the day-grouped menu.
var StorytelMenuStyles = MustStyleTable("storytel-menu", map[Role][3]Style{
	RoleCompanyName:   centered(tiered([3]float64{18, 16, 14}, FaceBold, Black, [3]float64{8, 6, 4})),
	RoleWeekInfo:      centered(tiered([3]float64{12, 10, 9}, FaceRegular, Grey, [3]float64{6, 4, 3})),
	RoleTitle:         centered(tiered([3]float64{24, 20, 16}, FaceBold, Purple, [3]float64{10, 8, 6})),
	RoleDayHeader:     tiered([3]float64{16, 14, 12}, FaceBold, Ink, [3]float64{12, 10, 8}),
	RoleItemName:      tiered([3]float64{13, 11, 9}, FaceBold, Black, [3]float64{4, 3, 2}),
	RoleBodyText:      withLineHeight(tiered([3]float64{11, 9, 8}, FaceRegular, Black, [3]float64{4, 3, 2}), [3]float64{1.4, 1.3, 1.2}),
	RoleAllergensText: tiered([3]float64{10, 8, 7}, FaceBold, Red, [3]float64{2, 2, 1}),
	RoleVeganBadge:    withMarginTop(tiered([3]float64{9, 8, 7}, FaceRegular, Green, [3]float64{}), [3]float64{2, 2, 1}),
	RoleNoDishesNote:  withIndent(tiered([3]float64{10, 9, 8}, FaceRegular, Muted, [3]float64{}), [3]float64{10, 8, 6}),
}, dayMenuRoles...)
