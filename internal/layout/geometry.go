// Package layout turns product records into fixed-geometry printable pages.
//
// Composers are pure: they take records, a font-size selection and text
// metrics and return a Document of positioned text lines, borders and rules.
// Drawing the Document is left to a renderer.
package layout

// PointsPerCm is the number of PDF points in one centimeter at 72 dpi.
const PointsPerCm = 28.35

// ISO A4 in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Label sheet grid.
const (
	LabelColumns = 2
	LabelRows    = 8
)

// ToPoints converts centimeters to points. Negative values scale negatively.
func ToPoints(cm float64) float64 {
	return cm * PointsPerCm
}

// PageSpec is the fixed input of the label sheet geometry.
type PageSpec struct {
	Width         float64
	Height        float64
	MarginTB      float64 // top and bottom
	MarginLR      float64 // left and right
	ColumnSpacing float64
	Columns       int
	Rows          int
}

// DefaultLabelPage is A4 with 1.2cm top/bottom, 0.6cm left/right margins,
// 0.3cm between the two columns and 8 rows.
func DefaultLabelPage() PageSpec {
	return PageSpec{
		Width:         A4Width,
		Height:        A4Height,
		MarginTB:      ToPoints(1.2),
		MarginLR:      ToPoints(0.6),
		ColumnSpacing: ToPoints(0.3),
		Columns:       LabelColumns,
		Rows:          LabelRows,
	}
}

// Geometry is the derived label sheet geometry. Content fitting is not checked here.
type Geometry struct {
	Page         PageSpec
	UsableWidth  float64
	UsableHeight float64
	CellWidth    float64
	CellHeight   float64
}

// ComputeGeometry derives usable area and cell size from a page spec.
func ComputeGeometry(spec PageSpec) Geometry {
	usableWidth := spec.Width - 2*spec.MarginLR
	usableHeight := spec.Height - 2*spec.MarginTB
	return Geometry{
		Page:         spec,
		UsableWidth:  usableWidth,
		UsableHeight: usableHeight,
		CellWidth:    (usableWidth - float64(spec.Columns-1)*spec.ColumnSpacing) / float64(spec.Columns),
		CellHeight:   usableHeight / float64(spec.Rows),
	}
}

// CellOrigin returns the top-left corner of the cell at column col and row row.
func (g Geometry) CellOrigin(col, row int) (x, y float64) {
	x = g.Page.MarginLR + float64(col)*(g.CellWidth+g.Page.ColumnSpacing)
	y = g.Page.MarginTB + float64(row)*g.CellHeight
	return x, y
}

// CellCount is the number of label cells on one page.
func (g Geometry) CellCount() int {
	return g.Page.Columns * g.Page.Rows
}
