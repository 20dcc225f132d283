package layout

import (
	"strings"
	"unicode/utf8"
)

// Metrics measures text in a loaded font. Wrapping is only correct when the
// metrics come from the fonts the renderer will draw with.
type Metrics interface {
	StringWidth(s string, face Face, size float64) float64
}

// ApproxMetrics estimates widths as a fixed fraction of the font size per rune.
// It is meant for tests and previews, not for print output.
type ApproxMetrics struct {
	Ratio float64
}

func (m ApproxMetrics) StringWidth(s string, face Face, size float64) float64 {
	ratio := m.Ratio
	if ratio == 0 {
		ratio = 0.5
	}
	if face == FaceBold {
		ratio *= 1.1
	}
	return float64(utf8.RuneCountInString(s)) * size * ratio
}

// Wrap breaks s into lines no wider than width. Explicit newlines are kept,
// words longer than a line are broken between runes. Empty input yields no lines.
func Wrap(m Metrics, s string, face Face, size, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.StringWidth(candidate, face, size) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			for word != "" && m.StringWidth(word, face, size) > width {
				head, tail := splitRunes(m, word, face, size, width)
				lines = append(lines, head)
				word = tail
			}
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitRunes returns the longest prefix of word that fits width (at least one rune) and the rest.
func splitRunes(m Metrics, word string, face Face, size, width float64) (string, string) {
	cut := 0
	for i, r := range word {
		next := i + utf8.RuneLen(r)
		if cut > 0 && m.StringWidth(word[:next], face, size) > width {
			break
		}
		cut = next
	}
	return word[:cut], word[cut:]
}

// column is a vertical cursor laying text into a fixed-width box.
type column struct {
	metrics Metrics
	x       float64
	width   float64
	y       float64
	limit   float64 // lines ending below limit are dropped; 0 disables clipping
	clipped bool
}

// paragraph wraps content in style and returns the lines, advancing the cursor
// by the style margins and line leading.
func (c *column) paragraph(role Role, style Style, content string) []Text {
	c.y += style.MarginTop
	x := c.x + style.Indent
	width := c.width - style.Indent
	var out []Text
	for _, line := range Wrap(c.metrics, content, style.Face, style.Size, width) {
		leading := style.Leading()
		if c.limit > 0 && c.y+leading > c.limit {
			c.clipped = true
			c.y += leading
			continue
		}
		lineX := x
		switch style.Align {
		case AlignCenter:
			lineX = x + (width-c.metrics.StringWidth(line, style.Face, style.Size))/2
		case AlignRight:
			lineX = x + width - c.metrics.StringWidth(line, style.Face, style.Size)
		}
		out = append(out, Text{Role: role, Style: style, X: lineX, Y: c.y, Content: line})
		c.y += leading
	}
	c.y += style.MarginBottom
	return out
}

// measure returns the height a paragraph would take without emitting it.
func (c column) measure(style Style, content string) float64 {
	n := len(Wrap(c.metrics, content, style.Face, style.Size, c.width-style.Indent))
	return style.MarginTop + float64(n)*style.Leading() + style.MarginBottom
}
