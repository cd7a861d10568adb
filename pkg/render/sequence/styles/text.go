package styles

import (
	"bytes"
	"encoding/xml"
	"math"
	"strconv"
	"unicode/utf8"
)

// Measurer estimates the rendered width of a label. Layout only depends on
// this interface so exact glyph metrics can replace the heuristic.
type Measurer interface {
	TextWidth(text string, fontSize float64) float64
}

// CharWidth is the default heuristic: every rune is Ratio × fontSize wide.
type CharWidth struct {
	Ratio float64
}

// DefaultCharRatio is the average glyph advance relative to font size.
const DefaultCharRatio = 0.6

// DefaultMeasurer is the rune-count heuristic used unless another is given.
var DefaultMeasurer Measurer = CharWidth{Ratio: DefaultCharRatio}

// TextWidth implements Measurer.
func (c CharWidth) TextWidth(text string, fontSize float64) float64 {
	ratio := c.Ratio
	if ratio <= 0 {
		ratio = DefaultCharRatio
	}
	return float64(utf8.RuneCountInString(text)) * ratio * fontSize
}

// EscapeXML escapes text for use in SVG text nodes and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// Round rounds to two decimals, the precision of every emitted coordinate.
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// Num formats a coordinate with at most two decimals and no trailing zeros.
func Num(f float64) string {
	r := Round(f)
	if r == 0 {
		r = 0 // normalizes -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
