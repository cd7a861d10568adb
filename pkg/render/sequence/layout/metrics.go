package layout

import (
	"fmt"
	"math"
)

// Fixed geometry that does not scale with Metrics.
const (
	MinBoxHeight    = 30.0
	BoxAspect       = 0.4
	TitleBandFactor = 2.5
	TopPadding      = 10.0
	VerticalPadding = 20.0
	BottomPadding   = 10.0

	LoopWidth  = 40.0
	LoopHeight = 20.0
	HeadLength = 10.0
	HeadWidth  = 10.0

	MarkerRadius = 9.0
	BoxRadius    = 6.0

	PillPadding = 8.0
	PillExtra   = 8.0
	LabelGap    = 4.0
)

// Metrics are the size knobs of a layout. Zero fields take defaults.
type Metrics struct {
	RowHeight     float64 `json:"row_height" toml:"row_height" yaml:"row_height" mapstructure:"row_height"`
	BoxWidth      float64 `json:"box_width" toml:"box_width" yaml:"box_width" mapstructure:"box_width"`
	ColumnSpacing float64 `json:"column_spacing" toml:"column_spacing" yaml:"column_spacing" mapstructure:"column_spacing"`
	FontSize      float64 `json:"font_size" toml:"font_size" yaml:"font_size" mapstructure:"font_size"`
	Margin        float64 `json:"margin" toml:"margin" yaml:"margin" mapstructure:"margin"`
}

// DefaultMetrics returns the stock layout metrics.
func DefaultMetrics() Metrics {
	return Metrics{
		RowHeight:     50,
		BoxWidth:      120,
		ColumnSpacing: 180,
		FontSize:      14,
		Margin:        20,
	}
}

// WithDefaults replaces non-positive or non-finite fields with defaults.
func (m Metrics) WithDefaults() Metrics {
	d := DefaultMetrics()
	fill := func(v *float64, def float64) {
		if !(*v > 0) || math.IsInf(*v, 0) {
			*v = def
		}
	}
	fill(&m.RowHeight, d.RowHeight)
	fill(&m.BoxWidth, d.BoxWidth)
	fill(&m.ColumnSpacing, d.ColumnSpacing)
	fill(&m.FontSize, d.FontSize)
	if m.Margin < 0 || math.IsNaN(m.Margin) || math.IsInf(m.Margin, 0) {
		m.Margin = d.Margin
	}
	return m
}

// Validate rejects values that WithDefaults would silently replace.
// Zero sizes are accepted and mean "use the default"; a zero margin is kept.
func (m Metrics) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"row_height", m.RowHeight},
		{"box_width", m.BoxWidth},
		{"column_spacing", m.ColumnSpacing},
		{"font_size", m.FontSize},
		{"margin", m.Margin},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("invalid metric %s: %v (must be a non-negative number)", f.name, f.v)
		}
	}
	return nil
}

// BoxHeight derives the participant box height from its width.
func (m Metrics) BoxHeight() float64 {
	return math.Max(MinBoxHeight, math.Round(BoxAspect*m.BoxWidth))
}

// TitleBand is the height reserved above the top participant boxes.
func (m Metrics) TitleBand() float64 {
	return math.Round(TitleBandFactor * m.FontSize)
}

// ColumnX is the lifeline x coordinate of the column at index i.
func (m Metrics) ColumnX(i int) float64 {
	return m.Margin + m.BoxWidth/2 + float64(i)*m.ColumnSpacing
}

// CanvasWidth is the natural width for n participants.
func (m Metrics) CanvasWidth(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Round(2*m.Margin + float64(n-1)*m.ColumnSpacing + m.BoxWidth)
}

// CanvasHeight is the natural height for n message rows.
func (m Metrics) CanvasHeight(n int) float64 {
	return math.Round(m.rowsTop() + float64(n)*m.RowHeight + VerticalPadding + m.BoxHeight() + BottomPadding)
}

// RowY is the vertical center of the row for sequence index idx (1-based).
func (m Metrics) RowY(idx int) float64 {
	return m.rowsTop() + float64(idx-1)*m.RowHeight + m.RowHeight/2
}

func (m Metrics) rowsTop() float64 {
	return m.TitleBand() + TopPadding + m.BoxHeight() + VerticalPadding
}

// GutterX is the x coordinate of the persistent step indicator.
func (m Metrics) GutterX() float64 {
	return math.Max(m.Margin/2, MarkerRadius+1)
}
