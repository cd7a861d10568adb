// Package styles holds the rendering options shared by the sequence layout
// engine and its sinks: color toggles, font family, lifeline dash patterns,
// and the text measurement strategy used to size label pills.
package styles

import (
	"fmt"
	"slices"
	"strings"
)

// Neutral colors used when a coloring toggle is off.
const (
	NeutralStroke = "#666666"
	NeutralText   = "#333333"
	OnFill        = "#ffffff"
	Background    = "#ffffff"
)

// DefaultFontFamily is the font stack used when none is configured.
const DefaultFontFamily = "Inter, Helvetica, Arial, sans-serif"

// DefaultDashPattern names the default lifeline pattern.
const DefaultDashPattern = "dashed"

// Options are the independently settable style toggles.
type Options struct {
	LineColoring bool   `json:"line_coloring" toml:"line_coloring" yaml:"line_coloring" mapstructure:"line_coloring"`
	StepColoring bool   `json:"step_coloring" toml:"step_coloring" yaml:"step_coloring" mapstructure:"step_coloring"`
	PillColoring bool   `json:"pill_coloring" toml:"pill_coloring" yaml:"pill_coloring" mapstructure:"pill_coloring"`
	FontFamily   string `json:"font_family" toml:"font_family" yaml:"font_family" mapstructure:"font_family"`
	DashPattern  string `json:"dash_pattern" toml:"dash_pattern" yaml:"dash_pattern" mapstructure:"dash_pattern"`
}

// DefaultOptions returns every coloring toggle on, the default font and
// the default dash pattern.
func DefaultOptions() Options {
	return Options{
		LineColoring: true,
		StepColoring: true,
		PillColoring: true,
		FontFamily:   DefaultFontFamily,
		DashPattern:  DefaultDashPattern,
	}
}

// WithDefaults fills empty string fields.
func (o Options) WithDefaults() Options {
	if o.FontFamily == "" {
		o.FontFamily = DefaultFontFamily
	}
	if o.DashPattern == "" {
		o.DashPattern = DefaultDashPattern
	}
	return o
}

// Validate reports an unknown dash pattern.
func (o Options) Validate() error {
	if o.DashPattern == "" {
		return nil
	}
	if _, ok := dashPatterns[o.DashPattern]; !ok {
		return fmt.Errorf("invalid dash pattern: %q (must be one of: %s)", o.DashPattern, strings.Join(DashPatternNames(), ", "))
	}
	return nil
}

// LineColor is the stroke color for lifelines and message lines.
func (o Options) LineColor(participantColor string) string {
	if o.LineColoring {
		return participantColor
	}
	return NeutralStroke
}

// LabelColors returns the text color of a message label and the fill of
// its pill. Both follow PillColoring: with it on the label sits on a pill
// in the sender's color, with it off it is plain neutral text and pill is
// empty.
func (o Options) LabelColors(participantColor string) (text, pill string) {
	if o.PillColoring {
		return OnFill, participantColor
	}
	return NeutralText, ""
}

// MarkerColors returns the numeral color of a step marker and the fill of
// its circle. With StepColoring off the marker is a bare neutral numeral
// and fill is empty.
func (o Options) MarkerColors(participantColor string) (text, fill string) {
	if o.StepColoring {
		return OnFill, participantColor
	}
	return NeutralText, ""
}

// Dash describes how a lifeline is stroked.
type Dash struct {
	Array string  `json:"array"`
	Cap   string  `json:"cap"`
	Width float64 `json:"width"`
}

var dashPatterns = map[string]Dash{
	"solid":   {Array: "none", Cap: "butt", Width: 1},
	"dashed":  {Array: "6 4", Cap: "butt", Width: 1},
	"dotted":  {Array: "1 4", Cap: "round", Width: 1.5},
	"long":    {Array: "12 6", Cap: "butt", Width: 1},
	"dashdot": {Array: "8 4 1 4", Cap: "round", Width: 1},
}

// LookupDash resolves a named pattern. Unknown names fall back to the
// default pattern and report false.
func LookupDash(name string) (Dash, bool) {
	if d, ok := dashPatterns[name]; ok {
		return d, true
	}
	return dashPatterns[DefaultDashPattern], false
}

// DashPatternNames lists the known pattern names, sorted.
func DashPatternNames() []string {
	names := make([]string, 0, len(dashPatterns))
	for n := range dashPatterns {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
