package sink

import (
	"encoding/json"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	diagram *diagram.Diagram
	style   *styles.Options
	metrics *layout.Metrics
}

// WithJSONDiagram embeds the parsed model next to the geometry.
func WithJSONDiagram(d *diagram.Diagram) JSONOption {
	return func(r *jsonRenderer) { r.diagram = d }
}

// WithJSONSettings records the style options and metrics the layout was
// built with, so the document can be re-rendered identically.
func WithJSONSettings(s styles.Options, m layout.Metrics) JSONOption {
	return func(r *jsonRenderer) { r.style, r.metrics = &s, &m }
}

type jsonOutput struct {
	layout.Layout
	Diagram *diagram.Diagram `json:"diagram,omitempty"`
	Style   *styles.Options  `json:"style,omitempty"`
	Metrics *layout.Metrics  `json:"metrics,omitempty"`
}

// RenderJSON exports the computed geometry as a pretty-printed JSON
// document. The empty layout exports with zero dimensions and no
// columns or rows.
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if l.Columns == nil {
		l.Columns = []layout.Column{}
	}
	if l.Rows == nil {
		l.Rows = []layout.Row{}
	}
	return json.MarshalIndent(jsonOutput{
		Layout:  l,
		Diagram: r.diagram,
		Style:   r.style,
		Metrics: r.metrics,
	}, "", "  ")
}
