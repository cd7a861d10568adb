// Package render provides rendering for sequence diagrams.
//
// # Overview
//
// This package contains the shared pieces of the rendering pipeline:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Sequence diagram rendering (in [sequence] subpackage)
//   - Participant interaction overviews (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both sequence and
// node-link renderers go through them.
//
//	l, svg := sequence.Render(d, styles.DefaultOptions(), layout.DefaultMetrics())
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Sequence Diagrams
//
// The [sequence] subpackage turns a parsed [diagram.Diagram] into
// positioned geometry and then into markup:
//   - [sequence/layout]: metrics and geometry computation
//   - [sequence/sink]: output formats (SVG, JSON, PNG, PDF)
//   - [sequence/styles]: color toggles, dash patterns, text measurement
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws who-talks-to-whom as a Graphviz graph,
// one node per participant and one numbered edge per message.
//
//	dot := nodelink.ToDOT(d, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sequence]: github.com/matzehuels/seqdraw/pkg/render/sequence
// [sequence/layout]: github.com/matzehuels/seqdraw/pkg/render/sequence/layout
// [sequence/sink]: github.com/matzehuels/seqdraw/pkg/render/sequence/sink
// [sequence/styles]: github.com/matzehuels/seqdraw/pkg/render/sequence/styles
// [nodelink]: github.com/matzehuels/seqdraw/pkg/render/nodelink
// [diagram.Diagram]: github.com/matzehuels/seqdraw/pkg/diagram.Diagram
package render
