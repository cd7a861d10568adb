// Package nodelink renders the participant interaction overview of a
// sequence diagram as a node-link graph.
//
// # Overview
//
// Where the sequence view lays messages out in time, the overview answers
// "who talks to whom": participants appear as boxes in their palette
// color and every message becomes a directed edge labeled with its step
// numeral.
//
// # Usage
//
// Convert a diagram to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Collapse: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: edge labels carry the message text, aliased nodes their id
//   - Collapse: one edge per ordered participant pair
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
