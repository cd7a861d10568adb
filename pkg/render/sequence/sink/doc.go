// Package sink provides output format renderers for sequence diagram layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: self-contained vector markup with explicit width, height and viewBox
//   - JSON: geometry export for external tools
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// Sinks never compute positions or colors; everything they draw comes from
// the layout. The empty layout renders to empty markup, which callers must
// treat as "nothing to show" rather than as a failure.
//
// # SVG Options
//
//   - [WithTransparentBackground]: omit the white canvas rectangle
//   - [WithInteraction]: dim every row except the hovered one
//   - [WithHighlight]: statically emphasize one row
//
// Basic usage:
//
//	l := layout.Build(d, styles.DefaultOptions(), layout.DefaultMetrics())
//	svg := sink.RenderSVG(l, sink.WithInteraction())
//
// [layout.Layout]: github.com/matzehuels/seqdraw/pkg/render/sequence/layout.Layout
package sink
