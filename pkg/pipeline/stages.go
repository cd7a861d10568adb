package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/cache"
	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/errors"
	seqio "github.com/matzehuels/seqdraw/pkg/io"
	"github.com/matzehuels/seqdraw/pkg/render/nodelink"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/sink"
)

// =============================================================================
// Parse
// =============================================================================

// Parse builds a diagram from opts.Source. DSL input never fails; JSON
// input is validated by [seqio.ReadJSON].
func Parse(opts Options) (*diagram.Diagram, error) {
	if opts.Input == InputJSON {
		return seqio.ReadJSON(strings.NewReader(opts.Source))
	}
	return dsl.Parse(opts.Source), nil
}

// =============================================================================
// Layout
// =============================================================================

// Geometry is the layout stage output. Exactly one field is set,
// depending on the visualization type.
type Geometry struct {
	Sequence layout.Layout
	DOT      string
}

// Layout computes the geometry for opts.VizType.
func Layout(d *diagram.Diagram, opts Options) (Geometry, error) {
	if opts.IsNodelink() {
		return Geometry{DOT: nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed, Collapse: opts.Collapse})}, nil
	}
	if err := ValidateVizType(opts.VizType); err != nil {
		return Geometry{}, err
	}
	return Geometry{Sequence: layout.Build(d, opts.Style, opts.Metrics)}, nil
}

// =============================================================================
// Render
// =============================================================================

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, d *diagram.Diagram, g Geometry, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		if opts.IsNodelink() {
			data, err = renderNodelink(ctx, g.DOT, format, opts)
		} else {
			data, err = renderSequence(ctx, d, g.Sequence, format, opts)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var o []sink.SVGOption
	if opts.Transparent {
		o = append(o, sink.WithTransparentBackground())
	}
	if opts.Interactive {
		o = append(o, sink.WithInteraction())
	}
	if opts.Highlight > 0 {
		o = append(o, sink.WithHighlight(opts.Highlight))
	}
	return o
}

func renderSequence(ctx context.Context, d *diagram.Diagram, l layout.Layout, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(l, svgOptions(opts)...), nil
	case FormatJSON:
		return sink.RenderJSON(l, sink.WithJSONDiagram(d), sink.WithJSONSettings(opts.Style, opts.Metrics))
	case FormatPNG:
		return sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOptions(opts)...), sink.WithScale(opts.Scale))
	case FormatPDF:
		return sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOptions(opts)...))
	case FormatDSL:
		return []byte(dsl.Format(d)), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sequence format: %s", format)
}

func renderNodelink(ctx context.Context, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, opts.Scale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
}

// modelHash is the content hash used to key artifacts of d.
func modelHash(d *diagram.Diagram) (string, error) {
	var buf bytes.Buffer
	if err := seqio.WriteJSON(d, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}
