// Package sequence renders parsed sequence diagrams.
//
// [Render] is the one-call entry point: it lays out a [diagram.Diagram]
// with the given style options and metrics and serializes the result as
// SVG. Callers that need other formats or more control use the
// [layout] and [sink] subpackages directly.
//
// Rendering is a pure function of its inputs. Identical arguments always
// produce byte-identical markup, which makes the output safe to cache.
//
// [layout]: github.com/matzehuels/seqdraw/pkg/render/sequence/layout
// [sink]: github.com/matzehuels/seqdraw/pkg/render/sequence/sink
package sequence

import (
	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/sink"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Render computes the geometry of d and its SVG markup. A diagram with no
// participants yields the empty layout and nil markup.
func Render(d *diagram.Diagram, style styles.Options, metrics layout.Metrics, opts ...sink.SVGOption) (layout.Layout, []byte) {
	l := layout.Build(d, style, metrics)
	return l, sink.RenderSVG(l, opts...)
}
