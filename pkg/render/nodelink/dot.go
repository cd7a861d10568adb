package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds message text to edge labels and the participant id to
	// aliased node labels. When false, edges show only the step numeral.
	Detailed bool
	// Collapse merges every message between the same ordered pair of
	// participants into one edge listing all step numerals.
	Collapse bool
}

// ToDOT converts a diagram to Graphviz DOT format: one node per
// participant, one edge per message. The resulting DOT string can be
// rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Dashed messages become dashed edges, and every edge takes its sender's
// color.
func ToDOT(d *diagram.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	if d == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for _, p := range d.Participants {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", p.ID, fmtNodeLabel(p, opts.Detailed), p.Color)
	}

	buf.WriteString("\n")
	for _, e := range edges(d, opts) {
		attrs := []string{fmt.Sprintf("label=%q", e.label), fmt.Sprintf("color=%q", e.color), fmt.Sprintf("fontcolor=%q", e.color)}
		if e.dashed {
			attrs = append(attrs, "style=dashed", "arrowhead=open")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.from, e.to, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtNodeLabel(p diagram.Participant, detailed bool) string {
	if !detailed || p.Label == p.ID {
		return p.Label
	}
	return p.Label + "\n(" + p.ID + ")"
}

type edge struct {
	from, to string
	label    string
	color    string
	dashed   bool
}

func edges(d *diagram.Diagram, opts Options) []edge {
	out := make([]edge, 0, len(d.Messages))
	pos := make(map[[2]string]int)
	for _, m := range d.Messages {
		label := m.StepLabel()
		if opts.Detailed && m.Text != "" {
			label += ". " + m.Text
		}
		color := "#666666"
		if p, ok := d.Participant(m.From); ok {
			color = p.Color
		}

		key := [2]string{m.From, m.To}
		if i, ok := pos[key]; ok && opts.Collapse {
			sep := ", "
			if opts.Detailed {
				sep = "\n"
			}
			out[i].label += sep + label
			out[i].dashed = out[i].dashed && m.Style == diagram.ArrowDashed
			continue
		}
		pos[key] = len(out)
		out = append(out, edge{
			from:   m.From,
			to:     m.To,
			label:  label,
			color:  color,
			dashed: m.Style == diagram.ArrowDashed,
		})
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
