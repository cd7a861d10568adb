package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/layout"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

const messageDash = "6,4"

const rowInteractionCSS = `
    .message { transition: opacity 0.2s ease; }
    .messages.focus .message { opacity: 0.25; }
    .messages.focus .message.active { opacity: 1; }`

const rowInteractionJS = `
    const rows = document.querySelector('.messages');
    document.querySelectorAll('.message').forEach(el => {
      el.addEventListener('mouseenter', () => { rows.classList.add('focus'); el.classList.add('active'); });
      el.addEventListener('mouseleave', () => { rows.classList.remove('focus'); el.classList.remove('active'); });
    });`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	transparent bool
	interactive bool
	highlight   int
}

// WithTransparentBackground omits the white background rectangle.
func WithTransparentBackground() SVGOption { return func(r *svgRenderer) { r.transparent = true } }

// WithInteraction embeds CSS and script that dim every row except the hovered one.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithHighlight dims every row except the one with the given sequence index.
func WithHighlight(index int) SVGOption { return func(r *svgRenderer) { r.highlight = index } }

// RenderSVG serializes a layout. The empty layout renders to nil.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	if l.IsEmpty() {
		return nil
	}
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	w, h := styles.Num(l.Width), styles.Num(l.Height)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="%s">`+"\n",
		w, h, w, h, styles.EscapeXML(l.FontFamily))

	if r.interactive || r.highlight > 0 {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", rowInteractionCSS)
	}
	if !r.transparent {
		fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`+"\n", w, h, styles.Background)
	}

	writeText(&buf, "  ", "title", l.Title, ` font-weight="600"`)
	renderLifelines(&buf, l)
	renderParticipants(&buf, l)
	renderRows(&buf, l, r.highlight)

	if r.interactive {
		fmt.Fprintf(&buf, "  <script><![CDATA[%s\n  ]]></script>\n", rowInteractionJS)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderLifelines(buf *bytes.Buffer, l layout.Layout) {
	buf.WriteString(`  <g class="lifelines">` + "\n")
	for _, c := range l.Columns {
		fmt.Fprintf(buf, `    <line class="lifeline" data-participant="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-dasharray="%s" stroke-linecap="%s"/>`+"\n",
			styles.EscapeXML(c.ID), styles.Num(c.X), styles.Num(c.Top.Bottom()), styles.Num(c.X), styles.Num(c.Bottom.Y),
			c.LineColor, styles.Num(l.Dash.Width), l.Dash.Array, l.Dash.Cap)
	}
	buf.WriteString("  </g>\n")
}

func renderParticipants(buf *bytes.Buffer, l layout.Layout) {
	buf.WriteString(`  <g class="participants">` + "\n")
	for _, c := range l.Columns {
		for _, box := range []layout.Rect{c.Top, c.Bottom} {
			fmt.Fprintf(buf, `    <rect class="participant" data-participant="%s" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"/>`+"\n",
				styles.EscapeXML(c.ID), styles.Num(box.X), styles.Num(box.Y), styles.Num(box.Width), styles.Num(box.Height),
				styles.Num(layout.BoxRadius), c.Color)
			writeText(buf, "    ", "participant-label", layout.Text{
				X: box.CenterX(), Y: box.CenterY(), Content: c.Label, Color: styles.OnFill, Size: l.FontSize, Anchor: "middle",
			}, ` font-weight="600"`)
		}
	}
	buf.WriteString("  </g>\n")
}

func renderRows(buf *bytes.Buffer, l layout.Layout, highlight int) {
	class := "messages"
	if highlight > 0 {
		class += " focus"
	}
	fmt.Fprintf(buf, `  <g class="%s">`+"\n", class)
	for _, row := range l.Rows {
		rowClass := "message"
		if row.Self {
			rowClass += " self"
		}
		if row.Index == highlight {
			rowClass += " active"
		}
		fmt.Fprintf(buf, `    <g class="%s" id="msg-%d" data-step="%s" data-from="%s" data-to="%s">`+"\n",
			rowClass, row.Index, styles.EscapeXML(row.Numeral), styles.EscapeXML(row.From), styles.EscapeXML(row.To))
		renderArrow(buf, row)
		renderLabel(buf, row.Label)
		for _, mk := range row.Markers {
			renderMarker(buf, mk)
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")
}

func renderArrow(buf *bytes.Buffer, row layout.Row) {
	dash := ""
	if row.Style == diagram.ArrowDashed {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, messageDash)
	}
	if len(row.Path) == 2 {
		a, b := row.Path[0], row.Path[1]
		fmt.Fprintf(buf, `      <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1.5"%s/>`+"\n",
			styles.Num(a.X), styles.Num(a.Y), styles.Num(b.X), styles.Num(b.Y), row.Color, dash)
	} else {
		fmt.Fprintf(buf, `      <polyline points="%s" fill="none" stroke="%s" stroke-width="1.5"%s/>`+"\n",
			points(row.Path), row.Color, dash)
	}

	if row.Head.Filled {
		fmt.Fprintf(buf, `      <polygon class="head" points="%s" fill="%s"/>`+"\n", points(row.Head.Points), row.Color)
	} else {
		fmt.Fprintf(buf, `      <polyline class="head" points="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n", points(row.Head.Points), row.Color)
	}
}

func renderLabel(buf *bytes.Buffer, lbl layout.Label) {
	if lbl.Text.Content == "" {
		return
	}
	if p := lbl.Pill; p != nil {
		fmt.Fprintf(buf, `      <rect class="pill" x="%s" y="%s" width="%s" height="%s" rx="%s" fill="%s"/>`+"\n",
			styles.Num(p.X), styles.Num(p.Y), styles.Num(p.Width), styles.Num(p.Height), styles.Num(p.Height/2), lbl.PillColor)
	}
	writeText(buf, "      ", "label", lbl.Text, "")
}

func renderMarker(buf *bytes.Buffer, mk layout.Marker) {
	if mk.Fill != "" {
		fmt.Fprintf(buf, `      <circle class="step" cx="%s" cy="%s" r="%s" fill="%s"/>`+"\n",
			styles.Num(mk.Center.X), styles.Num(mk.Center.Y), styles.Num(mk.Radius), mk.Fill)
	}
	writeText(buf, "      ", "step-label", mk.Text, ` font-weight="600"`)
}

func writeText(buf *bytes.Buffer, indent, class string, t layout.Text, extra string) {
	fmt.Fprintf(buf, `%s<text class="%s" x="%s" y="%s" font-size="%s" fill="%s" text-anchor="%s" dominant-baseline="central"%s>%s</text>`+"\n",
		indent, class, styles.Num(t.X), styles.Num(t.Y), styles.Num(t.Size), t.Color, t.Anchor, extra, styles.EscapeXML(t.Content))
}

func points(pts []layout.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = styles.Num(p.X) + "," + styles.Num(p.Y)
	}
	return strings.Join(parts, " ")
}
