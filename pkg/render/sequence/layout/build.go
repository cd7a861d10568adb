package layout

import (
	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Option configures [Build].
type Option func(*builder)

// WithMeasurer replaces the default text width heuristic.
func WithMeasurer(m styles.Measurer) Option {
	return func(b *builder) {
		if m != nil {
			b.measure = m
		}
	}
}

type builder struct {
	style   styles.Options
	m       Metrics
	measure styles.Measurer
	columns map[string]int
}

var round = styles.Round

// Build positions every element of d. It never fails: unknown dash
// patterns and missing metrics fall back to defaults, and a diagram with
// no participants yields the empty Layout.
func Build(d *diagram.Diagram, style styles.Options, metrics Metrics, opts ...Option) Layout {
	if d.IsEmpty() {
		return Layout{}
	}

	b := &builder{
		style:   style.WithDefaults(),
		m:       metrics.WithDefaults(),
		measure: styles.DefaultMeasurer,
		columns: make(map[string]int, len(d.Participants)),
	}
	for _, opt := range opts {
		opt(b)
	}

	dash, _ := styles.LookupDash(b.style.DashPattern)
	l := Layout{
		Width:      b.m.CanvasWidth(len(d.Participants)),
		Height:     b.m.CanvasHeight(len(d.Messages)),
		FontFamily: b.style.FontFamily,
		FontSize:   b.m.FontSize,
		Dash:       dash,
	}

	title := d.Title
	if title == "" {
		title = diagram.DefaultTitle
	}
	l.Title = Text{
		X:       round(l.Width / 2),
		Y:       round(b.m.TitleBand() / 2),
		Content: title,
		Color:   styles.NeutralText,
		Size:    round(b.m.FontSize * 1.25),
		Anchor:  "middle",
	}

	l.Columns = make([]Column, 0, len(d.Participants))
	for i, p := range d.Participants {
		b.columns[p.ID] = i
		l.Columns = append(l.Columns, b.column(i, p, l.Height))
	}

	l.Rows = make([]Row, 0, len(d.Messages))
	for i, msg := range d.Messages {
		row, ok := b.row(i, msg, d)
		if !ok {
			continue
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

func (b *builder) column(i int, p diagram.Participant, height float64) Column {
	x := b.m.ColumnX(i)
	bw, bh := b.m.BoxWidth, b.m.BoxHeight()
	top := Rect{X: round(x - bw/2), Y: round(b.m.TitleBand() + TopPadding), Width: round(bw), Height: round(bh)}
	bottom := top
	bottom.Y = round(height - BottomPadding - bh)
	return Column{
		ID:        p.ID,
		Label:     p.Label,
		Color:     p.Color,
		X:         round(x),
		Top:       top,
		Bottom:    bottom,
		LineColor: b.style.LineColor(p.Color),
	}
}

func (b *builder) row(i int, msg diagram.Message, d *diagram.Diagram) (Row, bool) {
	src, ok := b.columns[msg.From]
	if !ok {
		return Row{}, false
	}
	dst, ok := b.columns[msg.To]
	if !ok {
		return Row{}, false
	}

	idx := msg.Index
	if idx < 1 {
		idx = i + 1
	}
	color := d.Participants[src].Color
	y := b.m.RowY(idx)
	x1 := b.m.ColumnX(src)

	row := Row{
		Index:   idx,
		Numeral: msg.StepLabel(),
		From:    msg.From,
		To:      msg.To,
		Style:   msg.Style,
		Self:    msg.IsSelf(),
		Y:       round(y),
		Color:   b.style.LineColor(color),
	}

	if row.Self {
		b.selfLoop(&row, x1, y, msg, color)
	} else {
		b.cross(&row, x1, b.m.ColumnX(dst), y, msg, color)
	}

	row.Markers = [2]Marker{
		b.marker(x1, y, row.Numeral, color),
		b.marker(b.m.GutterX(), y, row.Numeral, color),
	}
	return row, true
}

// selfLoop draws a right-angle loop out of and back into the lifeline,
// centered on the row, with the head at the return point facing left.
func (b *builder) selfLoop(row *Row, x, y float64, msg diagram.Message, color string) {
	top, bottom := y-LoopHeight/2, y+LoopHeight/2
	right := x + LoopWidth
	row.Path = []Point{
		{round(x), round(top)},
		{round(right), round(top)},
		{round(right), round(bottom)},
		{round(x), round(bottom)},
	}
	row.Direction = -1
	row.Head = b.head(x, bottom, -1, msg.Style)
	row.Label = b.label(msg.Text, right+PillPadding, y, "start", color)
}

func (b *builder) cross(row *Row, x1, x2, y float64, msg diagram.Message, color string) {
	dir := 1
	if x2 < x1 {
		dir = -1
	}
	end := x2
	if msg.Style != diagram.ArrowDashed {
		// A filled head covers the last HeadLength units.
		end = x2 - float64(dir)*HeadLength
	}
	row.Path = []Point{{round(x1), round(y)}, {round(end), round(y)}}
	row.Direction = dir
	row.Head = b.head(x2, y, dir, msg.Style)

	boxH := b.m.FontSize + PillExtra
	cy := y - LabelGap - boxH/2
	row.Label = b.label(msg.Text, (x1+x2)/2, cy, "middle", color)
}

// head builds an arrowhead whose tip is at (x, y) pointing in dir.
func (b *builder) head(x, y float64, dir int, style diagram.ArrowStyle) Head {
	base := x - float64(dir)*HeadLength
	return Head{
		Points: []Point{
			{round(base), round(y - HeadWidth/2)},
			{round(x), round(y)},
			{round(base), round(y + HeadWidth/2)},
		},
		Filled: style != diagram.ArrowDashed,
	}
}

// label places text at (x, cy). For anchor "start" x is the left edge of
// the pill, for "middle" it is the center.
func (b *builder) label(text string, x, cy float64, anchor string, color string) Label {
	size := b.m.FontSize
	w := b.measure.TextWidth(text, size) + 2*PillPadding
	h := size + PillExtra

	left := x - w/2
	tx := x
	if anchor == "start" {
		left = x
		tx = x + PillPadding
	}

	textColor, pill := b.style.LabelColors(color)
	lbl := Label{
		Text:      Text{X: round(tx), Y: round(cy), Content: text, Color: textColor, Size: round(size), Anchor: anchor},
		PillColor: pill,
	}
	if pill != "" {
		lbl.Pill = &Rect{X: round(left), Y: round(cy - h/2), Width: round(w), Height: round(h)}
	}
	return lbl
}

func (b *builder) marker(x, y float64, numeral, color string) Marker {
	textColor, fill := b.style.MarkerColors(color)
	return Marker{
		Center: Point{round(x), round(y)},
		Radius: MarkerRadius,
		Fill:   fill,
		Text:   Text{X: round(x), Y: round(y), Content: numeral, Color: textColor, Size: round(b.m.FontSize * 0.8), Anchor: "middle"},
	}
}
