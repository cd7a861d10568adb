package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

func build(src string) Layout {
	return Build(dsl.Parse(src), styles.DefaultOptions(), DefaultMetrics())
}

func TestBuildDimensions(t *testing.T) {
	l := build("A->>B: Hello")

	// 2*20 + 1*180 + 120
	if l.Width != 340 {
		t.Errorf("Width = %v, want 340", l.Width)
	}
	// title 35 + pad 10 + box 48 + pad 20 + 1 row 50 + pad 20 + box 48 + pad 10
	if l.Height != 241 {
		t.Errorf("Height = %v, want 241", l.Height)
	}
	if len(l.Columns) != 2 || l.Columns[0].X != 80 || l.Columns[1].X != 260 {
		t.Errorf("columns = %+v, want x 80 and 260", l.Columns)
	}
	if got := l.Rows[0].Y; got != 138 {
		t.Errorf("row y = %v, want 138", got)
	}
	if l.Title.Content != diagram.DefaultTitle {
		t.Errorf("title = %q, want default", l.Title.Content)
	}
}

func TestBuildBoxesFrameLifelines(t *testing.T) {
	l := build("A->>B: x\nB->>A: y")
	for _, c := range l.Columns {
		if c.Top.Height != 48 {
			t.Errorf("%s box height = %v, want 48", c.ID, c.Top.Height)
		}
		if c.Top.CenterX() != c.X || c.Bottom.CenterX() != c.X {
			t.Errorf("%s boxes not centered on lifeline", c.ID)
		}
		if c.Top.Bottom() >= l.Rows[0].Y || c.Bottom.Y <= l.Rows[len(l.Rows)-1].Y {
			t.Errorf("%s boxes do not frame the rows", c.ID)
		}
		if c.Bottom.Bottom() != l.Height-BottomPadding {
			t.Errorf("%s bottom box ends at %v, want %v", c.ID, c.Bottom.Bottom(), l.Height-BottomPadding)
		}
	}
}

func TestBuildMonotonicCanvas(t *testing.T) {
	var prevW, prevH float64
	for n := 1; n <= 12; n++ {
		var sb strings.Builder
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "participant P%d\n", i)
		}
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "P0->>P0: m%d\n", i)
		}
		l := build(sb.String())
		if l.Width <= prevW {
			t.Errorf("n=%d width %v not greater than %v", n, l.Width, prevW)
		}
		if l.Height <= prevH {
			t.Errorf("n=%d height %v not greater than %v", n, l.Height, prevH)
		}
		prevW, prevH = l.Width, l.Height
	}
}

func TestBuildDirectionFlips(t *testing.T) {
	l := build("A->>B: go\nB->>A: back")

	if len(l.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(l.Rows))
	}
	out, back := l.Rows[0], l.Rows[1]
	if back.Y <= out.Y {
		t.Errorf("row y not increasing: %v then %v", out.Y, back.Y)
	}
	if out.Direction != 1 || back.Direction != -1 {
		t.Errorf("directions = %d, %d; want 1, -1", out.Direction, back.Direction)
	}
	if tip := out.Head.Points[1]; tip.X != 260 {
		t.Errorf("first head tip x = %v, want 260", tip.X)
	}
	if tip := back.Head.Points[1]; tip.X != 80 {
		t.Errorf("second head tip x = %v, want 80", tip.X)
	}
	if out.Head.Points[0].X >= 260 || back.Head.Points[0].X <= 80 {
		t.Error("head bases should sit behind the tips")
	}
}

func TestBuildArrowHeads(t *testing.T) {
	l := build("A->>B: call\nB-->>A: return")

	call, ret := l.Rows[0], l.Rows[1]
	if !call.Head.Filled {
		t.Error("solid arrow should have a filled head")
	}
	if ret.Head.Filled {
		t.Error("dashed arrow should have an open head")
	}
	// The dashed line runs to the tip, the solid one stops at the head base.
	if got := ret.Path[1].X; got != 80 {
		t.Errorf("dashed line ends at %v, want 80", got)
	}
	if got := call.Path[1].X; got != 250 {
		t.Errorf("solid line ends at %v, want 250", got)
	}
}

func TestBuildSelfLoop(t *testing.T) {
	l := build("participant U as User\nU->>U: loop")

	if len(l.Columns) != 1 || l.Columns[0].Label != "User" {
		t.Fatalf("columns = %+v", l.Columns)
	}
	row := l.Rows[0]
	if !row.Self {
		t.Fatal("row should be a self loop")
	}
	want := []Point{{80, 128}, {120, 128}, {120, 148}, {80, 148}}
	if diff := cmp.Diff(want, row.Path); diff != "" {
		t.Errorf("loop path mismatch (-want +got):\n%s", diff)
	}
	wantHead := []Point{{90, 143}, {80, 148}, {90, 153}}
	if diff := cmp.Diff(wantHead, row.Head.Points); diff != "" {
		t.Errorf("loop head mismatch (-want +got):\n%s", diff)
	}
	if row.Label.Text.Anchor != "start" || row.Label.Pill.X != 128 {
		t.Errorf("label should start beside the loop, got %+v", row.Label)
	}
}

func TestSelfLoopClearsAdjacentHeads(t *testing.T) {
	l := build(`A->>B: in
B->>B: think
B-->>A: out
A->>A: again
A->>B: last`)

	span := func(pts []Point) (lo, hi float64) {
		lo, hi = pts[0].Y, pts[0].Y
		for _, p := range pts[1:] {
			lo, hi = min(lo, p.Y), max(hi, p.Y)
		}
		return lo, hi
	}

	for i, row := range l.Rows {
		if !row.Self {
			continue
		}
		lo, hi := span(append(append([]Point{}, row.Path...), row.Head.Points...))
		for _, j := range []int{i - 1, i + 1} {
			if j < 0 || j >= len(l.Rows) || l.Rows[j].Self {
				continue
			}
			hlo, hhi := span(l.Rows[j].Head.Points)
			if hlo <= hi && hhi >= lo {
				t.Errorf("self row %d [%v,%v] overlaps head of row %d [%v,%v]", i+1, lo, hi, j+1, hlo, hhi)
			}
		}
	}
}

func TestBuildDisplayStepDoesNotMoveRows(t *testing.T) {
	plain := build("A-->>B: Done")
	stepped := build("A-->>B: 3. Done")

	if plain.Rows[0].Y != stepped.Rows[0].Y {
		t.Errorf("display step moved the row: %v vs %v", plain.Rows[0].Y, stepped.Rows[0].Y)
	}
	row := stepped.Rows[0]
	if row.Index != 1 || row.Numeral != "3" {
		t.Errorf("index %d numeral %s, want 1 and 3", row.Index, row.Numeral)
	}
	for _, mk := range row.Markers {
		if mk.Text.Content != "3" {
			t.Errorf("marker shows %q, want 3", mk.Text.Content)
		}
	}
	if gutter := row.Markers[1].Center.X; gutter != 10 {
		t.Errorf("gutter marker x = %v, want 10", gutter)
	}
}

func TestBuildColorToggles(t *testing.T) {
	src := "A->>B: hi"
	color := diagram.Palette[0]

	on := build(src)
	if on.Columns[0].LineColor != color || on.Rows[0].Color != color {
		t.Error("line coloring on should use the participant color")
	}
	if on.Rows[0].Label.Pill == nil || on.Rows[0].Label.PillColor != color {
		t.Error("pill coloring on should draw a colored pill")
	}
	if on.Rows[0].Markers[0].Fill != color {
		t.Error("step coloring on should fill the marker")
	}

	off := Build(dsl.Parse(src), styles.Options{}, DefaultMetrics())
	row := off.Rows[0]
	if off.Columns[0].LineColor != styles.NeutralStroke || row.Color != styles.NeutralStroke {
		t.Error("line coloring off should use the neutral stroke")
	}
	if row.Label.Pill != nil || row.Label.Text.Color != styles.NeutralText {
		t.Errorf("pill coloring off should draw plain neutral text, got %+v", row.Label)
	}
	if row.Markers[0].Fill != "" || row.Markers[0].Text.Color != styles.NeutralText {
		t.Errorf("step coloring off should draw a plain numeral, got %+v", row.Markers[0])
	}
}

func TestBuildPlainLabelWithLineColoring(t *testing.T) {
	opts := styles.Options{LineColoring: true}
	rows := Build(dsl.Parse("A->>B: hi\nA->>A: self"), opts, DefaultMetrics()).Rows

	for _, r := range rows {
		if r.Color != diagram.Palette[0] {
			t.Errorf("row %d stroke = %s, want the sender color", r.Index, r.Color)
		}
		if r.Label.Pill != nil || r.Label.PillColor != "" || r.Label.Text.Color != styles.NeutralText {
			t.Errorf("row %d label = %+v, want plain neutral text", r.Index, r.Label)
		}
	}
}

func TestBuildSourceColorOnly(t *testing.T) {
	l := build("A->>B: one\nB->>A: two")
	if l.Rows[0].Color != diagram.Palette[0] || l.Rows[1].Color != diagram.Palette[1] {
		t.Errorf("rows should take the sender's color, got %s and %s", l.Rows[0].Color, l.Rows[1].Color)
	}
}

type fixedWidth float64

func (f fixedWidth) TextWidth(string, float64) float64 { return float64(f) }

func TestBuildMeasurer(t *testing.T) {
	l := Build(dsl.Parse("A->>B: anything"), styles.DefaultOptions(), DefaultMetrics(), WithMeasurer(fixedWidth(100)))
	if got := l.Rows[0].Label.Pill.Width; got != 116 {
		t.Errorf("pill width = %v, want 116", got)
	}
	// Default heuristic: 3 runes * 0.6 * 14 + 16.
	d := build("A->>B: abc")
	if got := d.Rows[0].Label.Pill.Width; got != 41.2 {
		t.Errorf("default pill width = %v, want 41.2", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	for _, d := range []*diagram.Diagram{nil, {}, dsl.Parse("%% nothing")} {
		l := Build(d, styles.DefaultOptions(), DefaultMetrics())
		if !l.IsEmpty() || l.Width != 0 || l.Height != 0 {
			t.Errorf("Build(%+v) = %+v, want empty layout", d, l)
		}
	}
}

func TestBuildSkipsDanglingMessages(t *testing.T) {
	d := &diagram.Diagram{
		Participants: []diagram.Participant{{ID: "A", Label: "A", Color: diagram.Palette[0]}},
		Messages: []diagram.Message{
			{Index: 1, From: "A", To: "ghost", Style: diagram.ArrowSolid},
			{Index: 2, From: "A", To: "A", Style: diagram.ArrowSolid},
		},
	}
	l := Build(d, styles.DefaultOptions(), DefaultMetrics())
	if len(l.Rows) != 1 || l.Rows[0].Index != 2 {
		t.Fatalf("rows = %+v, want only index 2", l.Rows)
	}
	if l.Height != 291 {
		t.Errorf("height = %v, want rows reserved for every message", l.Height)
	}
}

func TestBuildDeterministic(t *testing.T) {
	src := "title: T\nA->>B: 1. x\nB->>C: y\nC-->>A: 9. z\nB->>B: w"
	if diff := cmp.Diff(build(src), build(src)); diff != "" {
		t.Errorf("layouts differ:\n%s", diff)
	}
}

func TestMetricsDefaultsAndValidate(t *testing.T) {
	m := Metrics{RowHeight: -3, FontSize: 10}.WithDefaults()
	if m.RowHeight != 50 || m.FontSize != 10 || m.BoxWidth != 120 || m.Margin != 0 {
		t.Errorf("WithDefaults = %+v", m)
	}
	if err := DefaultMetrics().Validate(); err != nil {
		t.Errorf("default metrics invalid: %v", err)
	}
	if err := (Metrics{Margin: -1}).Validate(); err == nil {
		t.Error("negative margin should fail")
	}
	if got := (Metrics{BoxWidth: 40}).BoxHeight(); got != MinBoxHeight {
		t.Errorf("narrow box height = %v, want clamp %v", got, MinBoxHeight)
	}
}
