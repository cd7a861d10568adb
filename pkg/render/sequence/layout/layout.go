package layout

import (
	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/render/sequence/styles"
)

// Point is a position in layout units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterX returns the horizontal center of the box.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical center of the box.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Text is a positioned string. Y is the vertical center of the glyphs.
type Text struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Content string  `json:"content"`
	Color   string  `json:"color"`
	Size    float64 `json:"size"`
	// Anchor is the SVG text-anchor value: "start" or "middle".
	Anchor string `json:"anchor"`
}

// Column is one participant: two boxes joined by a lifeline.
type Column struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Color     string  `json:"color"`
	X         float64 `json:"x"`
	Top       Rect    `json:"top"`
	Bottom    Rect    `json:"bottom"`
	LineColor string  `json:"line_color"`
}

// Head is an arrowhead. Filled heads are closed triangles, open heads
// are chevrons.
type Head struct {
	Points []Point `json:"points"`
	Filled bool    `json:"filled"`
}

// Label is a message caption with an optional rounded pill behind it.
type Label struct {
	Text      Text   `json:"text"`
	Pill      *Rect  `json:"pill,omitempty"`
	PillColor string `json:"pill_color,omitempty"`
}

// Marker is a numbered step indicator. An empty Fill means the numeral
// is drawn without a circle.
type Marker struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill,omitempty"`
	Text   Text    `json:"text"`
}

// Row is one positioned message.
type Row struct {
	Index   int                `json:"index"`
	Numeral string             `json:"numeral"`
	From    string             `json:"from"`
	To      string             `json:"to"`
	Style   diagram.ArrowStyle `json:"style"`
	Self    bool               `json:"self"`
	Y       float64            `json:"y"`
	Color   string             `json:"color"`
	// Path is the stroked line: two points for a cross message, four for
	// a self loop.
	Path []Point `json:"path"`
	// Direction is +1 when the arrow points right, -1 when it points left.
	Direction int   `json:"direction"`
	Head      Head  `json:"head"`
	Label     Label `json:"label"`
	// Markers holds the lifeline marker followed by the gutter marker.
	Markers [2]Marker `json:"markers"`
}

// Layout is the fully positioned diagram. The zero value is the empty
// layout and renders to nothing.
type Layout struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	FontFamily string      `json:"font_family,omitempty"`
	FontSize   float64     `json:"font_size,omitempty"`
	Dash       styles.Dash `json:"dash"`
	Title      Text        `json:"title"`
	Columns    []Column    `json:"columns"`
	Rows       []Row       `json:"rows"`
}

// IsEmpty reports whether there is nothing to draw.
func (l Layout) IsEmpty() bool { return len(l.Columns) == 0 }

// Column returns the column for a participant id.
func (l Layout) Column(id string) (Column, bool) {
	for _, c := range l.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}
