package diagram

import "strconv"

// DefaultTitle is used when the source text has no title directive.
const DefaultTitle = "Sequence Diagram"

// ArrowStyle distinguishes call arrows from return arrows.
// It is the only semantically parsed part of an arrow token.
type ArrowStyle string

const (
	// ArrowSolid draws a solid line with a filled head (call semantics by convention).
	ArrowSolid ArrowStyle = "solid"
	// ArrowDashed draws a dashed line with an open head (return semantics by convention).
	ArrowDashed ArrowStyle = "dashed"
)

// Participant is one column of the diagram.
type Participant struct {
	ID         string `json:"id" bson:"id"`
	Label      string `json:"label" bson:"label"`
	Color      string `json:"color" bson:"color"`
	ColorIndex int    `json:"color_index" bson:"color_index"`
}

// Message is one row of the diagram.
type Message struct {
	Index int        `json:"index" bson:"index"`
	From  string     `json:"from" bson:"from"`
	To    string     `json:"to" bson:"to"`
	Style ArrowStyle `json:"style" bson:"style"`
	// Arrow is the literal token from the source (e.g. "->>"). It carries
	// no meaning beyond Style and is kept for faithful re-serialization.
	Arrow string `json:"arrow,omitempty" bson:"arrow,omitempty"`
	Text  string `json:"text" bson:"text"`
	// Step is the explicit display step ("3. Done" => 3), nil when absent.
	Step *int `json:"step,omitempty" bson:"step,omitempty"`
}

// IsSelf reports whether the message loops back to its own sender.
func (m Message) IsSelf() bool { return m.From == m.To }

// Numeral returns the step number shown for the message: the explicit
// display step when present, otherwise the sequence index.
func (m Message) Numeral() int {
	if m.Step != nil {
		return *m.Step
	}
	return m.Index
}

// StepLabel is Numeral formatted for display.
func (m Message) StepLabel() string { return strconv.Itoa(m.Numeral()) }

// Diagram is a parsed sequence diagram.
type Diagram struct {
	Title        string        `json:"title" bson:"title"`
	Participants []Participant `json:"participants" bson:"participants"`
	Messages     []Message     `json:"messages" bson:"messages"`
}

// IsEmpty reports whether there is nothing to draw.
func (d *Diagram) IsEmpty() bool { return d == nil || len(d.Participants) == 0 }

// Participant looks up a participant by id.
func (d *Diagram) Participant(id string) (Participant, bool) {
	for _, p := range d.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ColumnIndex returns the display column of a participant, or -1.
func (d *Diagram) ColumnIndex(id string) int {
	for i, p := range d.Participants {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ParticipantIDs returns participant ids in column order.
func (d *Diagram) ParticipantIDs() []string {
	ids := make([]string, len(d.Participants))
	for i, p := range d.Participants {
		ids[i] = p.ID
	}
	return ids
}
