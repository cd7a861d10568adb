package dsl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

// maxLineBytes bounds a single source line for ParseReader.
const maxLineBytes = 1 << 20

// Parse parses a whole document. It never fails: unrecognized lines are
// dropped.
func Parse(src string) *diagram.Diagram {
	lines := strings.Split(src, "\n")
	classified := make([]Line, len(lines))
	for i, l := range lines {
		classified[i] = Classify(l)
	}
	return Build(classified)
}

// ParseReader reads r to EOF and parses it. The only possible errors are
// read errors from r.
func ParseReader(r io.Reader) (*diagram.Diagram, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var classified []Line
	for sc.Scan() {
		classified = append(classified, Classify(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return Build(classified), nil
}

// Build folds classified lines, in order, into a diagram.
func Build(lines []Line) *diagram.Diagram {
	b := newBuilder()
	for _, l := range lines {
		b.apply(l)
	}
	return b.diagram()
}

// builder is the accumulator threaded through the fold.
type builder struct {
	title        string
	participants []diagram.Participant
	columns      map[string]int
	messages     []diagram.Message
}

func newBuilder() *builder {
	return &builder{
		title:   diagram.DefaultTitle,
		columns: make(map[string]int),
	}
}

func (b *builder) apply(l Line) {
	switch l := l.(type) {
	case Title:
		// Last non-empty title wins.
		if l.Text != "" {
			b.title = l.Text
		}
	case ParticipantDecl:
		col := b.register(l.ID)
		if l.HasAlias {
			b.participants[col].Label = l.Label
		}
	case MessageStmt:
		b.register(l.From)
		b.register(l.To)
		b.messages = append(b.messages, diagram.Message{
			Index: len(b.messages) + 1,
			From:  l.From,
			To:    l.To,
			Style: l.Style(),
			Arrow: l.Arrow,
			Text:  l.Text,
			Step:  l.Step,
		})
	}
}

// register adds id on first sight and returns its column. Column and color
// are fixed by the first appearance.
func (b *builder) register(id string) int {
	if col, ok := b.columns[id]; ok {
		return col
	}
	col := len(b.participants)
	idx, color := diagram.ColorFor(col)
	b.participants = append(b.participants, diagram.Participant{
		ID:         id,
		Label:      id,
		Color:      color,
		ColorIndex: idx,
	})
	b.columns[id] = col
	return col
}

func (b *builder) diagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Title:        b.title,
		Participants: make([]diagram.Participant, len(b.participants)),
		Messages:     make([]diagram.Message, len(b.messages)),
	}
	copy(d.Participants, b.participants)
	copy(d.Messages, b.messages)
	return d
}
