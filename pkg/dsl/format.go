package dsl

import (
	"fmt"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

// Format writes d in the diagram language: the title, every participant in
// column order, then every message in sequence order. Arrows are written
// with a space on each side, so ids ending in "-" or containing an arrow
// token read back unchanged. Diagrams that did not come from Parse should
// go through [Normalize] first.
func Format(d *diagram.Diagram) string {
	if d == nil {
		return ""
	}

	var sb strings.Builder
	title := d.Title
	if title == "" {
		title = diagram.DefaultTitle
	}
	fmt.Fprintf(&sb, "title: %s\n", title)

	for _, p := range d.Participants {
		if p.Label == "" || p.Label == p.ID {
			fmt.Fprintf(&sb, "participant %s\n", p.ID)
			continue
		}
		fmt.Fprintf(&sb, "participant %s as %s\n", p.ID, p.Label)
	}

	for _, m := range d.Messages {
		text := m.Text
		if m.Step != nil {
			text = strings.TrimSpace(fmt.Sprintf("%d. %s", *m.Step, text))
		}
		line := fmt.Sprintf("%s %s %s: %s", m.From, token(m), m.To, text)
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// token keeps the source token when it agrees with the style.
func token(m diagram.Message) string {
	if m.Arrow != "" && ArrowStyle(m.Arrow) == m.Style {
		return m.Arrow
	}
	if m.Style == diagram.ArrowDashed {
		return TokenDashedDouble
	}
	return TokenSolidDouble
}
