package dsl

import (
	"regexp"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

var newlineRe = regexp.MustCompile(`\s*[\r\n]+\s*`)

// reservedPrefixes start comment and fence lines.
var reservedPrefixes = []string{"%%", "#", "```"}

// Normalize rewrites the free text of d into the form the diagram language
// can carry, so that Parse(Format(d)) reproduces d. Models built by Parse
// are already normal and are left unchanged.
//
//   - the title and labels are trimmed and kept on one line
//   - label annotations are rewritten as by a participant alias
//   - message text gets the same cleanup as a message line; without an
//     explicit step a leading "<digits>. " prefix becomes the step
//   - a missing arrow token is filled from the style
//
// Participant colors are not touched; the language has no color syntax.
func Normalize(d *diagram.Diagram) {
	if d == nil {
		return
	}
	d.Title = oneLine(d.Title)
	if d.Title == "" {
		d.Title = diagram.DefaultTitle
	}

	for i := range d.Participants {
		p := &d.Participants[i]
		p.Label = rewriteAnnotations(oneLine(p.Label))
		if p.Label == "" {
			p.Label = p.ID
		}
	}

	for i := range d.Messages {
		m := &d.Messages[i]
		if m.Step != nil {
			// Format writes the step first, so a numeric prefix in the
			// text stays text.
			m.Text = collapseBreaks(oneLine(m.Text))
		} else {
			m.Text, m.Step = cleanText(oneLine(m.Text))
		}
		m.Arrow = token(*m)
	}
}

// ReservedID reports whether s starts like a comment or fence line. An id
// for which it holds cannot open a message line.
func ReservedID(s string) bool {
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func oneLine(s string) string {
	return strings.TrimSpace(newlineRe.ReplaceAllString(s, " "))
}
