package dsl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

// Line is the classification of one source line. The concrete type is one
// of [Skip], [Title], [ParticipantDecl], [MessageStmt] or [Unrecognized].
type Line interface {
	line()
}

// Skip is a blank line, comment, fence or no-op directive.
type Skip struct{}

// Title sets the diagram title.
type Title struct {
	Text string
}

// ParticipantDecl declares a participant, optionally with a display label.
type ParticipantDecl struct {
	ID string
	// Label is the post-processed alias. Empty when HasAlias is false.
	Label    string
	HasAlias bool
}

// MessageStmt is a message between two participants.
type MessageStmt struct {
	From    string
	To      string
	Arrow   string
	RawText string
	// Text is RawText with line breaks collapsed, step prefix removed and trimmed.
	Text string
	Step *int
}

// Style reports the arrow style encoded by the token's dash prefix.
func (m MessageStmt) Style() diagram.ArrowStyle { return ArrowStyle(m.Arrow) }

// Unrecognized is a line no rule matched. It is ignored by the builder.
type Unrecognized struct {
	Raw string
}

func (Skip) line()            {}
func (Title) line()           {}
func (ParticipantDecl) line() {}
func (MessageStmt) line()     {}
func (Unrecognized) line()    {}

// Arrow tokens, longest first so alternation prefers them.
const (
	TokenDashedDouble = "-->>"
	TokenSolidDouble  = "->>"
	TokenDashed       = "-->"
	TokenSolid        = "->"
)

var (
	titleRe       = regexp.MustCompile(`(?i)^title:(.*)$`)
	participantRe = regexp.MustCompile(`^(?:participant|actor)\s+(\S+)(?:\s+as(?:\s+(.*))?)?$`)
	messageRe     = regexp.MustCompile(`^([^\s:]+?)\s*(-->>|->>|-->|->)\s*([^\s:]+)\s*:(.*)$`)
	annotationRe  = regexp.MustCompile(`\[([^\[\]]*)\]`)
	lineBreakRe   = regexp.MustCompile(`(?i)\s*(?:<br\s*/?>|\\n)\s*`)
	stepPrefixRe  = regexp.MustCompile(`^(\d+)\.(?:\s+|$)`)
)

// skipDirectives are whole-line keywords that carry no information.
var skipDirectives = map[string]bool{
	"sequenceDiagram": true,
	"autonumber":      true,
	"@startuml":       true,
	"@enduml":         true,
	"end":             true,
}

type rule func(line string) (Line, bool)

// rules are tried in order; the first match wins.
var rules = []rule{
	matchSkip,
	matchTitle,
	matchParticipant,
	matchMessage,
}

// Classify classifies a single source line. Surrounding whitespace is
// ignored. Classify has no side effects.
func Classify(line string) Line {
	line = strings.TrimSpace(line)
	for _, r := range rules {
		if l, ok := r(line); ok {
			return l
		}
	}
	return Unrecognized{Raw: line}
}

func matchSkip(line string) (Line, bool) {
	switch {
	case line == "":
		return Skip{}, true
	case ReservedID(line):
		return Skip{}, true
	case skipDirectives[line]:
		return Skip{}, true
	}
	return nil, false
}

func matchTitle(line string) (Line, bool) {
	m := titleRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Title{Text: strings.TrimSpace(m[1])}, true
}

func matchParticipant(line string) (Line, bool) {
	m := participantRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	decl := ParticipantDecl{ID: m[1]}
	if label := rewriteAnnotations(strings.TrimSpace(m[2])); label != "" {
		decl.Label = label
		decl.HasAlias = true
	}
	return decl, true
}

func matchMessage(line string) (Line, bool) {
	m := messageRe.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	text, step := cleanText(m[4])
	return MessageStmt{
		From:    m[1],
		Arrow:   m[2],
		To:      m[3],
		RawText: m[4],
		Text:    text,
		Step:    step,
	}, true
}

// rewriteAnnotations renders "[CLI]" as "(CLI)". Nested brackets are
// rewritten from the inside out.
func rewriteAnnotations(label string) string {
	for annotationRe.MatchString(label) {
		label = annotationRe.ReplaceAllString(label, "($1)")
	}
	return label
}

// cleanText collapses line-break markup, extracts a leading "<digits>. "
// display step and trims the result. A bare "<digits>." is a step with no
// text.
func cleanText(raw string) (string, *int) {
	text := collapseBreaks(raw)
	var step *int
	if m := stepPrefixRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			step = &n
			text = text[len(m[0]):]
		}
	}
	return strings.TrimSpace(text), step
}

func collapseBreaks(raw string) string {
	return strings.TrimSpace(lineBreakRe.ReplaceAllString(raw, " "))
}

// ArrowStyle maps an arrow token to its style.
func ArrowStyle(token string) diagram.ArrowStyle {
	if strings.HasPrefix(token, "--") {
		return diagram.ArrowDashed
	}
	return diagram.ArrowSolid
}
