package dsl

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

func TestFormatRoundTrip(t *testing.T) {
	sources := map[string]string{
		"basic": "A->>B: Hello",
		"full": `title: Checkout
participant U as User [CLI]
participant S as Shop
actor P
U->>S: 1. add item
S-->>U: 1. ok
U->S: pay<br/>now
S-->P: charge
P-->>S: 9. done
S->>S: audit`,
		"repeated steps":  "A->>B: 3. x\nB->>A: 3. y\nA->>B: 1. z",
		"late alias":      "A->>B: hi\nparticipant B as Bee",
		"title only":      "title: Nothing here",
		"arrow in id":     "participant a->b\na->b ->> x: hi",
		"id ends in dash": "A- ->> B: hi",
		"nested brackets": "participant A as [[x]] y",
		"bare step":       "A->>B: 3.\nB-->>A:",
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			first := Parse(src)
			second := Parse(Format(first))
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s\nformatted:\n%s", diff, Format(first))
			}
		})
	}
}

func TestFormatCanonicalTokens(t *testing.T) {
	d := &diagram.Diagram{
		Title:        "T",
		Participants: []diagram.Participant{{ID: "A", Label: "A"}, {ID: "B", Label: "Bee"}},
		Messages: []diagram.Message{
			{Index: 1, From: "A", To: "B", Style: diagram.ArrowSolid, Text: "x"},
			{Index: 2, From: "B", To: "A", Style: diagram.ArrowDashed, Text: "y"},
			{Index: 3, From: "B", To: "A", Style: diagram.ArrowSolid, Arrow: "-->", Text: "z"},
		},
	}

	want := `title: T
participant A
participant B as Bee
A ->> B: x
B -->> A: y
B ->> A: z
`
	if got := Format(d); got != want {
		t.Errorf("Format() mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

func TestFormatNil(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}
