package dsl

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

func intPtr(n int) *int { return &n }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Line
	}{
		{"empty", "", Skip{}},
		{"whitespace", "   \t", Skip{}},
		{"percent comment", "%% a comment", Skip{}},
		{"hash comment", "# note", Skip{}},
		{"fence", "```mermaid", Skip{}},
		{"closing fence", "```", Skip{}},
		{"directive", "sequenceDiagram", Skip{}},
		{"autonumber", "  autonumber  ", Skip{}},
		{"title", "title: Checkout", Title{Text: "Checkout"}},
		{"title case insensitive", "TITLE:   Login flow  ", Title{Text: "Login flow"}},
		{"participant", "participant A", ParticipantDecl{ID: "A"}},
		{"participant alias", "participant U as User", ParticipantDecl{ID: "U", Label: "User", HasAlias: true}},
		{"participant annotation", "participant C as Client [CLI]", ParticipantDecl{ID: "C", Label: "Client (CLI)", HasAlias: true}},
		{"participant dangling as", "participant U as", ParticipantDecl{ID: "U"}},
		{"participant nested annotation", "participant C as [[x]]", ParticipantDecl{ID: "C", Label: "((x))", HasAlias: true}},
		{"actor", "actor Bob as Robert", ParticipantDecl{ID: "Bob", Label: "Robert", HasAlias: true}},
		{
			"solid double",
			"A->>B: Hello",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: " Hello", Text: "Hello"},
		},
		{
			"dashed double with step",
			"A-->>B: 3. Done",
			MessageStmt{From: "A", To: "B", Arrow: "-->>", RawText: " 3. Done", Text: "Done", Step: intPtr(3)},
		},
		{
			"single heads and spaces",
			"web-app -> db : query",
			MessageStmt{From: "web-app", To: "db", Arrow: "->", RawText: " query", Text: "query"},
		},
		{
			"dashed single",
			"db-->web-app: rows",
			MessageStmt{From: "db", To: "web-app", Arrow: "-->", RawText: " rows", Text: "rows"},
		},
		{
			"line breaks",
			"A->>B: first<br/>second <BR> third\\nfourth",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: " first<br/>second <BR> third\\nfourth", Text: "first second third fourth"},
		},
		{
			"colon in text",
			"A->>B: GET http://x",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: " GET http://x", Text: "GET http://x"},
		},
		{
			"no space after step dot",
			"A->>B: 2.5 seconds",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: " 2.5 seconds", Text: "2.5 seconds"},
		},
		{
			"bare step",
			"A->>B: 4.",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: " 4.", Text: "", Step: intPtr(4)},
		},
		{
			"dash ending id",
			"A- ->> B: hi",
			MessageStmt{From: "A-", To: "B", Arrow: "->>", RawText: " hi", Text: "hi"},
		},
		{
			"empty text",
			"A->>B:",
			MessageStmt{From: "A", To: "B", Arrow: "->>", RawText: "", Text: ""},
		},
		{"missing colon", "A->>B Hello", Unrecognized{Raw: "A->>B Hello"}},
		{"garbage", "loop every minute", Unrecognized{Raw: "loop every minute"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.line)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestArrowStyle(t *testing.T) {
	tests := map[string]diagram.ArrowStyle{
		TokenSolid:        diagram.ArrowSolid,
		TokenSolidDouble:  diagram.ArrowSolid,
		TokenDashed:       diagram.ArrowDashed,
		TokenDashedDouble: diagram.ArrowDashed,
	}
	for token, want := range tests {
		if got := ArrowStyle(token); got != want {
			t.Errorf("ArrowStyle(%q) = %s, want %s", token, got, want)
		}
	}
}

func TestCleanTextOverflowingStep(t *testing.T) {
	text, step := cleanText("99999999999999999999999. big")
	if step != nil {
		t.Errorf("step = %d, want nil for overflowing prefix", *step)
	}
	if text != "99999999999999999999999. big" {
		t.Errorf("text = %q, want prefix kept", text)
	}
}
