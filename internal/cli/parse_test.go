package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/seqdraw/pkg/errors"
)

func TestParseCommandDSL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hi.seq", "A->>B: 2. hi")

	out, err := execute(t, "parse", path, "--format", "dsl", "--no-cache")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := "title: Sequence Diagram\nparticipant A\nparticipant B\nA ->> B: 2. hi\n"
	if out != want {
		t.Errorf("parse --format dsl =\n%s\nwant\n%s", out, want)
	}
}

func TestParseCommandQuery(t *testing.T) {
	path := writeFile(t, t.TempDir(), "login.seq", loginSource)

	out, err := execute(t, "parse", path, "--query", ".participants[].id")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if out != "\"C\"\n\"API\"\n" {
		t.Errorf("parse --query = %q", out)
	}
}

func TestParseCommandJSONInput(t *testing.T) {
	model := `{"participants": [{"id": "A"}], "messages": [{"from": "A", "to": "A", "style": "solid", "text": "tick"}]}`
	path := writeFile(t, t.TempDir(), "model.json", model)

	out, err := execute(t, "parse", path, "--format", "dsl")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if !strings.Contains(out, "A ->> A: tick") {
		t.Errorf("parse of JSON model = %q", out)
	}
}

func TestParseCommandErrors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "ok.seq", "A->>B: hi")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing file", []string{"parse", dir + "/missing.seq"}, errors.ErrCodeFileNotFound},
		{"bad format", []string{"parse", good, "--format", "svg"}, errors.ErrCodeInvalidFormat},
		{"query with dsl", []string{"parse", good, "--format", "dsl", "--query", "."}, errors.ErrCodeInvalidInput},
		{"bad query", []string{"parse", good, "--query", ".[["}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestReadInputDetectsKind(t *testing.T) {
	src, kind, err := readInput(strings.NewReader("A->>B: x"), "-", "")
	if err != nil {
		t.Fatal(err)
	}
	if src != "A->>B: x" || kind != "dsl" {
		t.Errorf("readInput(stdin) = %q, %q", src, kind)
	}

	path := writeFile(t, t.TempDir(), "m.JSON", "{}")
	if _, kind, _ := readInput(nil, path, ""); kind != "json" {
		t.Errorf("kind for .JSON = %q, want json", kind)
	}
	if _, kind, _ := readInput(nil, path, "dsl"); kind != "dsl" {
		t.Errorf("explicit kind = %q, want dsl", kind)
	}
}

func TestRunQueryMultipleResults(t *testing.T) {
	var buf bytes.Buffer
	doc := []byte(`{"messages": [{"text": "a"}, {"text": "b"}]}`)
	if err := runQuery(context.Background(), ".messages | length, .messages[0].text", doc, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "2\n\"a\"\n" {
		t.Errorf("runQuery() = %q", buf.String())
	}
}
