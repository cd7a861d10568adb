package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/errors"
)

func TestRoundTrip(t *testing.T) {
	d := dsl.Parse("title: Login\nparticipant U as User [web]\nU->>API: login\nAPI-->>U: 2. token\nAPI->API: audit")

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONFillsDefaults(t *testing.T) {
	src := `{
  "participants": [{"id": "A"}, {"id": "B", "label": "Bee"}],
  "messages": [
    {"from": "A", "to": "B", "style": "solid", "text": "hi"},
    {"index": 7, "from": "B", "to": "A", "style": "dashed", "step": 3}
  ]
}`
	d, err := ReadJSON(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if d.Title != diagram.DefaultTitle {
		t.Errorf("title = %q, want default", d.Title)
	}
	if d.Participants[0].Label != "A" || d.Participants[1].Color != diagram.Palette[1] {
		t.Errorf("participants = %+v", d.Participants)
	}
	if d.Messages[0].Index != 1 || d.Messages[1].Index != 2 {
		t.Errorf("indices = %d, %d; want 1, 2", d.Messages[0].Index, d.Messages[1].Index)
	}
	if d.Messages[1].StepLabel() != "3" {
		t.Errorf("step = %s, want 3", d.Messages[1].StepLabel())
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"malformed", `{"participants": [`},
		{"missing messages", `{"participants": []}`},
		{"bad style", `{"participants": [{"id": "A"}], "messages": [{"from": "A", "to": "A", "style": "dotted"}]}`},
		{"unknown field", `{"participants": [], "messages": [], "extra": 1}`},
		{"id with colon", `{"participants": [{"id": "a:b"}], "messages": []}`},
		{"bad color", `{"participants": [{"id": "A", "color": "red"}], "messages": []}`},
		{"duplicate id", `{"participants": [{"id": "A"}, {"id": "A"}], "messages": []}`},
		{"comment id", `{"participants": [{"id": "#A"}], "messages": []}`},
		{"dangling endpoint", `{"participants": [{"id": "A"}], "messages": [{"from": "A", "to": "B", "style": "solid"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("ReadJSON() succeeded, want error")
			}
			if tt.name != "malformed" && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %q, want INVALID_INPUT (%v)", errors.GetCode(err), err)
			}
		})
	}
}

func TestReadJSONFormatsBack(t *testing.T) {
	docs := map[string]string{
		"annotated label": `{"participants": [{"id": "A", "label": "Client [x]"}], "messages": []}`,
		"step without text": `{"participants": [{"id": "A"}, {"id": "B"}],
  "messages": [{"from": "A", "to": "B", "style": "dashed", "step": 3}]}`,
		"multi-line text": `{"title": "Two\nlines", "participants": [{"id": "A", "label": "a\nb"}],
  "messages": [{"from": "A", "to": "A", "style": "solid", "text": "x\r\ny<br>z"}]}`,
		"numeric text": `{"participants": [{"id": "A"}], "messages": [{"from": "A", "to": "A", "style": "solid", "text": "5. go"}]}`,
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			d, err := ReadJSON(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("ReadJSON: %v", err)
			}
			if diff := cmp.Diff(d, dsl.Parse(dsl.Format(d))); diff != "" {
				t.Errorf("format round trip mismatch (-imported +parsed):\n%s\nformatted:\n%s", diff, dsl.Format(d))
			}
		})
	}
}

func TestImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	d := dsl.Parse("A->>B: x")
	if err := ExportJSON(d, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if diff := cmp.Diff(d, got); diff != "" {
		t.Errorf("file round trip mismatch:\n%s", diff)
	}

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		t.Errorf("exported file missing: %v", statErr)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(nil, &buf); err != nil {
		t.Fatalf("WriteJSON(nil): %v", err)
	}
	if !strings.Contains(buf.String(), `"participants": []`) {
		t.Errorf("empty export = %s", buf.String())
	}
	if _, err := ReadJSON(&buf); err != nil {
		t.Errorf("empty export does not re-import: %v", err)
	}
}
