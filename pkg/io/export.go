package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/seqdraw/pkg/diagram"
)

// WriteJSON encodes a diagram as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(d *diagram.Diagram, w io.Writer) error {
	if d == nil {
		d = &diagram.Diagram{}
	}
	out := *d
	if out.Participants == nil {
		out.Participants = []diagram.Participant{}
	}
	if out.Messages == nil {
		out.Messages = []diagram.Message{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a diagram to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *diagram.Diagram, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
