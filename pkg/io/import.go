package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/errors"
)

// ReadJSON decodes a JSON diagram model from r.
//
// The document is first validated against [DiagramSchema], then checked
// for the structural rules a schema cannot express:
//   - participant ids are unique
//   - every message endpoint names a listed participant
//
// Missing labels default to the id, missing colors are assigned from the
// palette by column, and message indices are renumbered 1..N in list
// order, so a hand-written document only needs ids, endpoints and styles.
// Free text is then passed through [dsl.Normalize], so an imported model
// formats to DSL and parses back to itself, custom colors aside.
// Validation failures carry [errors.ErrCodeInvalidInput].
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := validateDocument(data); err != nil {
		v := violations(err)
		if len(v) == 1 {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid diagram: %s", v[0])
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid diagram: %d errors:\n  %s", len(v), strings.Join(v, "\n  "))
	}

	var d diagram.Diagram
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := normalize(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func normalize(d *diagram.Diagram) error {
	seen := make(map[string]bool, len(d.Participants))
	for i := range d.Participants {
		p := &d.Participants[i]
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate participant id %q", p.ID)
		}
		if dsl.ReservedID(p.ID) {
			return errors.New(errors.ErrCodeInvalidInput, "participant id %q starts like a comment", p.ID)
		}
		seen[p.ID] = true
		if p.Color == "" {
			p.ColorIndex, p.Color = diagram.ColorFor(i)
		}
	}

	for i := range d.Messages {
		m := &d.Messages[i]
		for _, end := range []string{m.From, m.To} {
			if !seen[end] {
				return errors.New(errors.ErrCodeInvalidInput, "message %d references unknown participant %q", i+1, end)
			}
		}
		m.Index = i + 1
	}
	dsl.Normalize(d)
	return nil
}

// ImportJSON reads a JSON file at path and returns the decoded diagram.
// A missing file is reported with [errors.ErrCodeFileNotFound].
func ImportJSON(path string) (*diagram.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
