package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/itchyny/gojq"

	"github.com/matzehuels/seqdraw/pkg/errors"
)

// runQuery evaluates a jq expression against a JSON document and writes
// every result as indented JSON, one after another.
func runQuery(ctx context.Context, expr string, doc []byte, w io.Writer) error {
	query, err := gojq.Parse(expr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "jq parse error in %q", expr)
	}
	code, err := gojq.Compile(query, gojq.WithEnvironLoader(func() []string { return nil }))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "jq compile error in %q", expr)
	}

	var input any
	if err := json.Unmarshal(doc, &input); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	iter := code.RunWithContext(ctx, input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "jq evaluation failed for %q", expr)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}
