package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/pkg/diagram"
	"github.com/matzehuels/seqdraw/pkg/dsl"
	"github.com/matzehuels/seqdraw/pkg/errors"
	seqio "github.com/matzehuels/seqdraw/pkg/io"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

// parseOpts holds the flags of the parse command.
type parseOpts struct {
	input   string // "dsl", "json" or "" to detect from the extension
	format  string // "json" or "dsl"
	query   string // jq filter applied to the JSON model
	output  string // output file (stdout if empty)
	noCache bool
}

func (c *CLI) parseCommand() *cobra.Command {
	opts := parseOpts{format: pipeline.FormatJSON}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a diagram and print its model",
		Long: `Parse a diagram and print its model.

The input is DSL source, or model JSON when the file ends in .json. With no
file (or "-") the source is read from stdin. The model is printed as JSON,
or as canonical DSL with --format dsl.

Examples:
  seqdraw parse login.seq
  seqdraw parse login.seq --format dsl
  seqdraw parse login.seq --query '.participants[].id'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runParse(cmd.Context(), cmd.InOrStdin(), path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "input kind: dsl, json (default: from file extension)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, dsl")
	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "jq filter applied to the JSON model")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runParse(ctx context.Context, stdin io.Reader, path string, opts parseOpts) error {
	if opts.format != pipeline.FormatJSON && opts.format != pipeline.FormatDSL {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be json or dsl)", opts.format)
	}
	if opts.query != "" && opts.format != pipeline.FormatJSON {
		return errors.New(errors.ErrCodeInvalidInput, "--query needs --format json")
	}

	logger := loggerFromContext(ctx)
	src, input, err := readInput(stdin, path, opts.input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	d, hit, err := runner.ParseWithCacheInfo(ctx, pipeline.Options{Source: src, Input: input, Logger: logger})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %s", displayName(path)))
	logger.Debug("parse result", "participants", len(d.Participants), "messages", len(d.Messages), "cached", hit)

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := writeModel(ctx, out, d, opts); err != nil {
		return err
	}
	if opts.output != "" {
		logger.Infof("Wrote model to %s", opts.output)
	}
	return nil
}

func writeModel(ctx context.Context, w io.Writer, d *diagram.Diagram, opts parseOpts) error {
	if opts.format == pipeline.FormatDSL {
		_, err := io.WriteString(w, dsl.Format(d))
		return err
	}
	if opts.query == "" {
		return seqio.WriteJSON(d, w)
	}
	var buf bytes.Buffer
	if err := seqio.WriteJSON(d, &buf); err != nil {
		return err
	}
	return runQuery(ctx, opts.query, buf.Bytes(), w)
}

// readInput reads path (stdin for "" or "-") and decides the input kind.
// An explicit kind wins; otherwise a .json extension selects JSON.
func readInput(stdin io.Reader, path, kind string) (src, input string, err error) {
	var data []byte
	if path == "" || path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, errors.MaxSourceBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if os.IsNotExist(err) {
		return "", "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", displayName(path), err)
	}

	input = kind
	if input == "" {
		input = pipeline.InputDSL
		if strings.EqualFold(filepath.Ext(path), ".json") {
			input = pipeline.InputJSON
		}
	}
	return string(data), input, nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout for an empty path, otherwise creates the file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}
