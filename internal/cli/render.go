package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

// renderOpts holds the flags of the render command. Zero values defer to
// the config file.
type renderOpts struct {
	output      string   // output file (one input, one format) or directory
	formats     string   // comma-separated formats
	vizType     string   // sequence or nodelink
	sets        []string // key=value config overrides
	highlight   int      // step to highlight (svg, png, pdf)
	scale       float64  // png scale factor
	interactive bool     // embed hover CSS/JS
	transparent bool     // omit the background rectangle
	detailed    bool     // nodelink: message text on edges
	collapse    bool     // nodelink: one edge per participant pair
	noCache     bool
	refresh     bool
	jobs        int
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render <file>...",
		Short: "Render diagrams to SVG, JSON, PNG, PDF, DSL or DOT",
		Long: `Render one or more diagrams.

Output files are named after their inputs: login.seq renders to login.svg
next to the input, or inside the directory given with -o. With a single
input and a single format, -o may name the output file directly. Several
inputs are rendered concurrently.

Style and layout settings come from the config file and can be overridden
per run with --set, e.g. --set style.line_coloring=false.

Examples:
  seqdraw render login.seq
  seqdraw render flows/*.seq -o out -f svg,png
  seqdraw render login.seq --viz nodelink -f dot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.renderPipelineOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args, popts, opts)
		},
	}

	addRenderFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files rendered concurrently")

	return cmd
}

// addRenderFlags registers the flags shared by render and watch.
func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (one input and format) or directory")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, json, png, pdf, dsl (sequence); svg, png, pdf, dot (nodelink)")
	f.StringVarP(&opts.vizType, "viz", "t", "", "visualization type: sequence, nodelink")
	f.StringArrayVar(&opts.sets, "set", nil, "override a config key for this run (key=value, repeatable)")
	f.IntVar(&opts.highlight, "highlight", 0, "dim every message except this sequence index")
	f.Float64Var(&opts.scale, "scale", 0, "PNG scale factor")
	f.BoolVar(&opts.interactive, "interactive", false, "embed hover highlighting in SVG output")
	f.BoolVar(&opts.transparent, "transparent", false, "omit the white background")
	f.BoolVar(&opts.detailed, "detailed", false, "label nodelink edges with message text")
	f.BoolVar(&opts.collapse, "collapse", false, "draw one nodelink edge per participant pair")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
}

// renderPipelineOptions layers the command flags over the config file.
// Flags left at their defaults do not override config values.
func (c *CLI) renderPipelineOptions(cmd *cobra.Command, ro renderOpts) (pipeline.Options, error) {
	cfg, err := c.loadConfig(ro.sets)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := cfg.PipelineOptions()

	flags := cmd.Flags()
	if flags.Changed("viz") {
		opts.VizType = ro.vizType
	}
	if flags.Changed("format") {
		opts.Formats = parseFormats(ro.formats)
	}
	if flags.Changed("scale") {
		opts.Scale = ro.scale
	}
	if flags.Changed("interactive") {
		opts.Interactive = ro.interactive
	}
	opts.Highlight = ro.highlight
	opts.Transparent = ro.transparent
	opts.Detailed = ro.detailed
	opts.Collapse = ro.collapse
	opts.Refresh = ro.refresh
	opts.Logger = c.Logger

	check := opts
	if err := check.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, err
	}
	opts.VizType, opts.Formats = check.VizType, check.Formats
	return opts, nil
}

// fileResult summarizes one rendered input.
type fileResult struct {
	input        string
	files        []string
	participants int
	messages     int
	cached       bool
	empty        bool
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, inputs []string, opts pipeline.Options, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	plan, err := planOutputs(inputs, opts.VizType, opts.Formats, ro.output)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", plural(len(inputs), "diagram")))
	spinner.Start()

	results := make([]fileResult, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(ro.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			res, err := renderFile(gctx, runner, stdin, input, opts, plan[input])
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(input), err)
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, res := range results {
		printSuccess("Rendered %s", StyleHighlight.Render(displayName(res.input)))
		printStats(res.participants, res.messages, res.cached)
		if res.empty {
			printWarning("nothing to draw: %s has no participants", displayName(res.input))
		}
		for _, f := range res.files {
			printFile(f)
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(inputs), "diagram")))
	if len(inputs) == 1 && opts.VizType == pipeline.VizTypeSequence {
		printNextStep("Step through it", "seqdraw inspect "+inputs[0])
	}
	return nil
}

// renderFile runs the pipeline for one input and writes every artifact to
// the paths in dest, keyed by format.
func renderFile(ctx context.Context, runner *pipeline.Runner, stdin io.Reader, input string, opts pipeline.Options, dest map[string]string) (fileResult, error) {
	src, kind, err := readInput(stdin, input, "")
	if err != nil {
		return fileResult{}, err
	}
	opts.Source = src
	opts.Input = kind

	res, err := runner.Execute(ctx, opts)
	if err != nil {
		return fileResult{}, err
	}

	out := fileResult{
		input:        input,
		participants: res.Stats.Participants,
		messages:     res.Stats.Messages,
		cached:       res.CacheInfo.RenderHit,
		empty:        res.Stats.Participants == 0,
	}
	for _, format := range opts.Formats {
		path := dest[format]
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fileResult{}, fmt.Errorf("write %s: %w", path, err)
		}
		out.files = append(out.files, path)
	}
	return out, nil
}

// planOutputs assigns an output path to every (input, format) pair.
//
// With one input, one format and an -o that is not an existing directory,
// -o is the file. Otherwise files are named after their inputs and placed
// in -o (created if needed) or next to each input.
func planOutputs(inputs []string, vizType string, formats []string, output string) (map[string]map[string]string, error) {
	plan := make(map[string]map[string]string, len(inputs))

	if len(inputs) == 1 && len(formats) == 1 && output != "" && !isDir(output) {
		plan[inputs[0]] = map[string]string{formats[0]: output}
		return plan, nil
	}
	if output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	owner := map[string]string{}
	for _, input := range inputs {
		if _, dup := plan[input]; dup {
			return nil, errors.New(errors.ErrCodeInvalidInput, "input %s given twice", displayName(input))
		}
		plan[input] = make(map[string]string, len(formats))
		for _, format := range formats {
			name := outputName(input, vizType, format)
			if err := errors.ValidatePath(name); err != nil {
				return nil, err
			}
			dir := output
			if dir == "" && input != "-" {
				dir = filepath.Dir(input)
			}
			path := filepath.Join(dir, name)
			if input != "-" && path == filepath.Clean(input) {
				return nil, errors.New(errors.ErrCodeInvalidPath, "%s would overwrite its input", path)
			}
			if prev, ok := owner[path]; ok {
				return nil, errors.New(errors.ErrCodeInvalidInput, "%s and %s both render to %s", displayName(prev), displayName(input), path)
			}
			owner[path] = input
			plan[input][format] = path
		}
	}
	return plan, nil
}

// outputName derives "login.svg" from "flows/login.seq". Node-link output
// gets a "_nodelink" suffix so both views can sit side by side.
func outputName(input, vizType, format string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if input == "-" || base == "" || base == "." {
		base = "diagram"
	}
	if vizType == pipeline.VizTypeNodelink {
		base += "_nodelink"
	}
	if format == pipeline.FormatDSL {
		return base + ".seq"
	}
	return base + "." + format
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
