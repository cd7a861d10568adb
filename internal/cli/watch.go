package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

// watchDebounce collapses the burst of events editors emit for one save.
const watchDebounce = 150 * time.Millisecond

func (c *CLI) watchCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render a diagram every time it is saved",
		Long: `Re-render a diagram every time it is saved.

Takes the same flags as render. Errors are reported and watching continues;
press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.renderPipelineOptions(cmd, opts)
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], popts, opts)
		},
	}

	addRenderFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	logger := loggerFromContext(ctx)

	plan, err := planOutputs([]string{input}, opts.VizType, opts.Formats, ro.output)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	render := func(ctx context.Context) {
		prog := newProgress(logger)
		res, err := renderFile(ctx, runner, nil, input, opts, plan[input])
		if err != nil {
			printError("%s: %v", input, err)
			return
		}
		prog.done(fmt.Sprintf("Rendered %s", input))
		printStats(res.participants, res.messages, res.cached)
	}

	render(ctx)
	printInfo("Watching %s %s", StyleHighlight.Render(input), StyleDim.Render("(Ctrl+C to stop)"))
	err = watchFile(ctx, input, watchDebounce, render)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// watchFile calls onChange after path is written, created or renamed into
// place, at most once per debounce window. The parent directory is watched
// so that editors that save by replacing the file are seen too. It returns
// when ctx is done.
func watchFile(ctx context.Context, path string, debounce time.Duration, onChange func(context.Context)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	logger := loggerFromContext(ctx)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || name != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", "path", path, "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer.C:
			onChange(ctx)
		}
	}
}
