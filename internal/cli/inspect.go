package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/pkg/errors"
	"github.com/matzehuels/seqdraw/pkg/pipeline"
)

func (c *CLI) inspectCommand() *cobra.Command {
	var (
		step  int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Step through a diagram's messages in the terminal",
		Long: `Step through a diagram's messages in the terminal.

Arrow keys move the current step. With --plain the message table is printed
once, which is what you want when the output is not a terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], step, plain)
		},
	}

	cmd.Flags().IntVar(&step, "step", 1, "sequence index to start on")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the table once instead of starting the browser")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, path string, step int, plain bool) error {
	logger := loggerFromContext(ctx)
	if path == "-" {
		return errors.New(errors.ErrCodeInvalidInput, "inspect reads the terminal; pass a file instead of stdin")
	}
	src, input, err := readInput(nil, path, "")
	if err != nil {
		return err
	}
	runner, err := c.newRunner(false)
	if err != nil {
		return err
	}
	defer runner.Close()

	d, err := runner.Parse(ctx, pipeline.Options{Source: src, Input: input, Logger: logger})
	if err != nil {
		return err
	}

	model := NewStepModel(d, step)
	if plain {
		model.Offset, model.Height = 0, max(len(d.Messages), 1)
		fmt.Fprintln(stdout, model.View())
		return nil
	}
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
