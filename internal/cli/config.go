package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdraw/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit persisted preferences",
		Long: `Show and edit persisted preferences.

Keys are dotted: style.line_coloring, style.dash_pattern, metrics.row_height,
render.formats, server.addr, ... Run "seqdraw config list" for all of them.`,
	}

	cmd.AddCommand(c.configListCommand())
	cmd.AddCommand(c.configGetCommand())
	cmd.AddCommand(c.configSetCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

func (c *CLI) configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every setting with its current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			flat := cfg.Flatten()
			for _, key := range config.Keys() {
				printKeyValue(key, flat[key])
			}
			return nil
		},
	}
}

func (c *CLI) configGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one setting",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(nil)
			if err != nil {
				return err
			}
			v, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, v)
			return nil
		},
	}
}

func (c *CLI) configSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key=value>...",
		Short: "Change settings and save the config file",
		Example: `  seqdraw config set style.line_coloring=false
  seqdraw config set metrics.row_height=60 style.dash_pattern=dotted
  seqdraw config set render.formats=svg,png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			cfg, err := c.loadConfig(args)
			if err != nil {
				return err
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			printSuccess("Saved %s", plural(len(args), "setting"))
			printFile(path)
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, path)
			return nil
		},
	}
}
