package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/nloeffler/chaosgame/pkg/pipeline"
)

// presetsCommand creates the presets command for inspecting the embedded
// configurations.
func (c *CLI) presetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the embedded preset configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listPresets()
		},
	}

	cmd.AddCommand(c.presetsShowCommand())
	return cmd
}

// presetsShowCommand creates the presets show subcommand. The output is a
// valid config file, so a preset can be dumped, edited, and run:
//
//	chaosgame presets show hexweb > mine.toml
//	chaosgame run --config mine.toml
func (c *CLI) presetsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a preset as a TOML config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := pipeline.LoadPreset(args[0])
			if err != nil {
				return err
			}
			return toml.NewEncoder(os.Stdout).Encode(opts)
		},
	}
}

func listPresets() error {
	for _, name := range pipeline.Presets() {
		opts, err := pipeline.LoadPreset(name)
		if err != nil {
			return err
		}
		fmt.Println(StyleTitle.Render(name) + "  " + StyleDim.Render(presetSummary(opts)))
		if opts.Description != "" {
			printDetail("%s", opts.Description)
		}
	}

	printNewline()
	printNextStep("Run one", appName+" run --preset sierpinski")
	return nil
}

// presetSummary condenses a preset's shape into one line.
func presetSummary(opts pipeline.Options) string {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Sprintf("invalid: %v", err)
	}
	return fmt.Sprintf("%d targets · %s/%s · %d points · %s",
		opts.NumTargets, opts.Selector, opts.Picker, opts.Points, opts.Quality)
}
