package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/file2html/internal/interactive"
)

// NewInteractiveCommand creates the cobra command for the prompt-driven flow.
func NewInteractiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Build the conversion configuration through prompts",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := interactive.Resolve()
			if err != nil {
				return err
			}

			return run(cfg)
		},
	}
}
