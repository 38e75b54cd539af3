package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/pkg/poneglyph"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the poneglyph version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "poneglyph v%s\nmodule: %s\n", poneglyph.Version, poneglyph.ModulePath)
			return nil
		},
	}
}
