package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func newInitCmd() *cobra.Command {
	var holders []string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the game storage and mint the Originals",
		Long: "Create configuration and data directories, then register the Originals.\n" +
			"With --holders each listed address receives one Original in order;\n" +
			"otherwise every Original goes to the --as caller.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var to []types.Address
			for _, h := range holders {
				to = append(to, types.Address(h))
			}
			if len(to) == 0 {
				c, err := caller()
				if err != nil {
					return err
				}
				to = []types.Address{c}
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			originals, err := sess.game.Genesis(cmd.Context(), to...)
			if errors.Is(err, types.ErrAlreadyInitialized) {
				fmt.Fprintln(cmd.OutOrStdout(), "Game already initialized")
				return nil
			}
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), originals)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %d originals in %s\n",
				len(originals), sess.settings.config.DataDir)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&holders, "holders", nil, "addresses receiving Originals 0..N-1")
	return cmd
}
