package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func newStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stake [artifact-id]",
		Short: "Show recorded stake for one artifact or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				amount, err := sess.game.StakeOf(cmd.Context(), id)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(w, types.StakeEntry{ArtifactID: id, Amount: amount})
				}
				fmt.Fprintln(w, amount)
				return nil
			}

			entries, err := sess.game.Stakes(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(w, entries)
			}
			for _, e := range entries {
				fmt.Fprintf(w, "%d\t%s\n", e.ArtifactID, e.Amount)
			}
			return nil
		},
	}
}

func newArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts",
		Short: "List every artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			arts, err := sess.game.Artifacts(cmd.Context())
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), arts)
			}
			for _, a := range arts {
				fmt.Fprintln(cmd.OutOrStdout(), describe(a))
			}
			return nil
		},
	}
}

func newHoldingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holdings [holder]",
		Short: "List the artifacts a holder owns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			holder, err := addressArg(args, 0)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			held, err := sess.game.HoldingsOf(cmd.Context(), holder)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), held)
			}
			for _, h := range held {
				fmt.Fprintln(cmd.OutOrStdout(), describe(h.Artifact))
			}
			return nil
		},
	}
}

func newContestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contests [original-id]",
		Short: "Show challenge history, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			original := types.ArtifactID(-1)
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				original = id
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			recs, err := sess.game.Contests(cmd.Context(), original)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), recs)
			}
			for _, rec := range recs {
				fmt.Fprintln(cmd.OutOrStdout(), describeContest(rec))
			}
			return nil
		},
	}
}

func newOwnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owner <artifact-id>",
		Short: "Show who holds an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			owner, err := sess.registry.OwnerOf(cmd.Context(), id)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"artifact_id": id, "owner": owner})
			}
			fmt.Fprintln(cmd.OutOrStdout(), owner)
			return nil
		},
	}
}
