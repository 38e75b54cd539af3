package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <artifact-id> <amount>",
		Short: "Add stake to an artifact you hold",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := caller()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			total, err := sess.game.Deposit(cmd.Context(), from, id, amount)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"artifact_id": id, "stake": total})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stake on %d is now %s\n", id, total)
			return nil
		},
	}
}

func newMintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mint <original-id> <fee>",
		Short: "Mint a Copy of an Original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := caller()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fee, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			cp, err := sess.game.MintCopy(cmd.Context(), from, id, fee)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), cp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Minted copy %d of original %d\n", cp.ID, id)
			return nil
		},
	}
}

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <original-id> <stake>",
		Short: "Challenge the holder of an Original",
		Long: "Stake value against the holder of an Original. The challenger wins\n" +
			"with probability stake / (stake + max(defense, min_defense)), drawn\n" +
			"from crypto/rand once the stake is pulled. Callers that already hold\n" +
			"an Original cannot challenge.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := caller()
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stake, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			rec, err := sess.game.ChallengeOriginal(cmd.Context(), from, id, stake)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			if rec.ChallengerWon {
				fmt.Fprintf(cmd.OutOrStdout(), "Won original %d from %s (p=%s)\n",
					id, rec.Defender, rec.WinProbability.StringFixed(4))
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s defended original %d (p=%s)\n",
					rec.Defender, id, rec.WinProbability.StringFixed(4))
			}
			return nil
		},
	}
}

func newVictoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "victory [holder]",
		Short: "Check whether a holder has completed the collection",
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

			won, err := sess.game.CheckVictory(cmd.Context(), holder)
			if err != nil {
				return err
			}
			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{"holder": holder, "victory": won})
			}
			if won {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has won\n", holder)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s has not completed the collection\n", holder)
			}
			return nil
		},
	}
}
