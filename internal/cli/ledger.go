package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/pkg/types"
)

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the local value ledger",
	}
	cmd.AddCommand(newFundCmd(), newApproveCmd(), newBalanceCmd())
	return cmd
}

func newFundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fund <address> <amount>",
		Short: "Credit an address with value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to := types.Address(args[0])
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.ledger.Fund(cmd.Context(), to, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Funded %s with %s\n", to, amount)
			return nil
		},
	}
}

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <amount>",
		Short: "Set how much the game may pull from the --as caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := caller()
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.ledger.Approve(cmd.Context(), owner, amount); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s approved %s\n", owner, amount)
			return nil
		},
	}
}

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Show balance and allowance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := addressArg(args, 0)
			if err != nil {
				return err
			}

			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			ctx := cmd.Context()
			balance, err := sess.ledger.BalanceOf(ctx, addr)
			if err != nil {
				return err
			}
			allowance, err := sess.ledger.Allowance(ctx, addr)
			if err != nil {
				return err
			}
			reserve, err := sess.ledger.Reserve(ctx)
			if err != nil {
				return err
			}

			if flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"address":   addr,
					"balance":   balance,
					"allowance": allowance,
					"reserve":   reserve,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tbalance %s\tallowance %s\n", addr, balance, allowance)
			fmt.Fprintf(cmd.OutOrStdout(), "game reserve %s\n", reserve)
			return nil
		},
	}
}
