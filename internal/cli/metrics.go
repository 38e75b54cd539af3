package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/poneglyph/internal/metrics"
)

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print game metrics in the prometheus text format",
		Long: "Print the counter totals recorded by every command run against the\n" +
			"data dir, plus the current stake of each artifact.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			totals, err := sess.counters.All(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := sess.game.Stakes(cmd.Context())
			if err != nil {
				return err
			}

			out := metrics.New()
			if err := out.AddCounters(totals); err != nil {
				return err
			}
			out.ObserveStakes(entries)
			return out.WriteText(cmd.OutOrStdout())
		},
	}
}
