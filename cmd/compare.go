package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/model"
)

var compareDataFlags *model.DataFlags

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare a sweep centered inside the orbit radius with one centered outside it",
	Long: "compare runs the built-in D<R (D=0.7) and D>R (D=1.4) scenarios with R=1 and " +
		"writes the impact comparison figure, the per-scenario figures and summary.json.",
	RunE: runCompare,
}

func init() {
	compareDataFlags = addSimulationFlags(compareCmd, true)

	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return simulate(ctx, config.Comparison(), nil, readSimulationOptions(cmd, compareDataFlags))
}
