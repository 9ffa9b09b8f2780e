package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/model"
)

var runDataFlags *model.DataFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate every scenario of a scenario file",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringP("input", "i", "scenarios", "scenario file in toml format")
	runDataFlags = addSimulationFlags(runCmd, false)

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	cfg, meta, err := config.LoadConfig(input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return simulate(ctx, cfg, &meta, readSimulationOptions(cmd, runDataFlags))
}
