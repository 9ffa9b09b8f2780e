package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a scenario file without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		cfg, meta, err := config.LoadConfig(input)
		if err != nil {
			return err
		}

		var errs []error
		for _, name := range cfg.ScenarioNames() {
			parameters := cfg.Scenarios[name]
			if err := parameters.CheckAndUnify(name, &cfg, &meta); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %v\n", name, err)
				errs = append(errs, err)
				continue
			}
			m, err := model.NewModel(parameters)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: D=%v R=%v, %d trials, step budget %d\n",
				name, parameters.D, parameters.R, m.NumTrials(), m.MaxSteps)
		}
		return errors.Join(errs...)
	},
}

func init() {
	validateCmd.Flags().StringP("input", "i", "scenarios", "scenario file in toml format")

	rootCmd.AddCommand(validateCmd)
}
