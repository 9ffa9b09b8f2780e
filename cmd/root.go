package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wildstyl3r/slitorbit/internal/logging"
)

var log = logging.NamedLogger("cmd")

var rootCmd = &cobra.Command{
	Use:   "slitorbit",
	Short: "Monte-Carlo simulator of orbiting particles passing a slit",
	Long: "slitorbit sweeps a circular orbit drifting towards a slit, records where the particles " +
		"that pass the slit hit a detector plane and summarizes the impact distribution.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logging.SetLevel(logrus.DebugLevel)
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("threads", 0, "worker goroutines per scenario (default number of CPUs)")
}
