package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/metrics"
	"github.com/wildstyl3r/slitorbit/internal/model"
	"github.com/wildstyl3r/slitorbit/internal/output"
)

type simulationOptions struct {
	outputDir   string
	seed        uint64
	seedSet     bool
	threads     int
	verbose     bool
	plots       bool
	metricsFile string
	dataFlags   model.DataFlags
}

// addSimulationFlags registers the flags shared by run and compare.
func addSimulationFlags(cmd *cobra.Command, plots bool) *model.DataFlags {
	cmd.Flags().StringP("output", "o", "", "output directory, overrides OutputDir of the scenario file")
	cmd.Flags().Uint64("seed", 0, "seed for every scenario, overrides Seed of the scenario file")
	cmd.Flags().Bool("plots", plots, "render PNG figures")
	cmd.Flags().String("metrics-file", "", "write run metrics in the Prometheus text format")
	dataFlags := model.NewDataFlags(cmd.Flags())
	return &dataFlags
}

func readSimulationOptions(cmd *cobra.Command, dataFlags *model.DataFlags) simulationOptions {
	opts := simulationOptions{dataFlags: *dataFlags}
	opts.outputDir, _ = cmd.Flags().GetString("output")
	opts.seed, _ = cmd.Flags().GetUint64("seed")
	opts.seedSet = cmd.Flags().Changed("seed")
	opts.threads, _ = cmd.Flags().GetInt("threads")
	opts.verbose, _ = cmd.Flags().GetBool("verbose")
	opts.plots, _ = cmd.Flags().GetBool("plots")
	opts.metricsFile, _ = cmd.Flags().GetString("metrics-file")
	return opts
}

// simulate runs every scenario of cfg in natural name order and writes the
// artifacts. meta may be nil for configurations built in code.
func simulate(ctx context.Context, cfg config.Config, meta *toml.MetaData, opts simulationOptions) error {
	startTime := time.Now()
	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}
	if outputDir == "" {
		outputDir = "."
	}
	opts.dataFlags.SetOutputPath(outputDir)

	recorder := metrics.NewRecorder()
	report := output.Report{Units: cfg.OutputUnits}
	var names []string
	var extractors []*model.DataExtractor

	for _, name := range cfg.ScenarioNames() {
		parameters := cfg.Scenarios[name]
		if err := parameters.CheckAndUnify(name, &cfg, meta); err != nil {
			return err
		}
		switch {
		case opts.seedSet:
			parameters.SetSeed(opts.seed)
		case !parameters.SeedDefined():
			parameters.SetSeed(uint64(time.Now().UnixNano()))
			log.WithFields(logrus.Fields{"scenario": name, "seed": parameters.Seed}).Info("no seed given, drawn from the clock")
		}
		parameters.SetThreads(opts.threads)
		parameters.SetVerbosity(opts.verbose)

		m, err := model.NewModel(parameters)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", name, err)
		}
		m.Log = m.Log.WithField("scenario", name)
		m.Observer = recorder.Scenario(name)

		result, err := m.Run(ctx)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", name, err)
		}
		de := model.NewDataExtractor(m, &result)
		if err := de.Save(name, opts.dataFlags); err != nil {
			return fmt.Errorf("scenario %q: %w", name, err)
		}
		if opts.plots {
			if err := output.ScenarioFigures(parameters.MakeDir, outputDir, name, de, opts.dataFlags.Bins()); err != nil {
				return fmt.Errorf("scenario %q: %w", name, err)
			}
		}

		summary := de.Summary()
		log.WithFields(logrus.Fields{
			"scenario": name,
			"hits":     summary.Hits,
			"trials":   summary.Trials,
			"mean":     summary.Mean,
			"std":      summary.StdDev,
		}).Info("scenario finished")

		report.Scenarios = append(report.Scenarios, output.ScenarioReport{
			Name:       name,
			Parameters: output.ParametersOf(parameters),
			Summary:    summary,
		})
		names = append(names, name)
		extractors = append(extractors, de)
	}

	if opts.plots && len(extractors) > 1 {
		if err := output.ComparisonFigure(outputDir, names, extractors); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return err
	}
	if err := output.WriteSummary(filepath.Join(outputDir, "summary.json"), report); err != nil {
		return err
	}
	if err := output.WriteComparisonTable(outputDir, report); err != nil {
		return err
	}
	if opts.metricsFile != "" {
		if err := recorder.WriteTextfile(opts.metricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	log.WithFields(logrus.Fields{"scenarios": len(names), "output": outputDir, "elapsed": time.Since(startTime)}).Info("artifacts written")
	return nil
}
