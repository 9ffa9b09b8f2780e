package output

import (
	"errors"
	"fmt"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/constants"
	"github.com/wildstyl3r/slitorbit/internal/model"
	"github.com/wildstyl3r/slitorbit/internal/utils"
)

var (
	lengthUnit = []config.UnitElement{{Class: config.Length, Power: 1}}
	angleUnit  = []config.UnitElement{{Class: config.Angle, Power: 1}}
)

func scaled(values []float64, unit []config.UnitElement, units []string) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = config.SI(v, unit, units, false)
	}
	return out
}

func axisLabel(name string, unit []config.UnitElement, units []string) string {
	return fmt.Sprintf("%s (%s)", name, config.UnitLabel(unit, units))
}

// ScenarioFigures renders the impact distribution, the crossing phase
// scatter and the accepted phase histogram of one scenario.
func ScenarioFigures(makeDir bool, outputDir, scenarioName string, de *model.DataExtractor, bins int) error {
	parameters := de.Parameters()
	units := parameters.OutputUnits()
	result := de.Result()
	d := result.Diagnostics

	var errs []error
	save := func(suffix string, render func(path string) error) {
		path, err := utils.OutputPath(makeDir, outputDir, suffix, scenarioName, "png")
		if err == nil {
			err = render(path)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s figure: %w", suffix, err))
		}
	}

	save("impacts", func(path string) error {
		grid, kde, gauss := de.Densities()
		return ImpactDistribution(path,
			fmt.Sprintf("Impacts, %s", scenarioName),
			axisLabel("y impact", lengthUnit, units),
			scaled(result.Impacts, lengthUnit, units), bins,
			scaled(grid, lengthUnit, units), rescaleDensity(kde, units), rescaleDensity(gauss, units))
	})
	save("theta_vs_centery", func(path string) error {
		return PhaseScatter(path,
			fmt.Sprintf("theta_cross vs center_y, %s, all crossings", scenarioName),
			axisLabel("center_y", lengthUnit, units),
			axisLabel("theta_cross mod 2pi", angleUnit, units),
			scaled(d.CenterYAll, lengthUnit, units), scaled(d.ThetaCrossAll, angleUnit, units))
	})
	save("theta_accepted_hist", func(path string) error {
		return PhaseHistogram(path,
			fmt.Sprintf("Accepted phases, %s", scenarioName),
			axisLabel("theta_accepted mod 2pi", angleUnit, units),
			scaled(d.ThetaAccepted, angleUnit, units),
			config.SI(constants.TwoPi, angleUnit, units, false))
	})
	return errors.Join(errs...)
}

// rescaleDensity converts a density per meter to the output length unit.
func rescaleDensity(density []float64, units []string) []float64 {
	return scaled(density, []config.UnitElement{{Class: config.Length, Power: -1}}, units)
}

// ComparisonFigure overlays the impacts of every scenario on the fixed
// comparison range, given in meters.
func ComparisonFigure(outputDir string, names []string, extractors []*model.DataExtractor) error {
	if len(extractors) == 0 {
		return nil
	}
	units := extractors[0].Parameters().OutputUnits()
	samples := make([]Sample, len(extractors))
	for i, de := range extractors {
		samples[i] = Sample{Label: names[i], Values: scaled(de.Result().Impacts, lengthUnit, units)}
	}
	path, err := utils.OutputPath(false, outputDir, "impacts", "comparison", "png")
	if err != nil {
		return err
	}
	return Comparison(path,
		"Impact comparison",
		axisLabel("y impact", lengthUnit, units),
		samples,
		config.SI(ComparisonLo, lengthUnit, units, false),
		config.SI(ComparisonHi, lengthUnit, units, false))
}
