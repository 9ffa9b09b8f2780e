package model

import (
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/stats"
	"github.com/wildstyl3r/slitorbit/internal/utils"
)

const densityGridPoints = 1000

type DataExtractor struct {
	model  *Model
	result *Result
	bins   int

	mu, sigma float64
}

func NewDataExtractor(model *Model, result *Result) *DataExtractor {
	de := DataExtractor{model: model, result: result, bins: 120}
	de.mu, de.sigma = stats.GaussianMLE(result.Impacts)
	return &de
}

func (de *DataExtractor) Parameters() *config.ModelParameters {
	return &de.model.Parameters
}

func (de *DataExtractor) Result() *Result {
	return de.result
}

// Fit returns the Gaussian maximum likelihood fit of the impacts.
func (de *DataExtractor) Fit() (mu, sigma float64) {
	return de.mu, de.sigma
}

// Densities evaluates the KDE and the fitted Gaussian on mu +- 6 sigma.
// All three slices are empty when the impacts have no spread.
func (de *DataExtractor) Densities() (grid, kde, gauss []float64) {
	if !(de.sigma > 0) {
		return nil, nil, nil
	}
	grid = stats.Grid(de.mu-6*de.sigma, de.mu+6*de.sigma, densityGridPoints)
	kde = stats.KDESilverman(de.result.Impacts, grid)
	if kde == nil {
		return nil, nil, nil
	}
	gauss = make([]float64, len(grid))
	for i, y := range grid {
		gauss[i] = stats.GaussianPDF(y, de.mu, de.sigma)
	}
	return grid, kde, gauss
}

// Summary is the scalar digest of one scenario run.
type Summary struct {
	D              float64        `json:"D"`
	Trials         int            `json:"trials"`
	Hits           int            `json:"n_hits"`
	Mean           float64        `json:"mean,omitempty"`
	StdDev         float64        `json:"std,omitempty"`
	Mode           float64        `json:"mode,omitempty"`
	Bandwidth      float64        `json:"kde_bandwidth,omitempty"`
	Outcomes       map[string]int `json:"outcomes"`
	Degenerate     int            `json:"degenerate_crossings"`
	ExhaustionRate float64        `json:"exhaustion_rate"`
	MaxSteps       int            `json:"max_steps"`
	Seed           uint64         `json:"seed"`
}

func (de *DataExtractor) Summary() Summary {
	units := de.model.Parameters.OutputUnits()
	d := de.result.Diagnostics
	s := Summary{
		D:              config.SI(de.model.Parameters.D, lengthUnit, units, false),
		Trials:         d.Trials,
		Hits:           len(de.result.Impacts),
		Outcomes:       map[string]int{},
		Degenerate:     d.Degenerate,
		ExhaustionRate: d.ExhaustionRate(),
		MaxSteps:       d.MaxSteps,
		Seed:           de.model.Parameters.Seed,
	}
	for _, outcome := range Outcomes {
		s.Outcomes[outcome.String()] = d.Outcomes[outcome]
	}
	if s.Hits > 1 {
		s.Mean = config.SI(de.mu, lengthUnit, units, false)
		s.StdDev = config.SI(de.sigma, lengthUnit, units, false)
		s.Bandwidth = config.SI(stats.Bandwidth(de.result.Impacts), lengthUnit, units, false)
		s.Mode = config.SI(stats.AutoHistogram(de.result.Impacts, de.bins).Mode(), lengthUnit, units, false)
	}
	return s
}

// Save writes every selected data file of the scenario as CSV in the
// output units.
func (de *DataExtractor) Save(scenarioName string, df DataFlags) error {
	de.bins = df.Bins()
	units := de.model.Parameters.OutputUnits()

	names := make([]string, 0, len(df.sequentials))
	for name := range df.sequentials {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		output := df.sequentials[name]
		if !*output.saveFlag && !*df.all {
			continue
		}
		file, err := utils.OpenFile(de.model.Parameters.MakeDir, df.outputPath, output.fileSuffix, scenarioName)
		if err != nil {
			errs = append(errs, fmt.Errorf("unable to save %s: %w", name, err))
			continue
		}
		rows := [][]string{{
			columnName(output.columnNames[0], output.xUnit, units),
			columnName(output.columnNames[1], output.yUnit, units),
		}}
		xColumnValue, yColumnValues, yLabels := output.values(de)
		if len(yLabels) > 0 {
			rows = append(rows, append([]string{""}, yLabels...))
		}
		for x := range xColumnValue {
			row := []string{strconv.FormatFloat(config.SI(xColumnValue[x], output.xUnit, units, false), 'f', -1, 64)}
			for i := range yColumnValues[x] {
				row = append(row, strconv.FormatFloat(config.SI(yColumnValues[x][i], output.yUnit, units, false), 'f', -1, 64))
			}
			rows = append(rows, row)
		}
		w := csv.NewWriter(file)
		if err := w.WriteAll(rows); err != nil {
			errs = append(errs, fmt.Errorf("error writing %s csv: %w", name, err))
		}
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
		if de.model.Parameters.Verbose() {
			de.model.Log.WithField("file", file.Name()).Info(name + " saved")
		}
	}
	return errors.Join(errs...)
}

func columnName(name string, unit []config.UnitElement, units []string) string {
	if len(unit) == 0 {
		return name
	}
	return name + " (" + config.UnitLabel(unit, units) + ")"
}
