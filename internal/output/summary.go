package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/model"
	"github.com/wildstyl3r/slitorbit/internal/utils"
)

// Parameters are the scenario inputs as reported, in output units.
type Parameters struct {
	R           float64 `json:"R"`
	L           float64 `json:"L"`
	SlitWidth   float64 `json:"a"`
	VCenter     float64 `json:"v_center"`
	Omega       float64 `json:"omega"`
	Dt          float64 `json:"dt"`
	NCenters    int     `json:"N_centers"`
	NTrials     int     `json:"N_trials_per_center"`
	Theta0      string  `json:"theta0_mode"`
	Theta0Value float64 `json:"theta0_value,omitempty"`
	Sweep       string  `json:"sweep"`
}

func ParametersOf(p config.ModelParameters) Parameters {
	units := p.OutputUnits()
	out := func(name string, v float64) float64 {
		return config.SI(v, config.ValueUnits(name), units, false)
	}
	params := Parameters{
		R:         out("R", p.R),
		L:         out("L", p.L),
		SlitWidth: out("SlitWidth", p.SlitWidth),
		VCenter:   out("VCenter", p.VCenter),
		Omega:     out("Omega", p.Omega),
		Dt:        out("Dt", p.Dt),
		NCenters:  p.NCenters,
		NTrials:   p.NTrials,
		Theta0:    p.Theta0,
		Sweep:     p.Sweep,
	}
	if p.Theta0 == config.Theta0Fixed {
		params.Theta0Value = out("Theta0Value", p.Theta0Value)
	}
	return params
}

type ScenarioReport struct {
	Name       string        `json:"name"`
	Parameters Parameters    `json:"params"`
	Summary    model.Summary `json:"summary"`
}

type Report struct {
	Units     []string         `json:"units"`
	Scenarios []ScenarioReport `json:"scenarios"`
}

// WriteSummary stores the report as indented JSON.
func WriteSummary(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// WriteComparisonTable writes one row per scenario, in natural order of
// the scenario names.
func WriteComparisonTable(outputDir string, report Report) error {
	rows := make(utils.CSV, 0, len(report.Scenarios))
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range report.Scenarios {
		rows = append(rows, []string{
			s.Name,
			format(s.Summary.D),
			strconv.Itoa(s.Summary.Trials),
			strconv.Itoa(s.Summary.Hits),
			format(s.Summary.Mean),
			format(s.Summary.StdDev),
		})
	}
	return utils.WriteAsCSV(rows, outputDir, "comparison", "scenarios", []string{"scenario", "D", "trials", "n_hits", "mean", "std"})
}
