package config

import (
	"math"
	"reflect"
	"strings"
)

const (
	ComparisonBelow = "D<R"
	ComparisonAbove = "D>R"
)

// Comparison returns the two-scenario setup contrasting a sweep centered
// inside the orbit radius with one centered outside it, phases averaged
// over uniform draws.
func Comparison() Config {
	base := ModelParameters{
		R:           1.,
		L:           5.,
		SlitWidth:   0.05,
		VCenter:     1.,
		Omega:       2 * math.Pi,
		Dt:          0.002,
		NCenters:    200,
		NTrials:     50,
		Theta0:      Theta0Random,
		Theta0Value: 0.,
		Sweep:       SweepGrid,
	}
	below, above := base, base
	below.D = 0.7
	above.D = 1.4

	config := Config{
		OutputDir: "artifacts",
		Scenarios: map[string]ModelParameters{
			ComparisonBelow: below,
			ComparisonAbove: above,
		},
		InputUnits:   defaultUnits,
		OutputUnits:  defaultUnits,
		isDefinedMap: map[string]struct{}{},
	}
	fields := reflect.TypeOf(base)
	for name := range config.Scenarios {
		for i := 0; i < fields.NumField(); i++ {
			if fields.Field(i).IsExported() && fields.Field(i).Name != "Seed" {
				config.isDefinedMap[strings.Join([]string{"Scenarios", name, fields.Field(i).Name}, "#")] = struct{}{}
			}
		}
	}
	return config
}
