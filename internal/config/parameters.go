package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/facette/natsort"
)

// ErrInvalidConfig wraps every configuration problem found before a run.
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	Theta0Fixed  = "fixed"
	Theta0Random = "random"

	SweepGrid    = "grid"
	SweepUniform = "uniform"
)

type Config struct {
	OutputDir string
	Scenarios map[string]ModelParameters
	ModelParameters

	InputUnits  []string
	OutputUnits []string

	isDefinedMap map[string]struct{}
}

func (c *Config) isDefined(path []string, meta *toml.MetaData) bool {
	if _, sureDefined := c.isDefinedMap[strings.Join(path, "#")]; sureDefined {
		return true
	}
	return meta != nil && meta.IsDefined(path...)
}

// LoadConfig decodes a scenario file. The ".toml" extension is optional.
func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	config.isDefinedMap = map[string]struct{}{}
	meta, err := toml.DecodeFile(strings.TrimSuffix(configFileName, ".toml")+".toml", &config)
	if err != nil {
		return config, meta, fmt.Errorf("decode %s: %w", configFileName, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config, meta, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("%w: input unit conflict %v", ErrInvalidConfig, unitsConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("%w: output unit conflict %v", ErrInvalidConfig, unitsConflict)
	}

	if len(config.Scenarios) == 0 {
		return config, meta, fmt.Errorf("%w: no scenarios provided", ErrInvalidConfig)
	}
	return config, meta, nil
}

// ScenarioNames returns scenario names in natural order.
func (c *Config) ScenarioNames() []string {
	names := make([]string, 0, len(c.Scenarios))
	for name := range c.Scenarios {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return natsort.Compare(names[i], names[j]) })
	return names
}

type ModelParameters struct {
	D           float64 // [m] sweep center offset
	R           float64 // [m] orbit radius
	L           float64 // [m] slit to detector distance
	SlitWidth   float64 // [m] full width a, accepted |y| <= a/2
	VCenter     float64 // [m s^-1]
	Omega       float64 // [rad s^-1], sign sets the rotation direction
	Dt          float64 // [s]
	NCenters    int
	NTrials     int     // trials per sweep center
	Theta0      string  // "fixed" or "random"
	Theta0Value float64 // [rad]
	Sweep       string  // "grid" or "uniform"
	MaxSteps    int     // 0 derives the budget from the traversal distance
	Seed        uint64
	MakeDir     bool

	_outputUnits []string
	_verbose     bool
	_threads     int
	_seedDefined bool
}

func (p *ModelParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *ModelParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

func (p *ModelParameters) Verbose() bool {
	return p._verbose
}

func (p *ModelParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

func (p *ModelParameters) SeedDefined() bool {
	return p._seedDefined
}

func (p *ModelParameters) SetSeed(seed uint64) {
	p.Seed = seed
	p._seedDefined = true
}

func (p *ModelParameters) Threads() int {
	return p._threads
}

func (p *ModelParameters) SetThreads(threads int) {
	p._threads = threads
}

var defaultValues = map[string]any{ // in SI
	"L":           5.,
	"SlitWidth":   0.05,
	"VCenter":     1.,
	"Omega":       2 * math.Pi,
	"Dt":          0.002,
	"NCenters":    200,
	"NTrials":     50,
	"Theta0":      Theta0Random,
	"Theta0Value": 0.,
	"Sweep":       SweepGrid,
	"MaxSteps":    0,
	"MakeDir":     false,
}

var requiredFields = []string{"D", "R"}

var defaultUnits = []string{"m", "rad", "s"}

var valueUnits = map[string][]UnitElement{
	"D":           {{Class: Length, Power: 1}},
	"R":           {{Class: Length, Power: 1}},
	"L":           {{Class: Length, Power: 1}},
	"SlitWidth":   {{Class: Length, Power: 1}},
	"VCenter":     {{Class: Length, Power: 1}, {Class: Time, Power: -1}},
	"Omega":       {{Class: Angle, Power: 1}, {Class: Time, Power: -1}},
	"Dt":          {{Class: Time, Power: 1}},
	"Theta0Value": {{Class: Angle, Power: 1}},
}

// ValueUnits returns the unit composition of a parameter, nil for
// dimensionless ones.
func ValueUnits(name string) []UnitElement {
	return valueUnits[name]
}

func (modelConfig *ModelParameters) toSI(parameterNames, units []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for _, name := range parameterNames {
		field := modelConfigReflect.FieldByName(name)
		if field.IsValid() && field.CanFloat() {
			field.SetFloat(SI(field.Float(), valueUnits[name], units, true))
		}
	}
}

/*
field value priority:
1. scenario
2. global
3. default
*/

// CheckAndUnify fills the scenario parameters from the global section and
// the defaults, converts file values to SI and validates the result.
func (modelConfig *ModelParameters) CheckAndUnify(scenarioName string, config *Config, meta *toml.MetaData) error {
	var discoveredParameters, missing []string

	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	globalReflect := reflect.ValueOf(&config.ModelParameters).Elem()
	modelConfigType := modelConfigReflect.Type()
	for i := 0; i < modelConfigType.NumField(); i++ {
		fieldName := modelConfigType.Field(i).Name
		if !modelConfigType.Field(i).IsExported() {
			continue
		}
		switch {
		case config.isDefined([]string{"Scenarios", scenarioName, fieldName}, meta):
			discoveredParameters = append(discoveredParameters, fieldName)
		case config.isDefined([]string{fieldName}, meta):
			modelConfigReflect.Field(i).Set(globalReflect.Field(i))
			discoveredParameters = append(discoveredParameters, fieldName)
		default:
			if value, some := defaultValues[fieldName]; some {
				modelConfigReflect.Field(i).Set(reflect.ValueOf(value))
			} else if slices.Contains(requiredFields, fieldName) {
				missing = append(missing, fieldName)
			}
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: scenario %q lacks key parameters %v", ErrInvalidConfig, scenarioName, missing)
	}

	modelConfig.toSI(discoveredParameters, config.InputUnits)
	modelConfig._seedDefined = slices.Contains(discoveredParameters, "Seed")
	modelConfig._outputUnits = config.OutputUnits

	if err := modelConfig.Validate(); err != nil {
		return fmt.Errorf("scenario %q: %w", scenarioName, err)
	}
	return nil
}

// Validate reports every parameter that makes a run meaningless.
func (p *ModelParameters) Validate() error {
	var problems []error
	finite := map[string]float64{
		"D": p.D, "R": p.R, "L": p.L, "SlitWidth": p.SlitWidth,
		"VCenter": p.VCenter, "Omega": p.Omega, "Dt": p.Dt, "Theta0Value": p.Theta0Value,
	}
	for _, name := range []string{"D", "R", "L", "SlitWidth", "VCenter", "Omega", "Dt", "Theta0Value"} {
		if math.IsNaN(finite[name]) || math.IsInf(finite[name], 0) {
			problems = append(problems, fmt.Errorf("%s must be finite, got %v", name, finite[name]))
		}
	}
	if !(p.R > 0) {
		problems = append(problems, fmt.Errorf("R must be positive, got %v", p.R))
	}
	if !(p.L > 0) {
		problems = append(problems, fmt.Errorf("L must be positive, got %v", p.L))
	}
	if !(p.Dt > 0) {
		problems = append(problems, fmt.Errorf("Dt must be positive, got %v", p.Dt))
	}
	if p.SlitWidth < 0 {
		problems = append(problems, fmt.Errorf("SlitWidth must not be negative, got %v", p.SlitWidth))
	}
	if p.NCenters < 1 {
		problems = append(problems, fmt.Errorf("NCenters must be at least 1, got %d", p.NCenters))
	}
	if p.NTrials < 1 {
		problems = append(problems, fmt.Errorf("NTrials must be at least 1, got %d", p.NTrials))
	}
	if p.MaxSteps < 0 {
		problems = append(problems, fmt.Errorf("MaxSteps must not be negative, got %d", p.MaxSteps))
	}
	if p.Theta0 != Theta0Fixed && p.Theta0 != Theta0Random {
		problems = append(problems, fmt.Errorf("Theta0 must be %q or %q, got %q", Theta0Fixed, Theta0Random, p.Theta0))
	}
	if p.Sweep != SweepGrid && p.Sweep != SweepUniform {
		problems = append(problems, fmt.Errorf("Sweep must be %q or %q, got %q", SweepGrid, SweepUniform, p.Sweep))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}
