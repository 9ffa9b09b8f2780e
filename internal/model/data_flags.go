package model

import (
	"github.com/spf13/pflag"

	"github.com/wildstyl3r/slitorbit/internal/config"
	"github.com/wildstyl3r/slitorbit/internal/stats"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type SequentialDataItem struct {
	DataItem
	columnNames []string
	values      func(*DataExtractor) (args []float64, values [][]float64, labels []string)
	xUnit       []config.UnitElement
	yUnit       []config.UnitElement
}

type DataFlags struct {
	all         *bool
	bins        *int
	sequentials map[string]SequentialDataItem
	outputPath  string
}

var (
	lengthUnit        = []config.UnitElement{{Class: config.Length, Power: 1}}
	inverseLengthUnit = []config.UnitElement{{Class: config.Length, Power: -1}}
	angleUnit         = []config.UnitElement{{Class: config.Angle, Power: 1}}
)

// NewDataFlags registers one flag per CSV artifact on fs.
func NewDataFlags(fs *pflag.FlagSet) DataFlags {
	return DataFlags{
		all:  fs.Bool("all", false, "save every available data file"),
		bins: fs.Int("bins", 120, "number of bins of the impact histogram"),
		sequentials: map[string]SequentialDataItem{
			"Impacts": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("hits", true, "save impact positions on the detector"),
					fileSuffix: "hits",
				},
				columnNames: []string{"trial", "y_hit"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					for i, y := range de.result.Impacts {
						args = append(args, float64(i))
						values = append(values, []float64{y})
					}
					return args, values, nil
				},
				yUnit: lengthUnit,
			},
			"Crossing phases": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("crossings", false, "save crossing phase against sweep offset for every crossing"),
					fileSuffix: "theta_vs_centery",
				},
				columnNames: []string{"center_y", "theta_cross"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					d := de.result.Diagnostics
					for i := range d.ThetaCrossAll {
						args = append(args, d.CenterYAll[i])
						values = append(values, []float64{d.ThetaCrossAll[i]})
					}
					return args, values, nil
				},
				xUnit: lengthUnit,
				yUnit: angleUnit,
			},
			"Accepted phases": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("accepted", false, "save phases of slit-accepted crossings"),
					fileSuffix: "theta_accepted",
				},
				columnNames: []string{"n", "theta_accepted"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					for i, theta := range de.result.Diagnostics.ThetaAccepted {
						args = append(args, float64(i))
						values = append(values, []float64{theta})
					}
					return args, values, nil
				},
				yUnit: angleUnit,
			},
			"Impact histogram": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("hist", false, "save density histogram of impacts"),
					fileSuffix: "hist",
				},
				columnNames: []string{"y", "density"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					h := stats.AutoHistogram(de.result.Impacts, de.bins)
					for bin, density := range h.Density() {
						args = append(args, h.Center(bin))
						values = append(values, []float64{density})
					}
					return args, values, nil
				},
				xUnit: lengthUnit,
				yUnit: inverseLengthUnit,
			},
			"Impact density": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("kde", false, "save kernel density estimate and Gaussian fit of impacts"),
					fileSuffix: "kde",
				},
				columnNames: []string{"y", "density"},
				values: func(de *DataExtractor) (args []float64, values [][]float64, labels []string) {
					grid, kde, gauss := de.Densities()
					for i := range kde {
						args = append(args, grid[i])
						values = append(values, []float64{kde[i], gauss[i]})
					}
					return args, values, []string{"KDE", "Gaussian"}
				},
				xUnit: lengthUnit,
				yUnit: inverseLengthUnit,
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = path
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}

// Bins is the impact histogram resolution, at least one.
func (df *DataFlags) Bins() int {
	if df.bins == nil || *df.bins < 1 {
		return 1
	}
	return *df.bins
}
