package config

import (
	"math"
	"strconv"

	"github.com/wildstyl3r/slitorbit/internal/utils"
)

var unitToSI = map[string]float64{
	"m":    1,             // [m]
	"cm":   1e-2,          // [m]
	"mm":   1e-3,          // [m]
	"rad":  1,             // [rad]
	"deg":  math.Pi / 180, // [rad]
	"turn": 2 * math.Pi,   // [rad]
	"s":    1,             // [s]
	"ms":   1e-3,          // [s]
	"us":   1e-6,          // [s]
}

type UnitClass int

const (
	Length UnitClass = iota
	Angle
	Time
)

var unitsInClass = map[UnitClass][]string{
	Length: {"mm", "cm", "m"},
	Angle:  {"rad", "deg", "turn"},
	Time:   {"us", "ms", "s"},
}

var classesOfUnits = map[string]UnitClass{
	"m":    Length,
	"cm":   Length,
	"mm":   Length,
	"rad":  Angle,
	"deg":  Angle,
	"turn": Angle,
	"s":    Time,
	"ms":   Time,
	"us":   Time,
}

type UnitElement = struct {
	Class UnitClass
	Power int
}

// checkUnits reports units that are unknown or repeat a class, and fills
// every class left unspecified from defaultUnits.
func checkUnits(units []string) (extended, conflicts []string) {
	classes := map[UnitClass]struct{}{}
	for _, unit := range units {
		class, known := classesOfUnits[unit]
		if !known {
			conflicts = append(conflicts, unit)
			continue
		}
		if _, some := classes[class]; some {
			conflicts = append(conflicts, unit)
		} else {
			classes[class] = struct{}{}
			extended = append(extended, unit)
		}
	}
	for _, unit := range defaultUnits {
		if _, some := classes[classesOfUnits[unit]]; !some {
			extended = append(extended, unit)
		}
	}
	return
}

// SI converts v between the given units and SI. direct converts into SI,
// otherwise out of it.
func SI(v float64, classes []UnitElement, units []string, direct bool) float64 {
	for i := range classes {
		uc := classes[i]
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		absPower := utils.IntAbs(uc.Power)
		if direct == (uc.Power > 0) {
			for i := 0; i < absPower; i++ {
				v *= unitToSI[*unit]
			}
		} else {
			for i := 0; i < absPower; i++ {
				v /= unitToSI[*unit]
			}
		}
	}
	return v
}

// UnitLabel spells out a unit composition in the given units, e.g. "m s^-1".
func UnitLabel(classes []UnitElement, units []string) string {
	label := ""
	for _, uc := range classes {
		unit := utils.Intersect(unitsInClass[uc.Class], units)
		if unit == nil {
			continue
		}
		if label != "" {
			label += " "
		}
		label += *unit
		if uc.Power != 1 {
			label += "^" + strconv.Itoa(uc.Power)
		}
	}
	if label == "" {
		return "1"
	}
	return label
}
