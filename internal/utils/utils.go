package utils

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/exp/constraints"
)

func Argmax[T cmp.Ordered](arr []T) (argmax int) {
	for i := range arr {
		if cmp.Compare(arr[i], arr[argmax]) == 1 {
			argmax = i
		}
	}
	return
}

type Number interface {
	constraints.Float | constraints.Integer
}

func SumSlice[T Number](arr []T) (r T) {
	for i := range arr {
		r += arr[i]
	}
	return
}

// Ratio returns part/whole as a float, 0 for an empty whole.
func Ratio[T constraints.Integer](part, whole T) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func IntAbs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// WrapAngle maps theta onto [0, period).
func WrapAngle(theta, period float64) float64 {
	wrapped := math.Mod(theta, period)
	if wrapped < 0 {
		wrapped += period
	}
	if wrapped >= period {
		wrapped = 0
	}
	return wrapped
}

func Intersect(a, b []string) *string {
	for i := range a {
		if slices.Contains(b, a[i]) {
			return &a[i]
		}
	}
	return nil
}
