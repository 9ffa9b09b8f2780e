package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		theta, want float64
	}{
		{0, 0},
		{1, 1},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 1.5 * math.Pi},
		{5 * math.Pi, math.Pi},
		{-1e-300, 0},
	}
	for _, tt := range tests {
		got := WrapAngle(tt.theta, 2*math.Pi)
		assert.InDelta(t, tt.want, got, 1e-12, "theta = %v", tt.theta)
		assert.GreaterOrEqual(t, got, 0.)
		assert.Less(t, got, 2*math.Pi)
	}
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, 2, Argmax([]int{1, 3, 7, 7, 2}))
	assert.Equal(t, 0, Argmax([]float64{}))
	assert.Equal(t, 10, SumSlice([]int{1, 2, 3, 4}))
	assert.Equal(t, 0.25, Ratio(1, 4))
	assert.Zero(t, Ratio(3, 0))
	assert.Equal(t, 3, IntAbs(-3))
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, "cm", *Intersect([]string{"mm", "cm", "m"}, []string{"rad", "cm"}))
	assert.Nil(t, Intersect([]string{"mm"}, []string{"s"}))
}

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	path, err := OutputPath(false, dir, "hits", "D<R", "csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "DltR_hits.csv"), path)

	path, err = OutputPath(true, filepath.Join(dir, "nested"), "hits", "D>R", "csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "hits", "DgtR.csv"), path)
	assert.DirExists(t, filepath.Join(dir, "nested", "hits"))

	assert.Equal(t, "run_a_b", SafeName("run a/b"))
	assert.Equal(t, "D=0.7", SafeName("D=0.7"))
}

func TestWriteAsCSV(t *testing.T) {
	dir := t.TempDir()
	data := CSV{{"s10", "1"}, {"s2", "2"}, {"s1", "3"}}
	require.NoError(t, WriteAsCSV(data, dir, "table", "runs", []string{"name", "value"}))

	content, err := os.ReadFile(filepath.Join(dir, "runs_table.csv"))
	require.NoError(t, err)
	assert.Equal(t, "name,value\ns1,3\ns2,2\ns10,1\n", string(content))
}
