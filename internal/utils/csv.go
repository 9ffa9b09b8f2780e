package utils

import (
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/facette/natsort"
)

type CSV [][]string

func (data CSV) Less(i, j int) bool {
	return natsort.Compare(data[i][0], data[j][0])
}

func (data CSV) Len() int {
	return len(data)
}
func (data CSV) Swap(i, j int) {
	data[i], data[j] = data[j], data[i]
}

// WriteAsCSV writes the header followed by the rows in natural order of
// their first column.
func WriteAsCSV(data CSV, outputDir, fileSuffix, name string, columns []string) error {
	file, err := OpenFile(false, outputDir, fileSuffix, name)
	if err != nil {
		return fmt.Errorf("open %s csv: %w", fileSuffix, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(columns); err != nil {
		return err
	}
	sort.Sort(data)
	if err := w.WriteAll(data); err != nil {
		return fmt.Errorf("write %s csv: %w", fileSuffix, err)
	}
	return nil
}
