package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// OutputPath builds the artifact path for a scenario: either
// <dir>/<suffix>/<scenario>.<ext> or <dir>/<scenario>_<suffix>.<ext>.
func OutputPath(makeDir bool, outputDir, fileSuffix, scenarioName, ext string) (string, error) {
	scenarioName = SafeName(scenarioName)
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		dir := filepath.Join(outputDir, fileSuffix)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", err
		}
		return filepath.Join(dir, scenarioName+"."+ext), nil
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return "", err
	}
	return filepath.Join(outputDir, scenarioName+"_"+fileSuffix+"."+ext), nil
}

func OpenFile(makeDir bool, outputDir, fileSuffix, scenarioName string) (*os.File, error) {
	path, err := OutputPath(makeDir, outputDir, fileSuffix, scenarioName, "csv")
	if err != nil {
		return nil, err
	}
	return os.Create(path)
}

var unsafeInName = strings.NewReplacer("<", "lt", ">", "gt", "/", "_", "\\", "_", " ", "_", ":", "_")

// SafeName turns a scenario name like "D<R" into something every
// filesystem accepts.
func SafeName(name string) string {
	return unsafeInName.Replace(name)
}
