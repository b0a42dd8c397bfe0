package gcode

import (
	"fmt"
	"os"
	"path/filepath"
)

// Override carries measured time and filament from a G-code file. It
// replaces the heuristic time and filament length of an estimate; costs stay
// derived from the modelled mass.
type Override struct {
	SourceFileName string  `json:"sourceFileName"`
	Time           float64 `json:"time"`
	FilamentLength float64 `json:"filamentLength"`
}

// NewOverride builds an override from an interpreted program
func NewOverride(sourceFileName string, estimate Estimate) Override {
	return Override{
		SourceFileName: sourceFileName,
		Time:           estimate.Time,
		FilamentLength: estimate.FilamentLength,
	}
}

// LoadOverride interprets the G-code file at path
func LoadOverride(path string) (Override, error) {
	file, err := os.Open(path)
	if err != nil {
		return Override{}, fmt.Errorf("failed to open G-code: %w", err)
	}
	defer file.Close()

	estimate, err := ParseReader(file)
	if err != nil {
		return Override{}, fmt.Errorf("%s: %w", path, err)
	}
	return NewOverride(filepath.Base(path), estimate), nil
}
