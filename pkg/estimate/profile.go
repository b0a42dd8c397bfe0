package estimate

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads print parameter overrides from a YAML file such as
//
//	material: petg
//	infill: 0.3
//	pricePerKg: 28
//
// Unknown keys are rejected.
func LoadProfile(path string) (Overrides, error) {
	file, err := os.Open(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("failed to open profile: %w", err)
	}
	defer file.Close()

	overrides, err := ParseProfile(file)
	if err != nil {
		return Overrides{}, fmt.Errorf("%s: %w", path, err)
	}
	return overrides, nil
}

// ParseProfile decodes YAML overrides from r. An empty document yields no
// overrides.
func ParseProfile(r io.Reader) (Overrides, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var overrides Overrides
	if err := decoder.Decode(&overrides); err != nil {
		if errors.Is(err, io.EOF) {
			return Overrides{}, nil
		}
		return Overrides{}, fmt.Errorf("invalid profile: %w", err)
	}
	return overrides, nil
}
