package estimate

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnsupportedMaterial is returned for materials missing from the density table
var ErrUnsupportedMaterial = errors.New("unsupported material")

// densities in g/cm³
var densities = map[string]float64{
	"PLA":   1.24,
	"PETG":  1.27,
	"ABS":   1.04,
	"TPU":   1.21,
	"NYLON": 1.14,
	"ASA":   1.07,
	"PC":    1.20,
}

var upper = cases.Upper(language.Und)

// NormalizeMaterial trims and upper-cases a material name
func NormalizeMaterial(name string) string {
	return upper.String(strings.TrimSpace(name))
}

// Density returns the density of a material in g/cm³
func Density(material string) (float64, error) {
	density, ok := densities[NormalizeMaterial(material)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedMaterial, material)
	}
	return density, nil
}

// Materials lists the supported material names in alphabetical order
func Materials() []string {
	names := lo.Keys(densities)
	slices.Sort(names)
	return names
}
