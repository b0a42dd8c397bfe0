package mesh

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownUnits is returned for a unit name outside the scale table
var ErrUnknownUnits = errors.New("unknown units")

// Units names the length unit a source format declares for its coordinates
type Units string

// Units understood by the packaged format
const (
	Micron     Units = "micron"
	Millimeter Units = "millimeter"
	Centimeter Units = "centimeter"
	Inch       Units = "inch"
	Foot       Units = "foot"
	Meter      Units = "meter"
)

var unitScale = map[Units]float64{
	Micron:     0.001,
	Millimeter: 1,
	Centimeter: 10,
	Inch:       25.4,
	Foot:       304.8,
	Meter:      1000,
}

var unitAliases = map[string]Units{
	"um":          Micron,
	"µm":          Micron,
	"micrometer":  Micron,
	"mm":          Millimeter,
	"cm":          Centimeter,
	"in":          Inch,
	"ft":          Foot,
	"m":           Meter,
	"millimetre":  Millimeter,
	"centimetre":  Centimeter,
	"metre":       Meter,
	"micrometre":  Micron,
	"millimeters": Millimeter,
}

// ParseUnits resolves a unit name or common abbreviation
func ParseUnits(name string) (Units, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return Millimeter, nil
	}
	if u, ok := unitAliases[normalized]; ok {
		return u, nil
	}
	if _, ok := unitScale[Units(normalized)]; ok {
		return Units(normalized), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnits, name)
}

// Scale returns the factor converting one unit into millimetres
func (u Units) Scale() (float64, error) {
	if u == "" {
		return 1, nil
	}
	scale, ok := unitScale[u]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnits, string(u))
	}
	return scale, nil
}
