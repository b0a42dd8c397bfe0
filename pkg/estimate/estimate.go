// Package estimate turns a model volume and print parameters into mass,
// filament, time and itemized cost.
package estimate

import (
	"math"

	"github.com/philipparndt/printcost/pkg/gcode"
)

// TimeSource names where Breakdown.Time and FilamentLength came from
type TimeSource string

const (
	TimeSourceHeuristic TimeSource = "heuristic"
	TimeSourceGCode     TimeSource = "gcode"
)

// Costs itemizes the price of a print in the currency of the parameters
type Costs struct {
	Filament    float64 `json:"filament"`
	Energy      float64 `json:"energy"`
	Maintenance float64 `json:"maintenance"`
	Margin      float64 `json:"margin"`
	Total       float64 `json:"total"`
}

// Breakdown is the result of one estimate. It is never modified after it is
// returned; WithOverride produces a new value.
type Breakdown struct {
	VolumeModel    float64         `json:"volumeModel"`    // mm³
	ExtrudedVolume float64         `json:"extrudedVolume"` // mm³
	Mass           float64         `json:"mass"`           // g
	FilamentLength float64         `json:"filamentLength"` // mm
	Time           float64         `json:"time"`           // s
	Costs          Costs           `json:"costs"`
	Params         PrintParameters `json:"params"`
	TimeSource     TimeSource      `json:"timeSource"`
	OverrideSource string          `json:"overrideSource,omitempty"`
}

// Estimate resolves o and computes the breakdown for a model of the given
// volume in mm³.
func Estimate(volume float64, o Overrides) (*Breakdown, error) {
	params, err := Resolve(o)
	if err != nil {
		return nil, err
	}
	breakdown := Compute(volume, params)
	return &breakdown, nil
}

// Compute derives the breakdown from already validated parameters. It is a
// pure function of its arguments.
func Compute(volume float64, p PrintParameters) Breakdown {
	density, _ := Density(p.Material)

	extruded := math.Max(0, volume*(p.Infill+p.WallFactor+p.TopBottomFactor))
	mass := extruded / 1000 * density

	filamentLength := 0.0
	radius := p.FilamentDiameter / 2
	if area := math.Pi * radius * radius; area > 0 {
		filamentLength = extruded / area
	}

	baseTime := 0.0
	if flow := math.Min(p.TargetFlow, p.MaxVolumetricFlow); flow > 0 {
		baseTime = extruded / flow
	}
	seconds := baseTime * (1 + p.Overhead)
	hours := seconds / 3600

	var costs Costs
	costs.Filament = mass / 1000 * p.PricePerKg
	costs.Energy = p.PowerDraw / 1000 * hours * p.EnergyPrice
	costs.Maintenance = hours * p.MaintenancePerHour
	subtotal := costs.Filament + costs.Energy + costs.Maintenance
	costs.Margin = subtotal * p.Margin
	costs.Total = subtotal + costs.Margin

	return Breakdown{
		VolumeModel:    volume,
		ExtrudedVolume: extruded,
		Mass:           mass,
		FilamentLength: filamentLength,
		Time:           seconds,
		Costs:          costs,
		Params:         p,
		TimeSource:     TimeSourceHeuristic,
	}
}

// WithOverride returns a copy of b whose time and filament length come from
// a G-code program. Costs keep their heuristic values.
func (b Breakdown) WithOverride(o gcode.Override) Breakdown {
	b.Time = o.Time
	b.FilamentLength = o.FilamentLength
	b.TimeSource = TimeSourceGCode
	b.OverrideSource = o.SourceFileName
	return b
}
