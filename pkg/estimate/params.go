package estimate

import (
	"fmt"
	"math"

	"go.uber.org/multierr"
)

// Default print parameters
const (
	DefaultMaterial           = "PLA"
	DefaultInfill             = 0.2
	DefaultWallFactor         = 0.25
	DefaultTopBottomFactor    = 0.15
	DefaultTargetFlow         = 10.0 // mm³/s
	DefaultMaxVolumetricFlow  = 12.0 // mm³/s
	DefaultOverhead           = 0.15
	DefaultPricePerKg         = 25.0
	DefaultPowerDraw          = 120.0 // W
	DefaultEnergyPrice        = 0.12  // per kWh
	DefaultMaintenancePerHour = 2.0
	DefaultMargin             = 0.2
	DefaultFilamentDiameter   = 1.75 // mm
	DefaultLayerHeight        = 0.2  // mm
)

// PrintParameters is a fully resolved, validated parameter set
type PrintParameters struct {
	Material           string  `json:"material" yaml:"material"`
	Infill             float64 `json:"infill" yaml:"infill"`
	WallFactor         float64 `json:"wallFactor" yaml:"wallFactor"`
	TopBottomFactor    float64 `json:"topBottomFactor" yaml:"topBottomFactor"`
	TargetFlow         float64 `json:"targetFlow" yaml:"targetFlow"`
	MaxVolumetricFlow  float64 `json:"maxVolumetricFlow" yaml:"maxVolumetricFlow"`
	Overhead           float64 `json:"overhead" yaml:"overhead"`
	PricePerKg         float64 `json:"pricePerKg" yaml:"pricePerKg"`
	PowerDraw          float64 `json:"powerDraw" yaml:"powerDraw"`
	EnergyPrice        float64 `json:"energyPrice" yaml:"energyPrice"`
	MaintenancePerHour float64 `json:"maintenancePerHour" yaml:"maintenancePerHour"`
	Margin             float64 `json:"margin" yaml:"margin"`
	FilamentDiameter   float64 `json:"filamentDiameter" yaml:"filamentDiameter"`
	LayerHeight        float64 `json:"layerHeight" yaml:"layerHeight"`
}

// DefaultParameters returns the built-in parameter set
func DefaultParameters() PrintParameters {
	return PrintParameters{
		Material:           DefaultMaterial,
		Infill:             DefaultInfill,
		WallFactor:         DefaultWallFactor,
		TopBottomFactor:    DefaultTopBottomFactor,
		TargetFlow:         DefaultTargetFlow,
		MaxVolumetricFlow:  DefaultMaxVolumetricFlow,
		Overhead:           DefaultOverhead,
		PricePerKg:         DefaultPricePerKg,
		PowerDraw:          DefaultPowerDraw,
		EnergyPrice:        DefaultEnergyPrice,
		MaintenancePerHour: DefaultMaintenancePerHour,
		Margin:             DefaultMargin,
		FilamentDiameter:   DefaultFilamentDiameter,
		LayerHeight:        DefaultLayerHeight,
	}
}

// Overrides holds caller-supplied values; nil fields keep their default
type Overrides struct {
	Material           *string  `json:"material,omitempty" yaml:"material,omitempty"`
	Infill             *float64 `json:"infill,omitempty" yaml:"infill,omitempty"`
	WallFactor         *float64 `json:"wallFactor,omitempty" yaml:"wallFactor,omitempty"`
	TopBottomFactor    *float64 `json:"topBottomFactor,omitempty" yaml:"topBottomFactor,omitempty"`
	TargetFlow         *float64 `json:"targetFlow,omitempty" yaml:"targetFlow,omitempty"`
	MaxVolumetricFlow  *float64 `json:"maxVolumetricFlow,omitempty" yaml:"maxVolumetricFlow,omitempty"`
	Overhead           *float64 `json:"overhead,omitempty" yaml:"overhead,omitempty"`
	PricePerKg         *float64 `json:"pricePerKg,omitempty" yaml:"pricePerKg,omitempty"`
	PowerDraw          *float64 `json:"powerDraw,omitempty" yaml:"powerDraw,omitempty"`
	EnergyPrice        *float64 `json:"energyPrice,omitempty" yaml:"energyPrice,omitempty"`
	MaintenancePerHour *float64 `json:"maintenancePerHour,omitempty" yaml:"maintenancePerHour,omitempty"`
	Margin             *float64 `json:"margin,omitempty" yaml:"margin,omitempty"`
	FilamentDiameter   *float64 `json:"filamentDiameter,omitempty" yaml:"filamentDiameter,omitempty"`
	LayerHeight        *float64 `json:"layerHeight,omitempty" yaml:"layerHeight,omitempty"`
}

// Merge returns o with every field set in other taking precedence
func (o Overrides) Merge(other Overrides) Overrides {
	pick := func(base, top *float64) *float64 {
		if top != nil {
			return top
		}
		return base
	}
	merged := Overrides{
		Material:           o.Material,
		Infill:             pick(o.Infill, other.Infill),
		WallFactor:         pick(o.WallFactor, other.WallFactor),
		TopBottomFactor:    pick(o.TopBottomFactor, other.TopBottomFactor),
		TargetFlow:         pick(o.TargetFlow, other.TargetFlow),
		MaxVolumetricFlow:  pick(o.MaxVolumetricFlow, other.MaxVolumetricFlow),
		Overhead:           pick(o.Overhead, other.Overhead),
		PricePerKg:         pick(o.PricePerKg, other.PricePerKg),
		PowerDraw:          pick(o.PowerDraw, other.PowerDraw),
		EnergyPrice:        pick(o.EnergyPrice, other.EnergyPrice),
		MaintenancePerHour: pick(o.MaintenancePerHour, other.MaintenancePerHour),
		Margin:             pick(o.Margin, other.Margin),
		FilamentDiameter:   pick(o.FilamentDiameter, other.FilamentDiameter),
		LayerHeight:        pick(o.LayerHeight, other.LayerHeight),
	}
	if other.Material != nil {
		merged.Material = other.Material
	}
	return merged
}

// Resolve applies o over the defaults, normalizes the material name and
// validates the result.
func Resolve(o Overrides) (PrintParameters, error) {
	p := DefaultParameters()
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	if o.Material != nil {
		p.Material = *o.Material
	}
	p.Material = NormalizeMaterial(p.Material)
	set(&p.Infill, o.Infill)
	set(&p.WallFactor, o.WallFactor)
	set(&p.TopBottomFactor, o.TopBottomFactor)
	set(&p.TargetFlow, o.TargetFlow)
	set(&p.MaxVolumetricFlow, o.MaxVolumetricFlow)
	set(&p.Overhead, o.Overhead)
	set(&p.PricePerKg, o.PricePerKg)
	set(&p.PowerDraw, o.PowerDraw)
	set(&p.EnergyPrice, o.EnergyPrice)
	set(&p.MaintenancePerHour, o.MaintenancePerHour)
	set(&p.Margin, o.Margin)
	set(&p.FilamentDiameter, o.FilamentDiameter)
	set(&p.LayerHeight, o.LayerHeight)

	if err := p.Validate(); err != nil {
		return PrintParameters{}, err
	}
	return p, nil
}

// ValidationError describes a parameter outside its allowed range
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks the material and every numeric range. All violations are
// reported; use errors.As to reach an individual *ValidationError.
func (p PrintParameters) Validate() error {
	var err error

	if _, densityErr := Density(p.Material); densityErr != nil {
		err = multierr.Append(err, densityErr)
	}

	ratios := []struct {
		field string
		value float64
	}{
		{"infill", p.Infill},
		{"wallFactor", p.WallFactor},
		{"topBottomFactor", p.TopBottomFactor},
		{"overhead", p.Overhead},
		{"margin", p.Margin},
	}
	for _, r := range ratios {
		if !(r.value >= 0 && r.value <= 1) {
			err = multierr.Append(err, &ValidationError{Field: r.field, Value: r.value, Reason: "must be between 0 and 1"})
		}
	}

	positives := []struct {
		field string
		value float64
	}{
		{"targetFlow", p.TargetFlow},
		{"maxVolumetricFlow", p.MaxVolumetricFlow},
		{"pricePerKg", p.PricePerKg},
		{"powerDraw", p.PowerDraw},
		{"energyPrice", p.EnergyPrice},
		{"maintenancePerHour", p.MaintenancePerHour},
		{"filamentDiameter", p.FilamentDiameter},
		{"layerHeight", p.LayerHeight},
	}
	for _, r := range positives {
		if !(r.value > 0) || math.IsInf(r.value, 1) {
			err = multierr.Append(err, &ValidationError{Field: r.field, Value: r.value, Reason: "must be positive"})
		}
	}

	return err
}
