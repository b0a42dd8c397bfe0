package estimate

import (
	"github.com/philipparndt/printcost/pkg/slicer"
)

// ResinParameters describes a masked-resin printer
type ResinParameters struct {
	LayerHeight  float64 `json:"layerHeight" yaml:"layerHeight"`   // mm
	Density      float64 `json:"density" yaml:"density"`           // g/ml
	CostPerLiter float64 `json:"costPerLiter" yaml:"costPerLiter"` // currency per litre
	ExposureTime float64 `json:"exposureTime" yaml:"exposureTime"` // s per layer
	LiftDistance float64 `json:"liftDistance" yaml:"liftDistance"` // mm
	LiftSpeed    float64 `json:"liftSpeed" yaml:"liftSpeed"`       // mm/min
}

// DefaultResinParameters returns the built-in resin settings
func DefaultResinParameters() ResinParameters {
	return ResinParameters{
		LayerHeight:  0.05,
		Density:      1.1,
		CostPerLiter: 70,
		ExposureTime: 2.5,
		LiftDistance: 6,
		LiftSpeed:    180,
	}
}

// Validate checks that every resin setting is positive
func (p ResinParameters) Validate() error {
	fields := []struct {
		field string
		value float64
	}{
		{"layerHeight", p.LayerHeight},
		{"density", p.Density},
		{"costPerLiter", p.CostPerLiter},
		{"exposureTime", p.ExposureTime},
		{"liftDistance", p.LiftDistance},
		{"liftSpeed", p.LiftSpeed},
	}
	for _, f := range fields {
		if !(f.value > 0) {
			return &ValidationError{Field: f.field, Value: f.value, Reason: "must be positive"}
		}
	}
	return nil
}

// ResinSummary aggregates a layer stack into resin use and exposure time
type ResinSummary struct {
	Layers   int     `json:"layers"`
	Volume   float64 `json:"volume"`   // mm³
	Mass     float64 `json:"mass"`     // g
	Cost     float64 `json:"cost"`     // currency
	Duration float64 `json:"duration"` // minutes
}

// EstimateResin integrates the stack's layer areas at the stack's own pitch.
// Every layer costs one exposure plus one lift cycle.
func EstimateResin(stack *slicer.LayerStack, p ResinParameters) ResinSummary {
	if stack == nil {
		return ResinSummary{}
	}

	volume := stack.Volume()
	millilitres := volume * 0.001
	summary := ResinSummary{
		Layers: len(stack.Layers),
		Volume: volume,
		Mass:   millilitres * p.Density,
		Cost:   millilitres / 1000 * p.CostPerLiter,
	}
	if p.LiftSpeed > 0 {
		perLayer := p.ExposureTime/60 + p.LiftDistance/p.LiftSpeed
		summary.Duration = float64(summary.Layers) * perLayer
	}
	return summary
}
