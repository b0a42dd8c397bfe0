package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/estimate"
	"github.com/philipparndt/printcost/pkg/slicer"
)

var (
	resinParams = estimate.DefaultResinParameters()
	resinAxis   string
	resinJSON   bool
)

var resinCmd = &cobra.Command{
	Use:   "resin [file]",
	Short: "Estimate resin use and exposure time",
	Long: `Slice the model at the resin layer height and integrate the layer areas
into resin volume, mass, cost and print duration (exposure plus lift per layer).`,
	Args: cobra.ExactArgs(1),
	RunE: runResin,
}

func init() {
	rootCmd.AddCommand(resinCmd)

	flags := resinCmd.Flags()
	flags.Float64Var(&resinParams.LayerHeight, "layer-height", resinParams.LayerHeight, "layer height in mm")
	flags.Float64Var(&resinParams.Density, "density", resinParams.Density, "resin density in g/ml")
	flags.Float64Var(&resinParams.CostPerLiter, "cost-per-liter", resinParams.CostPerLiter, "resin price per litre")
	flags.Float64Var(&resinParams.ExposureTime, "exposure", resinParams.ExposureTime, "exposure per layer in s")
	flags.Float64Var(&resinParams.LiftDistance, "lift-distance", resinParams.LiftDistance, "lift distance in mm")
	flags.Float64Var(&resinParams.LiftSpeed, "lift-speed", resinParams.LiftSpeed, "lift speed in mm/min")
	flags.StringVar(&resinAxis, "axis", "z", "build direction: x, y, z, -z or x,y,z")
	flags.BoolVar(&resinJSON, "json", false, "print JSON instead of text")
}

type resinReport struct {
	File       string                   `json:"file"`
	Parameters estimate.ResinParameters `json:"parameters"`
	Summary    estimate.ResinSummary    `json:"summary"`
}

func runResin(cmd *cobra.Command, args []string) error {
	if err := resinParams.Validate(); err != nil {
		return err
	}
	axis, err := parseAxis(resinAxis)
	if err != nil {
		return err
	}

	l, err := newLoader()
	if err != nil {
		return err
	}
	model, err := l.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	stack, err := slicer.SliceLayers(model.Mesh, axis, resinParams.LayerHeight)
	if err != nil {
		return err
	}
	summary := estimate.EstimateResin(stack, resinParams)

	if resinJSON {
		return writeJSON(cmd.OutOrStdout(), resinReport{File: model.Path, Parameters: resinParams, Summary: summary})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Resin Estimate")
	fmt.Fprintln(out, "==============")
	fmt.Fprintf(out, "File: %s\n", model.Path)
	fmt.Fprintf(out, "Layers: %d x %.3f mm\n", summary.Layers, resinParams.LayerHeight)
	fmt.Fprintf(out, "Volume: %s\n", analysis.FormatMeasurement(summary.Volume, "mm³"))
	fmt.Fprintf(out, "Mass: %s\n", analysis.FormatMeasurement(summary.Mass, "g"))
	fmt.Fprintf(out, "Cost: %.2f\n", summary.Cost)
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(summary.Duration*60))
	return nil
}
