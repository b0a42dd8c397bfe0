package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/printcost/internal/loader"
	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/estimate"
	"github.com/philipparndt/printcost/pkg/gcode"
)

var (
	estimateProfile  string
	estimateMaterial string
	estimateGCode    string
	estimateJSON     bool
)

// parameterFlags maps numeric flags onto Overrides fields
var parameterFlags = []struct {
	name  string
	usage string
	field func(*estimate.Overrides) **float64
}{
	{"infill", "infill ratio 0..1", func(o *estimate.Overrides) **float64 { return &o.Infill }},
	{"wall-factor", "wall share of the volume 0..1", func(o *estimate.Overrides) **float64 { return &o.WallFactor }},
	{"top-bottom-factor", "top and bottom share of the volume 0..1", func(o *estimate.Overrides) **float64 { return &o.TopBottomFactor }},
	{"target-flow", "target volumetric flow in mm³/s", func(o *estimate.Overrides) **float64 { return &o.TargetFlow }},
	{"max-flow", "maximum volumetric flow in mm³/s", func(o *estimate.Overrides) **float64 { return &o.MaxVolumetricFlow }},
	{"overhead", "time overhead ratio 0..1", func(o *estimate.Overrides) **float64 { return &o.Overhead }},
	{"price-per-kg", "filament price per kg", func(o *estimate.Overrides) **float64 { return &o.PricePerKg }},
	{"power", "printer power draw in W", func(o *estimate.Overrides) **float64 { return &o.PowerDraw }},
	{"energy-price", "energy price per kWh", func(o *estimate.Overrides) **float64 { return &o.EnergyPrice }},
	{"maintenance", "maintenance cost per hour", func(o *estimate.Overrides) **float64 { return &o.MaintenancePerHour }},
	{"margin", "margin ratio 0..1", func(o *estimate.Overrides) **float64 { return &o.Margin }},
	{"filament-diameter", "filament diameter in mm", func(o *estimate.Overrides) **float64 { return &o.FilamentDiameter }},
	{"layer-height", "layer height in mm", func(o *estimate.Overrides) **float64 { return &o.LayerHeight }},
}

var estimateCmd = &cobra.Command{
	Use:   "estimate [files...]",
	Short: "Estimate filament, time and cost of a print",
	Long: `Estimate mass, filament length, print time and itemized cost for one or
more models. Parameters come from the built-in defaults, then the profile
(--profile or PRINTCOST_PROFILE), then individual flags. --gcode replaces the
heuristic time and filament length with values interpreted from a G-code file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEstimate,
}

func init() {
	rootCmd.AddCommand(estimateCmd)

	addParameterFlags(estimateCmd)
	estimateCmd.Flags().BoolVar(&estimateJSON, "json", false, "print JSON instead of text")
}

// addParameterFlags registers the print parameter flags shared by estimate and watch
func addParameterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&estimateProfile, "profile", "p", "", "YAML print profile")
	flags.StringVarP(&estimateMaterial, "material", "m", "", "material: "+strings.Join(estimate.Materials(), ", "))
	flags.StringVar(&estimateGCode, "gcode", "", "G-code file to take time and filament length from")
	for _, f := range parameterFlags {
		flags.Float64(f.name, 0, f.usage)
	}
}

type estimateReport struct {
	File      string                    `json:"file"`
	Metrics   *analysis.GeometryMetrics `json:"metrics"`
	Breakdown *estimate.Breakdown       `json:"breakdown"`
}

func runEstimate(cmd *cobra.Command, args []string) error {
	if estimateGCode != "" && len(args) > 1 {
		return errors.New("--gcode applies to a single model")
	}

	overrides, err := estimateOverrides(cmd)
	if err != nil {
		return err
	}
	var override *gcode.Override
	if estimateGCode != "" {
		o, err := gcode.LoadOverride(estimateGCode)
		if err != nil {
			return err
		}
		override = &o
	}

	l, err := newLoader()
	if err != nil {
		return err
	}
	models, err := l.LoadAll(cmd.Context(), args)
	if err != nil {
		return err
	}

	reports := make([]estimateReport, 0, len(models))
	for _, model := range models {
		report, err := estimateModel(model, overrides, override)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	if estimateJSON {
		if len(reports) == 1 {
			return writeJSON(cmd.OutOrStdout(), reports[0])
		}
		return writeJSON(cmd.OutOrStdout(), reports)
	}
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		printBreakdown(cmd.OutOrStdout(), report)
	}
	return nil
}

// estimateOverrides layers the profile and the changed flags over each other
func estimateOverrides(cmd *cobra.Command) (estimate.Overrides, error) {
	var overrides estimate.Overrides

	profile := cfg.Estimate.Profile
	if estimateProfile != "" {
		profile = estimateProfile
	}
	if profile != "" {
		loaded, err := estimate.LoadProfile(profile)
		if err != nil {
			return estimate.Overrides{}, err
		}
		logger.Debug("profile loaded", zap.String("path", profile))
		overrides = loaded
	}

	var fromFlags estimate.Overrides
	if cmd.Flags().Changed("material") {
		material := estimateMaterial
		fromFlags.Material = &material
	}
	for _, f := range parameterFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			return estimate.Overrides{}, err
		}
		*f.field(&fromFlags) = &value
	}
	return overrides.Merge(fromFlags), nil
}

// estimateModel measures one loaded model and prices it
func estimateModel(model *loader.Model, overrides estimate.Overrides, override *gcode.Override) (estimateReport, error) {
	metrics, err := analysis.AnalyzeMesh(model.Mesh)
	if err != nil {
		return estimateReport{}, err
	}
	warnGeometry(metrics, analysis.CheckClosure(model.Mesh))

	breakdown, err := estimate.Estimate(metrics.Volume.Absolute, overrides)
	if err != nil {
		return estimateReport{}, err
	}
	if override != nil {
		overridden := breakdown.WithOverride(*override)
		breakdown = &overridden
	}
	return estimateReport{File: model.Path, Metrics: metrics, Breakdown: breakdown}, nil
}

func printBreakdown(out io.Writer, report estimateReport) {
	b := report.Breakdown
	fmt.Fprintln(out, "Print Estimate")
	fmt.Fprintln(out, "==============")
	fmt.Fprintf(out, "File: %s\n", report.File)
	fmt.Fprintf(out, "Material: %s\n\n", b.Params.Material)

	fmt.Fprintln(out, "Material Use:")
	fmt.Fprintf(out, "  Model Volume: %s\n", analysis.FormatMeasurement(b.VolumeModel, "mm³"))
	fmt.Fprintf(out, "  Extruded Volume: %s\n", analysis.FormatMeasurement(b.ExtrudedVolume, "mm³"))
	fmt.Fprintf(out, "  Mass: %s\n", analysis.FormatMeasurement(b.Mass, "g"))
	fmt.Fprintf(out, "  Filament: %s\n\n", analysis.FormatMeasurement(b.FilamentLength/1000, "m"))

	fmt.Fprintln(out, "Time:")
	fmt.Fprintf(out, "  Duration: %s\n", formatDuration(b.Time))
	if b.TimeSource == estimate.TimeSourceGCode {
		fmt.Fprintf(out, "  Source: G-code (%s)\n\n", b.OverrideSource)
	} else {
		fmt.Fprintf(out, "  Source: %s\n\n", b.TimeSource)
	}

	fmt.Fprintln(out, "Cost:")
	fmt.Fprintf(out, "  Filament: %.2f\n", b.Costs.Filament)
	fmt.Fprintf(out, "  Energy: %.2f\n", b.Costs.Energy)
	fmt.Fprintf(out, "  Maintenance: %.2f\n", b.Costs.Maintenance)
	fmt.Fprintf(out, "  Margin: %.2f\n", b.Costs.Margin)
	fmt.Fprintf(out, "  Total: %.2f\n", b.Costs.Total)
}
