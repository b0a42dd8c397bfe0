package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/estimate"
	"github.com/philipparndt/printcost/pkg/geometry"
	"github.com/philipparndt/printcost/pkg/slicer"
)

var (
	sliceLayerHeight float64
	sliceAxis        string
	sliceAt          float64
	sliceThickness   float64
	sliceEvery       int
	sliceJSON        bool
)

var sliceCmd = &cobra.Command{
	Use:   "slice [file]",
	Short: "Cut a model into layers",
	Long: `Slice the model along an axis. With --at a single plane through the
centred model is measured; otherwise the whole model is cut into layers of
--layer-height and summarized per layer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)

	sliceCmd.Flags().Float64Var(&sliceLayerHeight, "layer-height", estimate.DefaultLayerHeight, "layer pitch in mm")
	sliceCmd.Flags().StringVar(&sliceAxis, "axis", "z", "slicing direction: x, y, z, -z or x,y,z")
	sliceCmd.Flags().Float64Var(&sliceAt, "at", 0, "offset of a single plane from the model centre along the axis")
	sliceCmd.Flags().Float64Var(&sliceThickness, "thickness", slicer.DefaultThickness, "on-plane tolerance for --at")
	sliceCmd.Flags().IntVarP(&sliceEvery, "every", "n", 1, "print every n-th layer")
	sliceCmd.Flags().BoolVar(&sliceJSON, "json", false, "print JSON instead of text")
}

// layerRow is the per-layer summary; segments are omitted
type layerRow struct {
	Index     int              `json:"index"`
	Elevation float64          `json:"elevation"`
	Area      float64          `json:"area"`
	Perimeter float64          `json:"perimeter"`
	Contours  int              `json:"contours"`
	Centroid  geometry.Vector3 `json:"centroid"`
}

type stackReport struct {
	File        string           `json:"file"`
	Orientation geometry.Vector3 `json:"orientation"`
	LayerHeight float64          `json:"layerHeight"`
	Height      float64          `json:"height"`
	Volume      float64          `json:"volume"`
	MeshVolume  float64          `json:"meshVolume"`
	MaxArea     float64          `json:"maxArea"`
	Layers      []layerRow       `json:"layers"`
}

func runSlice(cmd *cobra.Command, args []string) error {
	axis, err := parseAxis(sliceAxis)
	if err != nil {
		return err
	}
	if sliceEvery < 1 {
		return fmt.Errorf("--every must be at least 1, got %d", sliceEvery)
	}

	l, err := newLoader()
	if err != nil {
		return err
	}
	model, err := l.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("at") {
		plane := geometry.NewPlane(axis.Mul(sliceAt), axis)
		section := slicer.SliceMesh(model.Mesh, plane, sliceThickness)
		return printSection(cmd, section)
	}

	stack, err := slicer.SliceLayers(model.Mesh, axis, sliceLayerHeight)
	if err != nil {
		return err
	}
	metrics, err := analysis.AnalyzeMesh(model.Mesh)
	if err != nil {
		return err
	}

	report := stackReport{
		File:        model.Path,
		Orientation: stack.Orientation,
		LayerHeight: stack.LayerHeight,
		Height:      stack.Height(),
		Volume:      stack.Volume(),
		MeshVolume:  metrics.Volume.Absolute,
		MaxArea:     stack.MaxArea(),
	}
	for i := 0; i < len(stack.Layers); i += sliceEvery {
		layer := stack.Layers[i]
		report.Layers = append(report.Layers, layerRow{
			Index:     i,
			Elevation: layer.Elevation,
			Area:      layer.Area,
			Perimeter: layer.Perimeter,
			Contours:  len(layer.Contours),
			Centroid:  layer.Centroid,
		})
	}

	if sliceJSON {
		return writeJSON(cmd.OutOrStdout(), report)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Layer Stack")
	fmt.Fprintln(out, "===========")
	fmt.Fprintf(out, "File: %s\n", report.File)
	fmt.Fprintf(out, "Orientation: %s\n", analysis.FormatVector(report.Orientation))
	fmt.Fprintf(out, "Layers: %d x %.3f mm\n", len(stack.Layers), report.LayerHeight)
	fmt.Fprintf(out, "Height: %s\n", analysis.FormatMeasurement(report.Height, "mm"))
	fmt.Fprintf(out, "Stack Volume: %s\n", analysis.FormatMeasurement(report.Volume, "mm³"))
	fmt.Fprintf(out, "Mesh Volume: %s\n", analysis.FormatMeasurement(report.MeshVolume, "mm³"))
	fmt.Fprintf(out, "Max Area: %s\n\n", analysis.FormatMeasurement(report.MaxArea, "mm²"))

	fmt.Fprintf(out, "%6s  %10s  %12s  %12s  %8s\n", "Layer", "Elevation", "Area", "Perimeter", "Contours")
	for _, row := range report.Layers {
		fmt.Fprintf(out, "%6d  %10.3f  %12.3f  %12.3f  %8d\n",
			row.Index, row.Elevation, row.Area, row.Perimeter, row.Contours)
	}
	return nil
}

func printSection(cmd *cobra.Command, section slicer.CrossSection) error {
	if sliceJSON {
		return writeJSON(cmd.OutOrStdout(), section)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Cross Section")
	fmt.Fprintln(out, "=============")
	if section.IsEmpty() {
		fmt.Fprintln(out, "Plane does not intersect the model")
		return nil
	}
	fmt.Fprintf(out, "Elevation: %s\n", analysis.FormatMeasurement(section.Elevation, "mm"))
	fmt.Fprintf(out, "Segments: %d\n", len(section.Segments))
	fmt.Fprintf(out, "Contours: %d\n", len(section.Contours))
	fmt.Fprintf(out, "Area: %s\n", analysis.FormatMeasurement(section.Area, "mm²"))
	fmt.Fprintf(out, "Perimeter: %s\n", analysis.FormatMeasurement(section.Perimeter, "mm"))
	fmt.Fprintf(out, "Centroid: %s\n", analysis.FormatVector(section.Centroid))
	fmt.Fprintf(out, "Bounding Radius: %s\n", analysis.FormatMeasurement(section.BoundingRadius, "mm"))
	return nil
}
