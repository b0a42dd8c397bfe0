package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/printcost/pkg/analysis"
)

var infoJSON bool

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display geometry of a model",
	Long:  "Show bounding box, dimensions, triangle count, surface area, enclosed volume, winding and closure diagnostics.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(infoCmd)
}

type infoReport struct {
	File    string                    `json:"file"`
	Units   string                    `json:"units"`
	Metrics *analysis.GeometryMetrics `json:"metrics"`
	Closure analysis.ClosureReport    `json:"closure"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	l, err := newLoader()
	if err != nil {
		return err
	}
	model, err := l.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	metrics, err := analysis.AnalyzeMesh(model.Mesh)
	if err != nil {
		return err
	}
	closure := analysis.CheckClosure(model.Mesh)
	warnGeometry(metrics, closure)

	if infoJSON {
		return writeJSON(cmd.OutOrStdout(), infoReport{
			File:    model.Path,
			Units:   string(model.Units),
			Metrics: metrics,
			Closure: closure,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Model Information")
	fmt.Fprintln(out, "=================")
	fmt.Fprintf(out, "File: %s\n", model.Path)
	fmt.Fprintf(out, "Units: %s (converted to mm)\n\n", model.Units)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Triangles: %d\n", metrics.TriangleCount)
	fmt.Fprintf(out, "  Surface Area: %s\n", analysis.FormatMeasurement(metrics.SurfaceArea, "mm²"))
	fmt.Fprintf(out, "  Volume: %s\n", analysis.FormatMeasurement(metrics.Volume.Absolute, "mm³"))
	fmt.Fprintf(out, "  Signed Volume: %s\n", analysis.FormatMeasurement(metrics.Volume.Signed, "mm³"))
	fmt.Fprintf(out, "  Winding: %s\n\n", metrics.Winding)

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(metrics.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(metrics.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(metrics.Center))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %s\n", analysis.FormatMeasurement(metrics.Size.X, ""))
	fmt.Fprintf(out, "  Depth (Y): %s\n", analysis.FormatMeasurement(metrics.Size.Y, ""))
	fmt.Fprintf(out, "  Height (Z): %s\n", analysis.FormatMeasurement(metrics.Size.Z, ""))
	fmt.Fprintf(out, "  Diagonal: %s\n\n", analysis.FormatMeasurement(metrics.BoundingBox.Diagonal(), ""))

	fmt.Fprintln(out, "Closure:")
	fmt.Fprintf(out, "  Closed: %t\n", closure.Closed())
	fmt.Fprintf(out, "  Edges: %d\n", closure.Edges)
	fmt.Fprintf(out, "  Boundary Edges: %d\n", closure.BoundaryEdges)
	fmt.Fprintf(out, "  Non-manifold Edges: %d\n", closure.NonManifoldEdges)
	fmt.Fprintf(out, "  Inconsistent Edges: %d\n", closure.InconsistentEdges)
	return nil
}

// warnGeometry logs when the tetrahedron volume cannot be trusted
func warnGeometry(metrics *analysis.GeometryMetrics, closure analysis.ClosureReport) {
	if metrics.Winding == analysis.WindingInward {
		logger.Warn("mesh is wound inward, using absolute volume")
	}
	if !closure.Closed() {
		logger.Warn("mesh is not closed, volume may be wrong",
			zap.Int("boundaryEdges", closure.BoundaryEdges),
			zap.Int("nonManifoldEdges", closure.NonManifoldEdges),
			zap.Int("inconsistentEdges", closure.InconsistentEdges))
	}
}
