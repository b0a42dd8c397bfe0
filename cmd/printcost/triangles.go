package main

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/philipparndt/printcost/pkg/analysis"
)

// triangles below this area in mm² count as degenerate
const degenerateArea = 1e-9

var (
	triCount    int
	triLargest  bool
	triSmallest bool
)

type triangleInfo struct {
	Index     int     `json:"index"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
	Vertices  string  `json:"vertices"`
}

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "Analyze triangles of a model",
	Long:  "Display triangle areas, perimeters and vertex positions; sliver and zero-area facets show up with --smallest.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runTriangles(cmd *cobra.Command, args []string) error {
	if triCount < 0 {
		return fmt.Errorf("--count must not be negative, got %d", triCount)
	}
	l, err := newLoader()
	if err != nil {
		return err
	}
	model, err := l.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	count := model.Mesh.TriangleCount()
	out := cmd.OutOrStdout()
	if count == 0 {
		fmt.Fprintln(out, "Model has no triangles")
		return nil
	}

	triangles := make([]triangleInfo, count)
	for i := range triangles {
		tri := model.Mesh.Triangle(i)
		triangles[i] = triangleInfo{
			Index:     i,
			Area:      tri.Area(),
			Perimeter: tri.Perimeter(),
			Vertices: fmt.Sprintf("%s, %s, %s",
				analysis.FormatVector(tri.V1),
				analysis.FormatVector(tri.V2),
				analysis.FormatVector(tri.V3)),
		}
	}

	areas := lo.Map(triangles, func(t triangleInfo, _ int) float64 { return t.Area })
	totalArea := lo.Sum(areas)
	degenerate := lo.CountBy(areas, func(a float64) bool { return a < degenerateArea })

	var title string
	switch {
	case triLargest:
		slices.SortStableFunc(triangles, func(a, b triangleInfo) int { return cmp.Compare(b.Area, a.Area) })
		title = fmt.Sprintf("Top %d Largest Triangles", triCount)
	case triSmallest:
		slices.SortStableFunc(triangles, func(a, b triangleInfo) int { return cmp.Compare(a.Area, b.Area) })
		title = fmt.Sprintf("Top %d Smallest Triangles", triCount)
	default:
		title = fmt.Sprintf("First %d Triangles", triCount)
	}

	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total triangles: %d\n", count)
	fmt.Fprintf(out, "Degenerate triangles: %d\n", degenerate)
	fmt.Fprintf(out, "Total surface area: %s\n", analysis.FormatMeasurement(totalArea, "mm²"))
	fmt.Fprintf(out, "Min triangle area: %s\n", analysis.FormatMeasurement(lo.Min(areas), "mm²"))
	fmt.Fprintf(out, "Max triangle area: %s\n", analysis.FormatMeasurement(lo.Max(areas), "mm²"))
	fmt.Fprintf(out, "Avg triangle area: %s\n\n", analysis.FormatMeasurement(totalArea/float64(count), "mm²"))

	for _, tri := range triangles[:min(triCount, count)] {
		fmt.Fprintf(out, "Triangle #%d:\n", tri.Index)
		fmt.Fprintf(out, "  Area: %s\n", analysis.FormatMeasurement(tri.Area, "mm²"))
		fmt.Fprintf(out, "  Perimeter: %s\n", analysis.FormatMeasurement(tri.Perimeter, "mm"))
		fmt.Fprintf(out, "  Vertices: %s\n\n", tri.Vertices)
	}
	return nil
}
