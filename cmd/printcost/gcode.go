package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/gcode"
)

var gcodeJSON bool

var gcodeCmd = &cobra.Command{
	Use:   "gcode [file]",
	Short: "Estimate print time and filament from G-code",
	Long:  "Interpret G0/G1 moves of a G-code program and report the time and filament they take.",
	Args:  cobra.ExactArgs(1),
	RunE:  runGCode,
}

func init() {
	gcodeCmd.Flags().BoolVar(&gcodeJSON, "json", false, "print JSON instead of text")
	rootCmd.AddCommand(gcodeCmd)
}

func runGCode(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open G-code: %w", err)
	}
	defer file.Close()

	result, err := gcode.ParseReader(file)
	if err != nil {
		return err
	}

	if gcodeJSON {
		return writeJSON(cmd.OutOrStdout(), result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "G-code Estimate")
	fmt.Fprintln(out, "===============")
	fmt.Fprintf(out, "File: %s\n", filepath.Base(args[0]))
	fmt.Fprintf(out, "Lines: %d\n", result.Lines)
	fmt.Fprintf(out, "Moves: %d\n", result.Moves)
	fmt.Fprintf(out, "Time: %s\n", formatDuration(result.Time))
	fmt.Fprintf(out, "Filament: %s\n", analysis.FormatMeasurement(result.FilamentLength, "mm"))
	return nil
}
