package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/printcost/internal/config"
	"github.com/philipparndt/printcost/internal/loader"
	"github.com/philipparndt/printcost/internal/logging"
	"github.com/philipparndt/printcost/pkg/mesh"
	"github.com/philipparndt/printcost/version"
)

var (
	logLevel  string
	logFormat string
	logFile   string
	unitsName string

	cfg         config.Config
	logger      = zap.NewNop()
	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "printcost",
	Short: "Measure meshes and estimate 3D print time and cost",
	Long: `printcost analyzes STL, 3MF and OpenSCAD models: it reports geometry,
slices the model into layers, estimates filament or resin use, print time
and cost, and can replace the time estimate with figures derived from a
G-code file.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogger()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (env "+config.EnvLogLevel+")")
	flags.StringVar(&logFormat, "log-format", "", "log encoding: console or json (env "+config.EnvLogFormat+")")
	flags.StringVar(&logFile, "log-file", "", "also write JSON logs to this rotating file (env "+config.EnvLogFile+")")
	flags.StringVar(&unitsName, "units", "", "override model units: micron, mm, cm, inch, foot, meter")
}

// setup resolves configuration and builds the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		loaded.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		loaded.Log.File = logFile
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	logger, closeLogger, err = logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: cmd.ErrOrStderr(),
	})
	return err
}

// newLoader applies the --units flag to a fresh loader
func newLoader() (*loader.Loader, error) {
	l := loader.New(logger)
	if unitsName != "" {
		units, err := mesh.ParseUnits(unitsName)
		if err != nil {
			return nil, err
		}
		l.Units = units
	}
	return l, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
