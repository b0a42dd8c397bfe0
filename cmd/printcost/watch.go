package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/printcost/internal/loader"
	"github.com/philipparndt/printcost/internal/recompute"
	"github.com/philipparndt/printcost/pkg/estimate"
	"github.com/philipparndt/printcost/pkg/gcode"
	"github.com/philipparndt/printcost/pkg/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-estimate a model whenever it changes",
	Long: `Watch a model (and, for OpenSCAD, every file it includes) plus an optional
G-code file, and print a fresh estimate after each change. Bursts of changes
are coalesced; an estimate still running when a newer change arrives is
cancelled and its result discarded.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addParameterFlags(watchCmd)
}

// watchResult is one recompute outcome plus the files it read
type watchResult struct {
	report estimateReport
	files  []string
}

type watchSession struct {
	path      string
	gcodePath string
	overrides estimate.Overrides
	loader    *loader.Loader
	files     *watcher.FileWatcher
	scheduler *recompute.Scheduler[watchResult]

	// mu serializes output and watch list updates from the delivery goroutine
	mu      sync.Mutex
	out     io.Writer
	watched []string
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	overrides, err := estimateOverrides(cmd)
	if err != nil {
		return err
	}
	l, err := newLoader()
	if err != nil {
		return err
	}
	files, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer files.Close()

	session := &watchSession{
		path:      args[0],
		gcodePath: estimateGCode,
		overrides: overrides,
		loader:    l,
		files:     files,
		out:       cmd.OutOrStdout(),
	}
	session.scheduler = recompute.New(cfg.Watch.Debounce, recompute.Goroutine, session.deliver, logger)
	defer session.scheduler.Close()

	// the first load fails fast and tells us what to watch
	first, err := session.compute(ctx)
	if err != nil {
		return err
	}
	if err := session.rewatch(first.files); err != nil {
		return err
	}
	files.Start()

	session.print("initial", first.report)
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %d file(s), press Ctrl+C to stop\n", len(first.files))

	<-ctx.Done()
	logger.Info("watch stopped")
	return nil
}

// compute loads the model and the optional G-code and prices them
func (s *watchSession) compute(ctx context.Context) (watchResult, error) {
	model, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return watchResult{}, err
	}
	watched := append([]string(nil), model.Watch...)

	var override *gcode.Override
	if s.gcodePath != "" {
		o, err := gcode.LoadOverride(s.gcodePath)
		if err != nil {
			return watchResult{}, err
		}
		override = &o
		watched = append(watched, s.gcodePath)
	}

	report, err := estimateModel(model, s.overrides, override)
	if err != nil {
		return watchResult{}, err
	}
	return watchResult{report: report, files: watched}, nil
}

// changed is the file watcher callback
func (s *watchSession) changed(path string) {
	id := s.scheduler.Submit("changed "+filepath.Base(path), s.compute)
	logger.Info("file changed", zap.String("path", path), zap.String("request", id))
}

func (s *watchSession) deliver(result recompute.Result[watchResult]) {
	if result.Err != nil {
		logger.Error("estimate failed", zap.String("request", result.ID), zap.Error(result.Err))
		return
	}
	if err := s.rewatch(result.Value.files); err != nil {
		logger.Warn("failed to update watch list", zap.Error(err))
	}
	s.print(result.Reason, result.Value.report)
}

// rewatch replaces the watch list when the set of dependencies changed
func (s *watchSession) rewatch(files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Equal(s.watched, files) {
		return nil
	}
	if err := s.files.RemoveAll(); err != nil {
		return err
	}
	if err := s.files.Watch(files, s.changed); err != nil {
		return err
	}
	s.watched = files
	return nil
}

func (s *watchSession) print(reason string, report estimateReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.out, "\n[%s] %s\n", time.Now().Format(time.TimeOnly), reason)
	printBreakdown(s.out, report)
}
