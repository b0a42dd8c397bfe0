// Package loader turns file paths into normalized meshes, rendering OpenSCAD
// sources on the way, and reports which files to watch for changes.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/philipparndt/printcost/pkg/analysis"
	"github.com/philipparndt/printcost/pkg/mesh"
	"github.com/philipparndt/printcost/pkg/openscad"
)

// Model is a loaded mesh in millimetres, centred on the origin
type Model struct {
	Path  string
	Mesh  *mesh.Mesh
	Units mesh.Units
	// Watch lists the source file and everything it depends on
	Watch      []string
	IsOpenSCAD bool
}

// Loader reads STL, 3MF and OpenSCAD files
type Loader struct {
	logger *zap.Logger
	// Units overrides the units declared by (or assumed for) a file when set
	Units mesh.Units
	// renderer builds the OpenSCAD renderer for a work directory
	renderer func(workDir string) *openscad.Renderer
}

// New creates a loader
func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger, renderer: openscad.NewRenderer}
}

// Load reads and normalizes one file
func (l *Loader) Load(ctx context.Context, path string) (*Model, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	var (
		src   mesh.Source
		watch = []string{abs}
		scad  = strings.EqualFold(filepath.Ext(abs), ".scad")
	)

	if scad {
		renderer := l.renderer(filepath.Dir(abs))
		l.logger.Info("rendering OpenSCAD file", zap.String("path", abs))
		data, err := renderer.RenderToSTL(ctx, abs)
		if err != nil {
			return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
		}
		src = mesh.Source{Kind: mesh.Triangulated, Name: filepath.Base(abs), Data: data}

		if deps, err := renderer.ResolveDependencies(abs); err == nil {
			watch = deps
		} else {
			l.logger.Warn("failed to resolve dependencies", zap.String("path", abs), zap.Error(err))
		}
	} else {
		src, err = mesh.SourceFromFile(abs)
		if err != nil {
			return nil, err
		}
	}

	raw, units, err := mesh.Parse(src)
	if err != nil {
		return nil, err
	}
	if l.Units != "" {
		units = l.Units
	}

	normalized, err := analysis.Normalize(raw, units)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name, err)
	}

	l.logger.Debug("model loaded",
		zap.String("path", abs),
		zap.Stringer("kind", src.Kind),
		zap.String("units", string(units)),
		zap.Int("triangles", normalized.TriangleCount()))

	return &Model{Path: abs, Mesh: normalized, Units: units, Watch: watch, IsOpenSCAD: scad}, nil
}

// LoadAll loads paths concurrently and returns the models in input order.
// The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, paths []string) ([]*Model, error) {
	models := make([]*Model, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		group.Go(func() error {
			model, err := l.Load(ctx, path)
			if err != nil {
				return err
			}
			models[i] = model
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return models, nil
}
