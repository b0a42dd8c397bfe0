package mesh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/printcost/pkg/stl"
)

// ErrUnsupportedFormat is returned for a source kind or extension the kernel cannot decode
var ErrUnsupportedFormat = errors.New("unsupported mesh format")

// Kind tags the container format of a Source
type Kind int

const (
	// Triangulated is a raw triangle soup (STL, ASCII or binary)
	Triangulated Kind = iota + 1
	// Packaged is a zipped 3D package with declared units (3MF)
	Packaged
)

func (k Kind) String() string {
	switch k {
	case Triangulated:
		return "triangulated"
	case Packaged:
		return "packaged"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Source is raw mesh bytes tagged with their format.
// Parse dispatches on Kind exactly once; everything downstream sees a Mesh.
type Source struct {
	Kind Kind
	Name string
	Data []byte
}

// KindForPath picks the source kind from a file extension
func KindForPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return Triangulated, nil
	case ".3mf":
		return Packaged, nil
	default:
		return 0, fmt.Errorf("%w: %s (expected .stl or .3mf)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// SourceFromFile reads path into a Source
func SourceFromFile(path string) (Source, error) {
	kind, err := KindForPath(path)
	if err != nil {
		return Source{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Source{Kind: kind, Name: filepath.Base(path), Data: data}, nil
}

// Parse decodes a source into a mesh and reports the units its coordinates
// are expressed in. The mesh is not rescaled; see analysis.Normalize.
func Parse(src Source) (*Mesh, Units, error) {
	switch src.Kind {
	case Triangulated:
		model, err := stl.ParseBytes(src.Data)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse STL %s: %w", src.Name, err)
		}
		return &Mesh{Positions: model.Positions()}, Millimeter, nil
	case Packaged:
		m, units, err := decode3MF(src.Data)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse 3MF %s: %w", src.Name, err)
		}
		return m, units, nil
	default:
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.Kind)
	}
}
