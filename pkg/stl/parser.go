package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/philipparndt/printcost/pkg/geometry"
)

const (
	headerSize      = 80
	binaryPrefix    = headerSize + 4
	binaryFacetSize = 50
)

// ErrTruncated is returned when a binary STL ends before its declared facet count
var ErrTruncated = errors.New("stl: truncated binary data")

// Parse reads an STL file and returns a Model
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes an in-memory STL buffer.
// It automatically detects whether the data is ASCII or binary format.
func ParseBytes(data []byte) (*Model, error) {
	if isBinary(data) {
		return parseBinary(bytes.NewReader(data))
	}

	// Check if it's ASCII format (starts with "solid ")
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("solid")) {
		return parseASCII(bytes.NewReader(trimmed))
	}

	return parseBinary(bytes.NewReader(data))
}

// isBinary reports whether the buffer length matches its declared facet count.
// Some exporters write binary files whose header starts with "solid", so the
// size check takes precedence over the keyword.
func isBinary(data []byte) bool {
	if len(data) < binaryPrefix {
		return false
	}
	count := binary.LittleEndian.Uint32(data[headerSize:binaryPrefix])
	return uint64(len(data)) == uint64(binaryPrefix)+uint64(count)*binaryFacetSize
}

// parseASCII parses an ASCII STL stream
func parseASCII(reader io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) >= 5 && fields[1] == "normal" {
				normal, err := parseTriple(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid facet normal: %w", lineNo, err)
				}
				currentNormal = normal
			}

		case "vertex":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs three coordinates", lineNo)
			}
			vertex, err := parseTriple(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid vertex: %w", lineNo, err)
			}
			vertices = append(vertices, vertex)

		case "endfacet":
			if len(vertices) == 3 {
				model.AddTriangle(geometry.NewTriangle(
					currentNormal,
					vertices[0],
					vertices[1],
					vertices[2],
				))
			}
			vertices = vertices[:0]
			currentNormal = geometry.Vector3{}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}

	return model, nil
}

func parseTriple(fields []string) (geometry.Vector3, error) {
	var out [3]float64
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		out[i] = value
	}
	return geometry.NewVector3(out[0], out[1], out[2]), nil
}

// binaryFacet mirrors the 50-byte on-disk facet record
type binaryFacet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// parseBinary parses a binary STL stream
func parseBinary(reader io.Reader) (*Model, error) {
	model := NewModel("")

	header := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Extract name from header (if present)
	if name := strings.TrimSpace(string(bytes.TrimRight(header, "\x00"))); name != "" {
		model.Name = name
	}

	var triangleCount uint32
	if err := binary.Read(reader, binary.LittleEndian, &triangleCount); err != nil {
		return nil, fmt.Errorf("failed to read triangle count: %w", err)
	}

	model.Triangles = make([]geometry.Triangle, 0, triangleCount)
	for i := uint32(0); i < triangleCount; i++ {
		var facet binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("triangle %d of %d: %w", i, triangleCount, ErrTruncated)
			}
			return nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}

		model.AddTriangle(geometry.NewTriangle(
			toVector(facet.Normal),
			toVector(facet.Vertices[0]),
			toVector(facet.Vertices[1]),
			toVector(facet.Vertices[2]),
		))
	}

	return model, nil
}

func toVector(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// WriteBinary encodes the model as binary STL
func WriteBinary(w io.Writer, model *Model) error {
	header := make([]byte, headerSize)
	copy(header, model.Name)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(model.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, t := range model.Triangles {
		facet := binaryFacet{Normal: toFloat32(t.Normal)}
		for j, v := range t.Vertices() {
			facet.Vertices[j] = toFloat32(v)
		}
		if err := binary.Write(w, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return nil
}

func toFloat32(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
