package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/philipparndt/printcost/pkg/geometry"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatDuration renders seconds as 1h2m3s
func formatDuration(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

// parseAxis accepts x, y, z with an optional sign, or three comma separated components
func parseAxis(value string) (geometry.Vector3, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch strings.TrimPrefix(value, "+") {
	case "x":
		return geometry.UnitX, nil
	case "y":
		return geometry.UnitY, nil
	case "z", "":
		return geometry.UnitZ, nil
	case "-x":
		return geometry.UnitX.Mul(-1), nil
	case "-y":
		return geometry.UnitY.Mul(-1), nil
	case "-z":
		return geometry.UnitZ.Mul(-1), nil
	}

	parts := strings.Split(value, ",")
	if len(parts) != 3 {
		return geometry.Vector3{}, fmt.Errorf("invalid axis %q: want x, y, z or three components", value)
	}
	var components [3]float64
	for i, part := range parts {
		c, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geometry.Vector3{}, fmt.Errorf("invalid axis %q: %w", value, err)
		}
		components[i] = c
	}
	axis := geometry.NewVector3(components[0], components[1], components[2])
	if axis.IsZero() {
		return geometry.Vector3{}, fmt.Errorf("invalid axis %q: zero vector", value)
	}
	return axis.Normalize(), nil
}
