package gcode

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAbsoluteProgram(t *testing.T) {
	program := strings.Join([]string{
		"G90",
		"M82",
		"G1 X10 F1200",  // 10 mm at 20 mm/s
		"G1 X20 E2",     // 10 mm, 2 mm filament
		"G1 Y10 F600",   // 10 mm at 10 mm/s
		"G1 E1.5",       // retraction
		"G1 X20 Y10 E3", // no travel, 1.5 mm filament
	}, "\n")

	estimate := Parse(program)
	assert.InDelta(t, 2.0, estimate.Time, 1e-9)
	assert.InDelta(t, 3.5, estimate.FilamentLength, 1e-9)
	assert.Equal(t, 7, estimate.Lines)
	assert.Equal(t, 5, estimate.Moves)
}

func TestParseRelativeModes(t *testing.T) {
	program := `G91
M83
G1 X3 Y4 F600 E1
G1 X3 Y4 E-0.5
G1 X-6 Y-8 E2
`
	estimate := Parse(program)
	// 5 + 5 + 10 mm at 10 mm/s
	assert.InDelta(t, 2.0, estimate.Time, 1e-9)
	assert.InDelta(t, 3.0, estimate.FilamentLength, 1e-9)
}

func TestParseFeedRatePersistsAndIgnoresNonPositive(t *testing.T) {
	program := `G0 X10
G1 X20 F600
G1 X30 F0
G1 X40 F-100
`
	estimate := Parse(program)
	// first move has no feed rate yet, the other three run at 10 mm/s
	assert.InDelta(t, 3.0, estimate.Time, 1e-9)
}

func TestParseComments(t *testing.T) {
	program := "; header comment\n" +
		"G1 X10 F600 ; trailing comment with G1 X1000\n" +
		"G1 (inline X500) X20\n" +
		"(only a comment)\n" +
		"G1 X30 ; E100"

	estimate := Parse(program)
	assert.InDelta(t, 3.0, estimate.Time, 1e-9)
	assert.Zero(t, estimate.FilamentLength)
	assert.Equal(t, 3, estimate.Lines)
}

func TestParseSemicolonEndsLine(t *testing.T) {
	// everything after the first ';' is ignored, including further commands
	estimate := Parse("G1 X10 F600; G1 X20")
	assert.InDelta(t, 1.0, estimate.Time, 1e-9)
}

func TestParseSetPosition(t *testing.T) {
	program := `G1 X10 F600 E5
G92 X0 E0
G1 X10 E2
`
	estimate := Parse(program)
	assert.InDelta(t, 2.0, estimate.Time, 1e-9)
	assert.InDelta(t, 7.0, estimate.FilamentLength, 1e-9)
}

func TestParseCaseInsensitiveAndPadded(t *testing.T) {
	estimate := Parse("g01 x10 f600 e1\r\n  G00   Y10  \r\n")
	assert.InDelta(t, 2.0, estimate.Time, 1e-9)
	assert.InDelta(t, 1.0, estimate.FilamentLength, 1e-9)
	assert.Equal(t, 2, estimate.Moves)
}

func TestParseSkipsMalformed(t *testing.T) {
	program := `G1 Xabc F600
G1 X10 Y
garbage line
Gxx X5
M104 S210
G28
G1 X20 E1.2.3
`
	estimate := Parse(program)
	// only the valid X arguments move: 10 mm then 10 mm at 10 mm/s
	assert.InDelta(t, 2.0, estimate.Time, 1e-9)
	// E1.2.3 reads its leading number
	assert.InDelta(t, 1.2, estimate.FilamentLength, 1e-9)
}

func TestParseSemicolonInsideParentheses(t *testing.T) {
	estimate := Parse("G1 X10 F600 (set; note) Y10 E1")
	assert.InDelta(t, math.Sqrt2, estimate.Time, 1e-9)
	assert.InDelta(t, 1.0, estimate.FilamentLength, 1e-9)
}

func TestParseNumericPrefix(t *testing.T) {
	// checksummed lines carry a "*NN" suffix on the last word
	estimate := Parse("G1 X10 F600*33\nG1 Y20*45 E2.5.1")
	assert.InDelta(t, 3.0, estimate.Time, 1e-9)
	assert.InDelta(t, 2.5, estimate.FilamentLength, 1e-9)

	tests := []struct {
		input string
		want  string
	}{
		{"20*45", "20"},
		{"1.2.3", "1.2"},
		{"-.5", "-.5"},
		{"1e3X", "1e3"},
		{"2e", "2"},
		{"abc", ""},
		{"-", ""},
		{".", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numericPrefix(tt.input), tt.input)
	}
}

func TestParseEmpty(t *testing.T) {
	assert.Equal(t, Estimate{}, Parse(""))
}

func TestParseReaderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := ParseReader(iotest.ErrReader(boom))
	require.ErrorIs(t, err, boom)
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.gcode")
	require.NoError(t, os.WriteFile(path, []byte("G1 X60 F3600 E4\n"), 0o644))

	override, err := LoadOverride(path)
	require.NoError(t, err)
	assert.Equal(t, "part.gcode", override.SourceFileName)
	assert.InDelta(t, 1.0, override.Time, 1e-9)
	assert.InDelta(t, 4.0, override.FilamentLength, 1e-9)

	_, err = LoadOverride(filepath.Join(t.TempDir(), "missing.gcode"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
