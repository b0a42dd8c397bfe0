// Package gcode derives print time and filament use by interpreting the
// motion commands of a G-code program.
package gcode

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/philipparndt/printcost/pkg/geometry"
)

// Estimate is the result of interpreting a program
type Estimate struct {
	Time           float64 `json:"time"`           // seconds
	FilamentLength float64 `json:"filamentLength"` // mm of filament pushed
	Lines          int     `json:"lines"`          // non-empty lines after comment removal
	Moves          int     `json:"moves"`          // G0/G1 commands
}

// Parse interprets text. Unknown commands and malformed arguments are
// skipped; it never fails.
func Parse(text string) Estimate {
	estimate, _ := ParseReader(strings.NewReader(text))
	return estimate
}

// ParseReader interprets a program streamed from r. Only read errors are
// returned.
func ParseReader(r io.Reader) (Estimate, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	m := newMachine()
	for scanner.Scan() {
		m.execute(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return m.result, fmt.Errorf("error reading G-code: %w", err)
	}
	return m.result, nil
}

// machine tracks the state needed to resolve motion
type machine struct {
	position          geometry.Vector3
	extruder          float64
	absolutePositions bool
	absoluteExtrusion bool
	feedRate          float64 // mm/min, 0 until the first positive F
	result            Estimate
}

func newMachine() *machine {
	return &machine{absolutePositions: true, absoluteExtrusion: true}
}

func (m *machine) execute(raw string) {
	line := stripComments(raw)
	if line == "" {
		return
	}
	m.result.Lines++

	fields := strings.Fields(line)
	letter, number, ok := parseCommand(fields[0])
	if !ok {
		return
	}
	args := parseArgs(fields[1:])

	switch {
	case letter == 'G' && number == 90:
		m.absolutePositions = true
	case letter == 'G' && number == 91:
		m.absolutePositions = false
	case letter == 'G' && number == 92:
		m.setOrigin(args)
	case letter == 'M' && number == 82:
		m.absoluteExtrusion = true
	case letter == 'M' && number == 83:
		m.absoluteExtrusion = false
	case letter == 'G' && (number == 0 || number == 1):
		m.move(args)
	}
}

// setOrigin redefines the current coordinates without moving
func (m *machine) setOrigin(args map[byte]float64) {
	if x, ok := args['X']; ok {
		m.position.X = x
	}
	if y, ok := args['Y']; ok {
		m.position.Y = y
	}
	if z, ok := args['Z']; ok {
		m.position.Z = z
	}
	if e, ok := args['E']; ok {
		m.extruder = e
	}
}

func (m *machine) move(args map[byte]float64) {
	m.result.Moves++

	if f, ok := args['F']; ok && f > 0 {
		m.feedRate = f
	}

	next := m.position
	if x, ok := args['X']; ok {
		next.X = m.resolve(m.position.X, x)
	}
	if y, ok := args['Y']; ok {
		next.Y = m.resolve(m.position.Y, y)
	}
	if z, ok := args['Z']; ok {
		next.Z = m.resolve(m.position.Z, z)
	}

	if e, ok := args['E']; ok {
		delta := e
		if m.absoluteExtrusion {
			delta = e - m.extruder
			m.extruder = e
		} else {
			m.extruder += e
		}
		// retractions move the extruder but never reduce consumption
		if delta > 0 {
			m.result.FilamentLength += delta
		}
	}

	if distance := next.Distance(m.position); distance > 0 && m.feedRate > 0 {
		m.result.Time += distance / (m.feedRate / 60)
	}
	m.position = next
}

func (m *machine) resolve(current, value float64) float64 {
	if m.absolutePositions {
		return value
	}
	return current + value
}

// stripComments removes parenthesised comments, then everything after ';'
func stripComments(line string) string {
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			break
		}
		closing := strings.IndexByte(line[open:], ')')
		if closing < 0 {
			break
		}
		line = line[:open] + " " + line[open+closing+1:]
	}
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// parseCommand splits a word like "g01" into 'G' and 1
func parseCommand(word string) (byte, int, bool) {
	letter := unicode.ToUpper(rune(word[0]))
	if letter > unicode.MaxASCII || !unicode.IsLetter(letter) {
		return 0, 0, false
	}

	digits := word[1:]
	end := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		digits = digits[:end]
	}
	number, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false
	}
	return byte(letter), number, true
}

// parseArgs reads letter-value words; later words win and bad values are skipped
func parseArgs(words []string) map[byte]float64 {
	args := make(map[byte]float64, len(words))
	for _, word := range words {
		if len(word) < 2 {
			continue
		}
		letter := unicode.ToUpper(rune(word[0]))
		if letter > unicode.MaxASCII || !unicode.IsLetter(letter) {
			continue
		}
		value, err := strconv.ParseFloat(numericPrefix(word[1:]), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		args[byte(letter)] = value
	}
	return args
}

// numericPrefix returns the longest leading decimal number of s, so "20*45"
// (a checksum suffix) reads as 20 and "1.2.3" as 1.2
func numericPrefix(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for ; i < len(s) && isDigit(s[i]); i++ {
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for ; i < len(s) && isDigit(s[i]); i++ {
			digits++
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return s[:i]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
