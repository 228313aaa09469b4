package machine

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	lightsRx  = regexp.MustCompile(`\[([.#]+)\]`)
	buttonRx  = regexp.MustCompile(`\(([\d,]+)\)`)
	joltageRx = regexp.MustCompile(`\{([\d,]+)\}`)
)

// maxLineSize is the size of the longest line Parse accepts.
const maxLineSize = 16 << 20

// ParseFile parses the machines described in the file at path.
func ParseFile(path string) ([]Machine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()
	machines, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("could not parse %q: %w", path, err)
	}
	return machines, nil
}

// Parse reads one machine per line from r.
// Blank lines are ignored. The first malformed line stops the parsing and is
// reported as a *LineError.
func Parse(r io.Reader) ([]Machine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var machines []Machine
	nbLine := 0
	for sc.Scan() {
		nbLine++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		m, err := parseLine(line)
		if err != nil {
			return nil, &LineError{Line: nbLine, Content: line, Err: err}
		}
		m.Line = nbLine
		machines = append(machines, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not read machines: %w", err)
	}
	return machines, nil
}

func parseLine(line string) (Machine, error) {
	var m Machine
	matches := joltageRx.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return m, ErrMissingJoltage
	}
	if len(matches) > 1 {
		return m, fmt.Errorf("%w: %d groups", ErrDuplicateJoltage, len(matches))
	}
	joltage, err := parseInts(matches[0][1])
	if err != nil {
		return m, err
	}
	m.Joltage = joltage
	for _, match := range buttonRx.FindAllStringSubmatch(line, -1) {
		wiring, err := parseInts(match[1])
		if err != nil {
			return m, err
		}
		btn := make([]int, len(joltage))
		for _, idx := range wiring {
			if idx >= len(joltage) {
				return m, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, len(joltage))
			}
			btn[idx] = 1
		}
		m.Buttons = append(m.Buttons, btn)
	}
	if match := lightsRx.FindStringSubmatch(line); match != nil {
		if len(match[1]) != len(joltage) {
			return m, fmt.Errorf("%w: %d lights, %d levels", ErrLightsMismatch, len(match[1]), len(joltage))
		}
		m.Lights = make(Lights, len(match[1]))
		for i, c := range match[1] {
			m.Lights[i] = c == '#'
		}
	}
	return m, nil
}

// parseInts parses a comma-separated list of integers in [0, math.MaxInt32].
func parseInts(list string) ([]int, error) {
	fields := strings.Split(list, ",")
	res := make([]int, len(fields))
	for i, field := range fields {
		val, err := strconv.Atoi(field)
		if err != nil || val < 0 || val > math.MaxInt32 {
			return nil, fmt.Errorf("%w %q", ErrBadNumber, field)
		}
		res[i] = val
	}
	return res, nil
}
