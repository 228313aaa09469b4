// Package machine describes the factory machines read from a puzzle input.
//
// Every input line describes one machine: an optional indicator diagram between
// brackets, one group of wiring indices between parentheses per button, and the
// required joltage levels between braces:
//
//	[.##.] (3) (1,3) (2) (2,3) (0,2) (0,1) {3,5,4,7}
//
// A button is stored as a 0/1 vector as long as the joltage vector: pressing it once
// adds 1 to every position whose entry is 1.
package machine

import (
	"strconv"
	"strings"
)

// Lights is an indicator diagram: true means the light must be on.
type Lights []bool

func (l Lights) String() string {
	var sb strings.Builder
	for _, on := range l {
		if on {
			sb.WriteByte('#')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// A Machine is a set of buttons and the joltage levels they must reach.
// Machines are never modified once parsed.
type Machine struct {
	Line    int     // 1-based line of the machine in its input
	Lights  Lights  // Indicator diagram, or nil if the line had none
	Buttons [][]int // For each button, a 0/1 vector of len(Joltage) values
	Joltage []int   // Required level for each position
}

// Width returns the number of positions of the joltage vector.
func (m Machine) Width() int {
	return len(m.Joltage)
}

// Key returns a canonical representation of the buttons and joltage levels of m.
// Two machines with the same key have the same minimal number of presses.
func (m Machine) Key() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, j := range m.Joltage {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(j))
	}
	sb.WriteByte('}')
	for _, btn := range m.Buttons {
		sb.WriteByte(' ')
		for _, d := range btn {
			sb.WriteByte(byte('0' + d))
		}
	}
	return sb.String()
}

// Covers returns the positions button b increments.
func (m Machine) Covers(b int) []int {
	var res []int
	for i, d := range m.Buttons[b] {
		if d == 1 {
			res = append(res, i)
		}
	}
	return res
}
