package press

import (
	"fmt"

	"github.com/crillab/joltsat/intsat"
	"github.com/crillab/joltsat/machine"
)

// VarName returns the name of the variable counting the presses of button b.
func VarName(b int) string {
	return fmt.Sprintf("x%d", b)
}

// Bound returns the maximal number of times button b of m can be pressed:
// every press adds 1 to all positions it covers, so it cannot exceed the lowest of their levels.
// A button covering no position is never worth pressing, and is bound to 0.
func Bound(m machine.Machine, b int) int {
	covers := m.Covers(b)
	if len(covers) == 0 {
		return 0
	}
	res := m.Joltage[covers[0]]
	for _, i := range covers[1:] {
		if m.Joltage[i] < res {
			res = m.Joltage[i]
		}
	}
	return res
}

// System returns the constraint system of m: one variable per button, and one equality
// per position stating that the presses of the buttons covering it sum to its level.
// The returned terms are the total number of presses.
func System(m machine.Machine) (*intsat.Problem, []intsat.Term, error) {
	for i, level := range m.Joltage {
		if level < 0 || level > intsat.MaxWeight {
			return nil, nil, fmt.Errorf("invalid level %d for position %d: %w", level, i, ErrTooLarge)
		}
	}
	pb := intsat.New()
	presses := make([]intsat.Term, len(m.Buttons))
	for b := range m.Buttons {
		pb.IntVar(VarName(b), Bound(m, b))
		presses[b] = intsat.T(1, VarName(b))
	}
	for i, level := range m.Joltage {
		var terms []intsat.Term
		for b, btn := range m.Buttons {
			if btn[i] == 1 {
				terms = append(terms, intsat.T(1, VarName(b)))
			}
		}
		if err := pb.Add(intsat.Eq(terms, level)); err != nil {
			return nil, nil, fmt.Errorf("could not build constraint for position %d: %w", i, err)
		}
	}
	if _, err := pb.Weight(presses...); err != nil {
		return nil, nil, fmt.Errorf("could not build objective: %w", err)
	}
	return pb, presses, nil
}

// An Assignment associates each button with its number of presses.
type Assignment []int

func assignment(model intsat.Model, nbButtons int) Assignment {
	res := make(Assignment, nbButtons)
	for b := range res {
		res[b] = model[VarName(b)]
	}
	return res
}

// Levels returns the joltage levels reached by pressing the buttons of m as described by a.
func (a Assignment) Levels(m machine.Machine) []int {
	res := make([]int, m.Width())
	for b, n := range a {
		for i, d := range m.Buttons[b] {
			res[i] += d * n
		}
	}
	return res
}
