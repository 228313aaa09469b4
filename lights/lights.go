// Package lights computes the minimal number of presses that turn the indicator lights
// of a machine, initially all off, into its diagram.
//
// Every press of a button toggles the lights it is wired to. The states reachable from
// the initial one are explored breadth first and stored in a graph whose edges are presses;
// the answer is the length of the shortest path from the initial state to the diagram.
package lights

import (
	"context"
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/crillab/joltsat/machine"
)

var (
	// ErrNoDiagram is returned for machines that have no indicator diagram.
	ErrNoDiagram = errors.New("no indicator diagram")
	// ErrUnreachable is returned when no sequence of presses leads to the diagram.
	ErrUnreachable = errors.New("indicator diagram cannot be reached")
)

// press returns the state reached by pressing button btn in state.
func press(state machine.Lights, btn []int) machine.Lights {
	res := make(machine.Lights, len(state))
	for i, on := range state {
		res[i] = on != (btn[i] == 1)
	}
	return res
}

// States returns the graph of all states reachable from the initial state of m.
func States(m machine.Machine) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Weighted())
	start := make(machine.Lights, m.Width()).String()
	if err := g.AddVertex(start); err != nil {
		return nil, fmt.Errorf("could not add initial state: %w", err)
	}
	queue := []machine.Lights{make(machine.Lights, m.Width())}
	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]
		for _, btn := range m.Buttons {
			next := press(state, btn)
			if next.String() == state.String() {
				continue
			}
			err := g.AddVertex(next.String())
			switch {
			case err == nil:
				queue = append(queue, next)
			case !errors.Is(err, graph.ErrVertexAlreadyExists):
				return nil, fmt.Errorf("could not add state %s: %w", next, err)
			}
			err = g.AddEdge(state.String(), next.String(), graph.EdgeWeight(1))
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("could not add press from %s to %s: %w", state, next, err)
			}
		}
	}
	return g, nil
}

// MinPresses returns the minimal number of presses turning the lights of m into its diagram.
func MinPresses(m machine.Machine) (int, error) {
	if m.Lights == nil {
		return 0, ErrNoDiagram
	}
	if !lo.Contains(m.Lights, true) {
		return 0, nil
	}
	g, err := States(m)
	if err != nil {
		return 0, err
	}
	start := make(machine.Lights, m.Width()).String()
	target := m.Lights.String()
	if _, err := g.Vertex(target); err != nil {
		return 0, ErrUnreachable
	}
	path, err := graph.ShortestPath(g, start, target)
	if err != nil {
		if errors.Is(err, graph.ErrTargetNotReachable) {
			return 0, ErrUnreachable
		}
		return 0, fmt.Errorf("could not find shortest path to %s: %w", target, err)
	}
	return len(path) - 1, nil
}

// Total returns the sum of the minimal number of presses of all machines.
func Total(ctx context.Context, machines []machine.Machine, log *zap.Logger) (int, error) {
	total := 0
	for _, m := range machines {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := MinPresses(m)
		if err != nil {
			return 0, fmt.Errorf("could not configure lights of machine on line %d: %w", m.Line, err)
		}
		log.Debug("lights configured", zap.Int("line", m.Line), zap.Int("presses", n))
		total += n
	}
	return total, nil
}
