package intsat

import (
	"context"
	"errors"
	"fmt"

	"github.com/crillab/gophersat/solver"
)

// ErrClosed is returned when a closed or abandoned session is used.
var ErrClosed = errors.New("session is closed")

// A Session checks a problem incrementally: constraints excluding previous models
// can be added between two checks, without losing what the solver learned so far.
// A Session is not safe for concurrent use.
//
// When the context of a Check is done first, Check returns at once but the solver cannot
// be interrupted: it keeps running in its own goroutine, using CPU, until it reaches an
// answer that is then discarded.
type Session struct {
	pb        *Problem
	s         *solver.Solver // nil for problems with no boolean var
	status    Status
	model     []bool
	exhausted bool // true once no model can remain, whatever the solver says
	closed    bool
	Checks    int // Number of calls to Check that returned Sat or Unsat
}

// NewSession returns a session over the current constraints of pb.
// Constraints added to pb afterwards are not seen by the session.
func (pb *Problem) NewSession() *Session {
	sess := &Session{pb: pb}
	prob := pb.problem()
	if prob.Status == solver.Unsat {
		sess.exhausted = true
		return sess
	}
	if pb.nbLits > 0 {
		sess.s = solver.New(prob)
	}
	return sess
}

// Check looks for a model of the problem that was not excluded yet.
// If ctx is done before the solver answers, the status is Unknown, the error wraps
// ErrUnknown and the session must not be used anymore.
func (sess *Session) Check(ctx context.Context) (Status, error) {
	if sess.closed {
		return Unknown, ErrClosed
	}
	sess.model = nil
	if sess.exhausted || sess.s == nil {
		if err := ctx.Err(); err != nil {
			return sess.abandon(fmt.Errorf("%w: %v", ErrUnknown, err))
		}
		sess.Checks++
		if sess.exhausted {
			sess.status = Unsat
		} else { // No boolean var: the all-zero assignment is the only model
			sess.status = Sat
			sess.model = []bool{}
		}
		return sess.status, nil
	}
	s := sess.s
	type result struct {
		status solver.Status
		model  []bool
	}
	res, err := wait(ctx, func() result {
		st := s.Solve()
		if st != solver.Sat {
			return result{status: st}
		}
		return result{status: st, model: s.Model()}
	})
	if err != nil {
		return sess.abandon(err)
	}
	switch res.status {
	case solver.Sat:
		sess.status = Sat
		sess.model = res.model
	case solver.Unsat:
		sess.status = Unsat
	default:
		return sess.abandon(fmt.Errorf("%w: solver returned %v", ErrUnknown, res.status))
	}
	sess.Checks++
	return sess.status, nil
}

func (sess *Session) abandon(err error) (Status, error) {
	sess.Close()
	sess.status = Unknown
	return Unknown, err
}

// Model returns the model found by the last call to Check.
// It panics if that call did not return Sat.
func (sess *Session) Model() Model {
	if sess.status != Sat || sess.model == nil {
		panic("cannot call Model() from a non-Sat session")
	}
	return sess.pb.decode(sess.model)
}

// Exclude adds a constraint stating that at least one variable of m must take another value
// than the one it has in m. Variables absent from m are not concerned by the exclusion.
func (sess *Session) Exclude(m Model) error {
	if sess.closed {
		return ErrClosed
	}
	for name := range m {
		if _, ok := sess.pb.intVars[name]; !ok {
			return fmt.Errorf("could not exclude model: %w %q", ErrUnknownVar, name)
		}
	}
	var lits []solver.Lit
	for _, v := range sess.pb.vars {
		val, ok := m[v.name]
		if !ok {
			continue
		}
		if val < 0 || val > v.max { // v can never be equal to val: nothing to exclude
			return nil
		}
		for k := 0; k < v.width; k++ {
			lit := v.first + k
			if val&(1<<k) != 0 {
				lit = -lit
			}
			lits = append(lits, solver.IntToLit(int32(lit)))
		}
	}
	if len(lits) == 0 { // Every var of m can only take its current value
		sess.exhausted = true
		return nil
	}
	if sess.s != nil && !sess.exhausted {
		sess.s.AppendClause(solver.NewClause(lits))
	}
	return nil
}

// Close releases the solver associated with sess.
func (sess *Session) Close() {
	sess.closed = true
	sess.s = nil
	sess.model = nil
}
