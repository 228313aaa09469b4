package intsat

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/crillab/gophersat/solver"
)

var (
	// ErrUnknown is returned when the solver stopped before proving the problem sat or unsat.
	ErrUnknown = errors.New("solver could not decide")
	// ErrUnknownVar is returned when a constraint uses a variable that was not declared.
	ErrUnknownVar = errors.New("unknown variable")
	// ErrNegative is returned for negative coefficients, which are not supported.
	ErrNegative = errors.New("negative coefficient")
	// ErrTooLarge is returned when the weights of a constraint or objective sum above MaxWeight.
	ErrTooLarge = errors.New("weights too large")
)

// MaxWeight is the largest sum of weights a constraint or an objective can have,
// once its variables are encoded in binary. It is also the largest bound of a variable.
const MaxWeight = math.MaxInt32

// Status is the outcome of a satisfiability check.
type Status byte

const (
	// Unknown means the problem was not proven sat or unsat.
	Unknown = Status(iota)
	// Sat means a model was found.
	Sat
	// Unsat means no model exists.
	Unsat
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Sat:
		return "SATISFIABLE"
	case Unsat:
		return "UNSATISFIABLE"
	default:
		panic("invalid status")
	}
}

// A Model associates each integer variable with its value.
type Model map[string]int

// intVar is an integer variable encoded on width boolean vars, starting at first.
type intVar struct {
	name  string
	max   int
	first int // CNF identifier of the least significant bit
	width int
}

// lits returns the boolean vars of v and their weights, for the term coeff * v.
func (v intVar) lits(coeff int) (lits []int, weights []int) {
	lits = make([]int, v.width)
	weights = make([]int, v.width)
	for k := 0; k < v.width; k++ {
		lits[k] = v.first + k
		weights[k] = coeff << k
	}
	return lits, weights
}

// value decodes v from a boolean model, indexed from 0.
func (v intVar) value(model []bool) int {
	res := 0
	for k := 0; k < v.width; k++ {
		if model[v.first+k-1] {
			res += 1 << k
		}
	}
	return res
}

// A Problem is a set of integer variables and linear constraints.
type Problem struct {
	intVars map[string]int // for each var, its index in vars
	vars    []intVar
	nbLits  int // Number of boolean vars used by the encoding
	constrs []solver.PBConstr
}

// New returns an empty problem.
func New() *Problem {
	return &Problem{intVars: make(map[string]int)}
}

// IntVar declares a variable named name, whose value ranges from 0 to max, inclusive.
// It panics if name was already declared or if max is not in [0, MaxWeight].
func (pb *Problem) IntVar(name string, max int) {
	if _, ok := pb.intVars[name]; ok {
		panic(fmt.Sprintf("variable %q declared twice", name))
	}
	if max < 0 || max > MaxWeight {
		panic(fmt.Sprintf("invalid bound %d for variable %q", max, name))
	}
	v := intVar{name: name, max: max, first: pb.nbLits + 1, width: bits.Len(uint(max))}
	pb.nbLits += v.width
	pb.intVars[name] = len(pb.vars)
	pb.vars = append(pb.vars, v)
	if v.width > 0 && max != 1<<v.width-1 {
		lits, weights := v.lits(1)
		pb.constrs = append(pb.constrs, solver.LtEq(lits, weights, max))
	}
}

// Vars returns the name of all variables, in declaration order.
func (pb *Problem) Vars() []string {
	res := make([]string, len(pb.vars))
	for i, v := range pb.vars {
		res[i] = v.name
	}
	return res
}

// Max returns the upper bound of the variable named name.
func (pb *Problem) Max(name string) (int, error) {
	idx, ok := pb.intVars[name]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownVar, name)
	}
	return pb.vars[idx].max, nil
}

// Add adds the given constraints to the problem.
func (pb *Problem) Add(constrs ...Constr) error {
	for _, c := range constrs {
		lits, weights, err := pb.terms(c.Terms)
		if err != nil {
			return fmt.Errorf("could not add constraint %q: %w", c, err)
		}
		switch c.Op {
		case OpEq:
			pb.constrs = append(pb.constrs, solver.Eq(lits, weights, c.RHS)...)
		case OpLe:
			pb.constrs = append(pb.constrs, solver.LtEq(lits, weights, c.RHS))
		case OpGe:
			pb.constrs = append(pb.constrs, solver.GtEq(lits, weights, c.RHS))
		default:
			return fmt.Errorf("could not add constraint %q: invalid operator %d", c, c.Op)
		}
	}
	return nil
}

// Weight returns the sum of the weights the given terms are encoded with, that is the
// value of the sum when every bit of every variable is set. The error wraps ErrTooLarge
// if that value exceeds MaxWeight.
func (pb *Problem) Weight(terms ...Term) (int, error) {
	_, weights, err := pb.terms(terms)
	if err != nil {
		return 0, err
	}
	sum := 0
	for _, w := range weights {
		sum += w
	}
	return sum, nil
}

// terms translates a sum of integer terms into weighted boolean literals.
// Terms using the same variable are merged first, so that a literal appears only once.
// The weights never sum above MaxWeight.
func (pb *Problem) terms(terms []Term) (lits []int, weights []int, err error) {
	coeffs := make(map[int]int, len(terms))
	var order []int
	for _, t := range terms {
		idx, ok := pb.intVars[t.Var]
		if !ok {
			return nil, nil, fmt.Errorf("%w %q", ErrUnknownVar, t.Var)
		}
		if t.Coeff < 0 {
			return nil, nil, fmt.Errorf("%w %d for %q", ErrNegative, t.Coeff, t.Var)
		}
		if t.Coeff > MaxWeight {
			return nil, nil, fmt.Errorf("%w: coefficient %d for %q", ErrTooLarge, t.Coeff, t.Var)
		}
		if _, ok := coeffs[idx]; !ok {
			order = append(order, idx)
		}
		coeffs[idx] += t.Coeff
	}
	lits = []int{}
	weights = []int{}
	sum := 0
	for _, idx := range order {
		coeff, v := coeffs[idx], pb.vars[idx]
		if coeff == 0 || v.width == 0 {
			continue
		}
		full := 1<<v.width - 1 // Sum of the weights of v's bits, for a coefficient of 1
		if coeff > MaxWeight || full > (MaxWeight-sum)/coeff {
			return nil, nil, fmt.Errorf("%w: sum exceeds %d with %d %s", ErrTooLarge, MaxWeight, coeff, v.name)
		}
		sum += coeff * full
		l, w := v.lits(coeff)
		lits = append(lits, l...)
		weights = append(weights, w...)
	}
	return lits, weights, nil
}

// problem returns a fresh gophersat problem equivalent to pb.
// Constraints are copied since the solver takes ownership of them.
func (pb *Problem) problem() *solver.Problem {
	constrs := make([]solver.PBConstr, 0, len(pb.constrs)+1)
	if pb.nbLits > 0 {
		// Trivially satisfied: it only declares every boolean var to the solver.
		all := make([]int, pb.nbLits)
		for i := range all {
			all[i] = i + 1
		}
		constrs = append(constrs, solver.PBConstr{Lits: all, AtLeast: 0})
	}
	for _, c := range pb.constrs {
		c2 := solver.PBConstr{Lits: make([]int, len(c.Lits)), AtLeast: c.AtLeast}
		copy(c2.Lits, c.Lits)
		if c.Weights != nil {
			c2.Weights = make([]int, len(c.Weights))
			copy(c2.Weights, c.Weights)
		}
		constrs = append(constrs, c2)
	}
	return solver.ParsePBConstrs(constrs)
}

// decode translates a boolean model into an integer one.
func (pb *Problem) decode(model []bool) Model {
	res := make(Model, len(pb.vars))
	for _, v := range pb.vars {
		res[v.name] = v.value(model)
	}
	return res
}

// Minimize returns a model of pb minimizing the sum of the given terms, along with that sum.
// If the problem is not satisfiable, the returned model is nil and the cost is -1.
// If ctx is done before the solver returns, the error wraps ErrUnknown; the solver keeps
// running in the background until it is done, and its result is discarded.
// The error wraps ErrTooLarge if the weights of the objective sum above MaxWeight.
func (pb *Problem) Minimize(ctx context.Context, objective ...Term) (Model, int, error) {
	lits, weights, err := pb.terms(objective)
	if err != nil {
		return nil, -1, fmt.Errorf("could not set objective: %w", err)
	}
	if pb.nbLits == 0 {
		return pb.trivial(ctx)
	}
	prob := pb.problem()
	if len(lits) > 0 {
		minLits := make([]solver.Lit, len(lits))
		for i, lit := range lits {
			minLits[i] = solver.IntToLit(int32(lit))
		}
		prob.SetCostFunc(minLits, weights)
	}
	s := solver.New(prob)
	type result struct {
		cost  int
		model []bool
	}
	res, err := wait(ctx, func() result {
		cost := s.Minimize()
		if cost == -1 {
			return result{cost: -1}
		}
		return result{cost: cost, model: s.Model()}
	})
	if err != nil {
		return nil, -1, err
	}
	if res.cost == -1 {
		return nil, -1, nil
	}
	model := pb.decode(res.model)
	cost := 0
	for _, t := range objective {
		cost += t.Coeff * model[t.Var]
	}
	return model, cost, nil
}

// trivial solves a problem with no boolean var: every variable is 0, and the
// problem is sat unless a constraint was trivially falsified.
func (pb *Problem) trivial(ctx context.Context) (Model, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, -1, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	if pb.problem().Status == solver.Unsat {
		return nil, -1, nil
	}
	return pb.decode(nil), 0, nil
}

// wait runs fn in its own goroutine and returns its result, unless ctx is done first.
// In that case, fn keeps running in the background and its result is discarded.
func wait[T any](ctx context.Context, fn func() T) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrUnknown, err)
	}
	done := make(chan T, 1)
	go func() { done <- fn() }()
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrUnknown, ctx.Err())
	}
}
