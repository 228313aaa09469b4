// Package press computes the minimal number of button presses that bring the joltage
// levels of a machine to their requirements.
//
// For a machine with buttons b and positions i, the problem is
//
//	minimize sum_b x_b
//	subject to sum_b button[b][i] * x_b = joltage[i], for every i
//	           x_b >= 0
//
// A machine whose requirements cannot be met counts as 0 presses: its Result is not Feasible.
package press

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/crillab/joltsat/cache"
	"github.com/crillab/joltsat/events"
	"github.com/crillab/joltsat/intsat"
	"github.com/crillab/joltsat/machine"
	"github.com/crillab/joltsat/metrics"
)

// ErrUnknown is returned when the solver could not decide whether a better assignment exists,
// because it was cancelled or ran out of budget.
var ErrUnknown = intsat.ErrUnknown

// ErrTooLarge is returned for machines whose levels are too high to be encoded.
var ErrTooLarge = intsat.ErrTooLarge

// A Result is the outcome of a machine.
type Result struct {
	Presses    int        // Minimal number of presses, 0 if not Feasible
	Feasible   bool       // false if no assignment meets the requirements
	Models     int        // Number of assignments found by the solver
	Cached     bool       // true if the result was read from the cache
	Assignment Assignment // A minimal assignment; nil if not Feasible or Cached
}

// A Summary is the outcome of a set of machines.
type Summary struct {
	Total      int      // Sum of the minimal number of presses of all machines
	Infeasible int      // Number of machines whose requirements cannot be met
	Results    []Result // Result of each machine, in input order
}

// A Solver solves machines. Its zero value solves them one at a time with the Minimize strategy,
// without cache, metrics, events nor logs.
type Solver struct {
	Strategy  Strategy
	MaxModels int // Maximal number of assignments Enumerate may visit; 0 means no limit
	Workers   int // Number of machines solved concurrently by Total; values below 1 mean 1
	Cache     cache.Store
	Metrics   *metrics.Recorder
	Events    events.Publisher
	Subject   string // Subject events are published on; events.DefaultSubject if empty
	Run       string // Identifier of the run, attached to logs and events
	Log       *zap.Logger
}

func (s *Solver) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

func (s *Solver) store() cache.Store {
	if s.Cache == nil {
		return cache.NopStore{}
	}
	return s.Cache
}

// Solve returns the minimal number of presses of m.
// The returned error wraps ErrUnknown if ctx was done, or if the model budget was exhausted,
// before the minimum was proven.
func (s *Solver) Solve(ctx context.Context, m machine.Machine) (Result, error) {
	log := s.logger().With(zap.Int("line", m.Line), zap.Stringer("strategy", s.Strategy))
	key := cache.Key(m)
	e, err := s.store().Get(ctx, key)
	switch {
	case err == nil:
		res := Result{Presses: e.Presses, Feasible: e.Feasible, Models: e.Models, Cached: true}
		log.Debug("cache hit", zap.Int("presses", res.Presses), zap.Bool("feasible", res.Feasible))
		s.Metrics.Observe(s.Strategy.String(), metrics.Cached, 0, 0)
		s.publish(ctx, log, m, res)
		return res, nil
	case !errors.Is(err, cache.ErrNotFound):
		log.Warn("could not read cache", zap.Error(err))
	}
	start := time.Now()
	var res Result
	switch s.Strategy {
	case Minimize:
		res, err = minimize(ctx, m)
	case Enumerate:
		res, err = s.enumerate(ctx, m)
	default:
		err = fmt.Errorf("invalid strategy %v", s.Strategy)
	}
	elapsed := time.Since(start)
	if err != nil {
		s.Metrics.Observe(s.Strategy.String(), metrics.Failed, res.Models, elapsed)
		return Result{}, fmt.Errorf("could not solve machine on line %d: %w", m.Line, err)
	}
	outcome := metrics.Feasible
	if !res.Feasible {
		outcome = metrics.Infeasible
	}
	s.Metrics.Observe(s.Strategy.String(), outcome, res.Models, elapsed)
	log.Debug("machine solved",
		zap.Int("presses", res.Presses),
		zap.Bool("feasible", res.Feasible),
		zap.Int("models", res.Models),
		zap.Duration("elapsed", elapsed),
	)
	if err := s.store().Put(ctx, key, cache.Entry{Presses: res.Presses, Feasible: res.Feasible, Models: res.Models}); err != nil {
		log.Warn("could not write cache", zap.Error(err))
	}
	s.publish(ctx, log, m, res)
	return res, nil
}

func (s *Solver) publish(ctx context.Context, log *zap.Logger, m machine.Machine, res Result) {
	if s.Events == nil {
		return
	}
	subject := s.Subject
	if subject == "" {
		subject = events.DefaultSubject
	}
	ev := events.Event{
		Run:      s.Run,
		Line:     m.Line,
		Presses:  res.Presses,
		Feasible: res.Feasible,
		Models:   res.Models,
		Cached:   res.Cached,
	}
	payload, err := ev.Encode()
	if err == nil {
		err = s.Events.Publish(ctx, subject, payload)
	}
	if err != nil {
		log.Warn("could not publish result", zap.Error(err))
	}
}

// minimize asks the solver for an assignment minimizing the total number of presses.
func minimize(ctx context.Context, m machine.Machine) (Result, error) {
	pb, presses, err := System(m)
	if err != nil {
		return Result{}, err
	}
	model, cost, err := pb.Minimize(ctx, presses...)
	if err != nil {
		return Result{}, err
	}
	if model == nil {
		return Result{}, nil
	}
	return Result{Presses: cost, Feasible: true, Models: 1, Assignment: assignment(model, len(m.Buttons))}, nil
}

// enumerate lists every valid assignment, excluding each one once found, and keeps the cheapest.
func (s *Solver) enumerate(ctx context.Context, m machine.Machine) (Result, error) {
	pb, _, err := System(m)
	if err != nil {
		return Result{}, err
	}
	sess := pb.NewSession()
	defer sess.Close()
	var res Result
	for {
		status, err := sess.Check(ctx)
		if err != nil {
			return res, err
		}
		if status == intsat.Unsat {
			return res, nil
		}
		model := sess.Model()
		res.Models++
		if s.MaxModels > 0 && res.Models > s.MaxModels {
			return res, fmt.Errorf("%w: more than %d assignments", ErrUnknown, s.MaxModels)
		}
		a := assignment(model, len(m.Buttons))
		if presses := lo.Sum(a); !res.Feasible || presses < res.Presses {
			res.Presses = presses
			res.Feasible = true
			res.Assignment = a
		}
		if err := sess.Exclude(model); err != nil {
			return res, err
		}
	}
}

// Total solves all machines and sums their minimal number of presses.
// Up to s.Workers machines are solved at the same time; the first error stops the others.
func (s *Solver) Total(ctx context.Context, machines []machine.Machine) (Summary, error) {
	results := make([]Result, len(machines))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.Workers))
	for i, m := range machines {
		g.Go(func() error {
			res, err := s.Solve(ctx, m)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	sum := Summary{
		Total:      lo.SumBy(results, func(r Result) int { return r.Presses }),
		Infeasible: lo.CountBy(results, func(r Result) bool { return !r.Feasible }),
		Results:    results,
	}
	s.logger().Info("machines solved",
		zap.Int("machines", len(machines)),
		zap.Int("total", sum.Total),
		zap.Int("infeasible", sum.Infeasible),
	)
	return sum, nil
}
