// Package intsat solves small integer linear problems with the gophersat pseudo-boolean solver.
//
// Definition
//
// An integer problem is a set of bounded, non-negative integer variables and a set of linear
// constraints over them, each constraint being a sum of terms (a non-negative coefficient times
// a variable) compared to a constant with =, <= or >=.
//
// Every integer variable is encoded in binary: a variable whose maximal value is max uses
// bits.Len(max) boolean variables, the k-th one weighting 2^k. When max is not of the form
// 2^n - 1, an extra constraint keeps the variable within its bound, so that each integer value
// has exactly one boolean representation. Linear constraints then become pseudo-boolean constraints
// that gophersat handles natively.
//
// Usage
//
// The following problem:
//
//	x + y = 5
//	x <= 3
//
// is described as:
//
//	pb := intsat.New()
//	pb.IntVar("x", 5)
//	pb.IntVar("y", 5)
//	err := pb.Add(
//		intsat.Eq([]intsat.Term{intsat.T(1, "x"), intsat.T(1, "y")}, 5),
//		intsat.Le([]intsat.Term{intsat.T(1, "x")}, 3),
//	)
//
// A Session then checks the problem incrementally:
//
//	s := pb.NewSession()
//	defer s.Close()
//	for {
//		status, err := s.Check(ctx)
//		if err != nil || status != intsat.Sat {
//			break
//		}
//		model := s.Model()
//		s.Exclude(model) // The next call to Check will find another model
//	}
//
// Alternatively, Minimize directly returns a model minimizing a linear objective.
package intsat
