package intsat

import "fmt"

// A Term is an integer variable multiplied by a coefficient.
type Term struct {
	Coeff int
	Var   string
}

// T returns the term coeff * v.
func T(coeff int, v string) Term {
	return Term{Coeff: coeff, Var: v}
}

func (t Term) String() string {
	if t.Coeff == 1 {
		return t.Var
	}
	return fmt.Sprintf("%d %s", t.Coeff, t.Var)
}

// An Op is a comparison operator.
type Op byte

const (
	// OpEq means the sum must be exactly the right-hand side.
	OpEq = Op(iota)
	// OpLe means the sum must be at most the right-hand side.
	OpLe
	// OpGe means the sum must be at least the right-hand side.
	OpGe
)

func (op Op) String() string {
	switch op {
	case OpEq:
		return "="
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		panic("invalid operator")
	}
}

// A Constr is a linear constraint: the sum of all terms compared to RHS.
type Constr struct {
	Terms []Term
	Op    Op
	RHS   int
}

// Eq returns a constraint stating that the sum of all terms must be exactly rhs.
func Eq(terms []Term, rhs int) Constr {
	return Constr{Terms: terms, Op: OpEq, RHS: rhs}
}

// Le returns a constraint stating that the sum of all terms must be at most rhs.
func Le(terms []Term, rhs int) Constr {
	return Constr{Terms: terms, Op: OpLe, RHS: rhs}
}

// Ge returns a constraint stating that the sum of all terms must be at least rhs.
func Ge(terms []Term, rhs int) Constr {
	return Constr{Terms: terms, Op: OpGe, RHS: rhs}
}

func (c Constr) String() string {
	res := ""
	for i, t := range c.Terms {
		if i > 0 {
			res += " + "
		}
		res += t.String()
	}
	if res == "" {
		res = "0"
	}
	return fmt.Sprintf("%s %s %d", res, c.Op, c.RHS)
}
