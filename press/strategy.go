package press

import "fmt"

// A Strategy is a way to find the minimal number of presses.
type Strategy byte

const (
	// Minimize asks the solver for an optimal assignment directly.
	Minimize = Strategy(iota)
	// Enumerate lists every valid assignment and keeps the cheapest one.
	Enumerate
)

func (s Strategy) String() string {
	switch s {
	case Minimize:
		return "minimize"
	case Enumerate:
		return "enumerate"
	default:
		return fmt.Sprintf("Strategy(%d)", byte(s))
	}
}

// ParseStrategy returns the strategy called name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "minimize":
		return Minimize, nil
	case "enumerate":
		return Enumerate, nil
	default:
		return 0, fmt.Errorf("invalid strategy %q, expected minimize or enumerate", name)
	}
}
