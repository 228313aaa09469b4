package machine

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine(t *testing.T) {
	machines, err := Parse(strings.NewReader("[#.] {1,0} (0) (1)\n"))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	want := []Machine{{
		Line:    1,
		Lights:  Lights{true, false},
		Buttons: [][]int{{1, 0}, {0, 1}},
		Joltage: []int{1, 0},
	}}
	if diff := cmp.Diff(want, machines); diff != "" {
		t.Errorf("invalid machines (-want +got):\n%s", diff)
	}
}

func TestParseDuplicateIndices(t *testing.T) {
	machines, err := Parse(strings.NewReader("(0,0,1) (0,1) {4,2}"))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if len(machines) != 1 {
		t.Fatalf("expected 1 machine, got %d", len(machines))
	}
	m := machines[0]
	if diff := cmp.Diff(m.Buttons[0], m.Buttons[1]); diff != "" {
		t.Errorf("duplicate indices should collapse (-dup +plain):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 1}, m.Buttons[0]); diff != "" {
		t.Errorf("invalid button (-want +got):\n%s", diff)
	}
	if m.Lights != nil {
		t.Errorf("expected no diagram, got %v", m.Lights)
	}
}

func TestParseNoButtons(t *testing.T) {
	machines, err := Parse(strings.NewReader("{0,0,0}"))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if len(machines[0].Buttons) != 0 {
		t.Errorf("expected no button, got %v", machines[0].Buttons)
	}
	if w := machines[0].Width(); w != 3 {
		t.Errorf("expected width 3, got %d", w)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		err   error
	}{
		{"(0) (1)", 1, ErrMissingJoltage},
		{"{1,2}\n(0) (2) {1,2}", 2, ErrIndexOutOfRange},
		{"(0) {1,,2}", 1, ErrBadNumber},
		{"\n\n[.#.] (0) {1,2}", 3, ErrLightsMismatch},
		{"(0) {1} {2}", 1, ErrDuplicateJoltage},
		{"(0) {2147483648}", 1, ErrBadNumber},
		{"(0) {1,9223372036854775808}", 1, ErrBadNumber},
	}
	for _, test := range tests {
		_, err := Parse(strings.NewReader(test.input))
		var lineErr *LineError
		if !errors.As(err, &lineErr) {
			t.Errorf("parsing %q: expected a *LineError, got %v", test.input, err)
			continue
		}
		if lineErr.Line != test.line {
			t.Errorf("parsing %q: expected error on line %d, got %d", test.input, test.line, lineErr.Line)
		}
		if !errors.Is(err, test.err) {
			t.Errorf("parsing %q: expected %v, got %v", test.input, test.err, err)
		}
	}
}

func TestParseFile(t *testing.T) {
	machines, err := ParseFile("testdata/sample.txt")
	if err != nil {
		t.Fatalf("could not parse sample: %v", err)
	}
	if len(machines) != 3 {
		t.Fatalf("expected 3 machines, got %d", len(machines))
	}
	second := machines[1]
	if second.Line != 2 {
		t.Errorf("expected line 2, got %d", second.Line)
	}
	if got := second.Lights.String(); got != "...#." {
		t.Errorf("expected diagram ...#., got %s", got)
	}
	if diff := cmp.Diff([]int{1, 0, 1, 1, 1}, second.Buttons[0]); diff != "" {
		t.Errorf("invalid first button (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 2, 3, 4}, second.Covers(0)); diff != "" {
		t.Errorf("invalid coverage (-want +got):\n%s", diff)
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("testdata/does-not-exist.txt")
	var fileErr *FileError
	if !errors.As(err, &fileErr) {
		t.Fatalf("expected a *FileError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func TestKey(t *testing.T) {
	a, err := Parse(strings.NewReader("[.#] (0,1) (1) {3,4}\n(1) (1,0,0) {3,4}"))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if a[0].Key() != "{3,4} 11 01" {
		t.Errorf("unexpected key %q", a[0].Key())
	}
	if a[0].Key() == a[1].Key() {
		t.Errorf("button order must be part of the key")
	}
}

func TestParseMaxLevel(t *testing.T) {
	machines, err := Parse(strings.NewReader("(0) {2147483647}"))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if got := machines[0].Joltage[0]; got != 2147483647 {
		t.Errorf("expected level 2147483647, got %d", got)
	}
}

func TestParseLongLine(t *testing.T) {
	const nbButtons = 20000
	line := strings.Repeat("(0,1) ", nbButtons) + "{1,1}\n"
	machines, err := Parse(strings.NewReader(line))
	if err != nil {
		t.Fatalf("could not parse: %v", err)
	}
	if got := len(machines[0].Buttons); got != nbButtons {
		t.Errorf("expected %d buttons, got %d", nbButtons, got)
	}
}
