package machine

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingJoltage is returned when a line has no {...} group.
	ErrMissingJoltage = errors.New("no joltage requirements")
	// ErrDuplicateJoltage is returned when a line has more than one {...} group.
	ErrDuplicateJoltage = errors.New("several joltage requirements")
	// ErrBadNumber is returned when a group holds something else than an integer in [0, math.MaxInt32].
	ErrBadNumber = errors.New("invalid number")
	// ErrIndexOutOfRange is returned when a button is wired to a position the machine does not have.
	ErrIndexOutOfRange = errors.New("button index out of range")
	// ErrLightsMismatch is returned when the indicator diagram and the joltage vector differ in size.
	ErrLightsMismatch = errors.New("indicator diagram does not match joltage requirements")
)

// A LineError reports a malformed machine description.
type LineError struct {
	Line    int    // 1-based line number
	Content string // Content of the offending line
	Err     error  // One of the Err* values of this package, possibly wrapped
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Content, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// A FileError reports an input file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("could not read %q: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
