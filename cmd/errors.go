package cmd

import "fmt"

// Exit codes of the joltsat command.
const (
	ExitSuccess           = 0
	ExitFailure           = 1
	ExitInvalidInvocation = 2
)

// An InvocationError is returned when the command line itself is invalid.
type InvocationError struct {
	ExitCode int
	Message  string
}

func (e *InvocationError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// errMissingInput is reported on standard output, not standard error.
var errMissingInput = &InvocationError{ExitCode: ExitInvalidInvocation, Message: "Requires input file"}

func invalidInvocationf(format string, args ...any) error {
	return &InvocationError{ExitCode: ExitInvalidInvocation, Message: fmt.Sprintf(format, args...)}
}
