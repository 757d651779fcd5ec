package cli

import (
	"errors"
)

// Process exit codes.
const (
	ExitCodeFailure  = 1
	ExitCodeInvalid  = 2
	ExitCodeRejected = 3
)

// cliError carries the process exit code of a failed command.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &cliError{code: code, err: err}
}

// ExitCode maps a command error to the process exit code. Errors without a code exit 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return ExitCodeFailure
}
