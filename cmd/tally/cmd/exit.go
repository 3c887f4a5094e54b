package cmd

import "errors"

// exitError is returned by commands that have already printed their result
// and only need a specific exit status. verify: 0=agree, 1=mismatch.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }

// ExitCode extracts the exit code from an exitError.
// Returns -1 if the error is not an exitError.
func ExitCode(err error) int {
	var ee exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return -1
}
