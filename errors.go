package chsql

import (
	"fmt"

	"github.com/pkg/errors"
)

// ValidationError reports input rejected before any network I/O: an unknown
// output format, a missing SQL text, a duplicate parameter name. It is never
// retried.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return "chsql: validation error: " + e.msg
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// MissingDependencyError reports that the explorer output format was
// requested but no table decoder is registered. Importing the explorer
// subpackage registers one.
type MissingDependencyError struct {
	Format string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("chsql: format %q needs a table decoder but none is registered; import %s/explorer", e.Format, modulePath)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// wraps an error and adds a stack trace if not already present
func wrapErr(err error, msg string) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.Wrap(err, msg)
}

func wrapErrf(err error, format string, args ...interface{}) error {
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return errors.Wrapf(err, format, args...)
}
