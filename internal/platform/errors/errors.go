// Package errors provides error types and utilities for dnsrake.
// The lookup sentinels describe why an upstream query produced no answer; they are used
// for diagnostics and upstream health only and never escape the resolver as distinct outcomes.
package errors

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Sentinel errors for lookup failures
var (
	// ErrTimeout indicates an upstream did not answer within the query timeout
	ErrTimeout = errors.New("query timed out")

	// ErrLifetimeExceeded indicates the total lookup budget ran out before any upstream answered
	ErrLifetimeExceeded = errors.New("lookup lifetime exceeded")

	// ErrNXDomain indicates the name does not exist
	ErrNXDomain = errors.New("name does not exist")

	// ErrNoAnswer indicates the name exists but has no A records
	ErrNoAnswer = errors.New("no A records in answer")

	// ErrServFail indicates the upstream reported a server failure
	ErrServFail = errors.New("upstream server failure")

	// ErrRefused indicates the upstream refused the query
	ErrRefused = errors.New("query refused")

	// ErrTruncated indicates a truncated response that could not be retried over TCP
	ErrTruncated = errors.New("truncated response")

	// ErrConnectionFailed indicates the upstream could not be reached
	ErrConnectionFailed = errors.New("connection failed")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidName indicates the query name is not a valid DNS name
	ErrInvalidName = errors.New("invalid query name")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
//
// Example:
//
//	resp, err := exchange(name, server)
//	if err != nil {
//	    return errors.Wrapf(err, "query %s via %s", name, server)
//	}
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that aggregates the given errors.
// Nil values are discarded; Join returns nil when every error is nil.
func Join(errs ...error) error {
	return multierror.Append(nil, errs...).ErrorOrNil()
}

// IsTimeout reports whether the error is a per-query timeout
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsNXDomain reports whether the error is a definitive "name does not exist"
func IsNXDomain(err error) bool {
	return Is(err, ErrNXDomain)
}

// IsDefinitive reports whether the error is an authoritative negative answer.
// Asking another upstream would not change the outcome.
func IsDefinitive(err error) bool {
	return Is(err, ErrNXDomain) || Is(err, ErrNoAnswer) || Is(err, ErrInvalidName)
}

// IsUpstreamFault reports whether the error says something about the health of the
// upstream itself (it did not answer, or answered with garbage), as opposed to the name.
func IsUpstreamFault(err error) bool {
	return Is(err, ErrTimeout) || Is(err, ErrConnectionFailed) || Is(err, ErrInvalidResponse)
}
