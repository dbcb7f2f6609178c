// Package errors provides the error kinds surfaced by the engine to the UI layer
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind identifies a class of failure the UI layer can react to
type Kind string

const (
	KindConfigInvalid         Kind = "config-invalid"
	KindSchemaMissing         Kind = "schema-missing"
	KindDatabaseUnavailable   Kind = "database-unavailable"
	KindMigrationRequired     Kind = "migration-required"
	KindMigrationFailed       Kind = "migration-failed"
	KindMissingField          Kind = "missing-field"
	KindDuplicateIdentifier   Kind = "duplicate-identifier"
	KindUnknownIdentifier     Kind = "unknown-identifier"
	KindEmulatorBinaryMissing Kind = "emulator-binary-missing"
	KindLaunchFailed          Kind = "launch-failed"
)

// Sentinels usable as errors.Is targets. Matching is done on the kind only.
var (
	ErrConfigInvalid         = &Error{Kind: KindConfigInvalid}
	ErrSchemaMissing         = &Error{Kind: KindSchemaMissing}
	ErrDatabaseUnavailable   = &Error{Kind: KindDatabaseUnavailable}
	ErrMigrationRequired     = &Error{Kind: KindMigrationRequired}
	ErrMigrationFailed       = &Error{Kind: KindMigrationFailed}
	ErrMissingField          = &Error{Kind: KindMissingField}
	ErrDuplicateIdentifier   = &Error{Kind: KindDuplicateIdentifier}
	ErrUnknownIdentifier     = &Error{Kind: KindUnknownIdentifier}
	ErrEmulatorBinaryMissing = &Error{Kind: KindEmulatorBinaryMissing}
	ErrLaunchFailed          = &Error{Kind: KindLaunchFailed}
)

// Error wraps a cause with the operation that failed and the subject it
// failed on (a file, a table, an identifier, a field name).
type Error struct {
	Kind    Kind
	Op      string
	Subject string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Subject != "" {
		msg += " '" + e.Subject + "'"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements the error unwrapping interface
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	if other, ok := target.(*Error); ok {
		return e.Kind == other.Kind
	}
	return false
}

// New returns an error of the given kind without a cause
func New(kind Kind, op, subject string) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject}
}

// Newf returns an error of the given kind with a formatted cause
func Newf(kind Kind, op, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// Wrap returns an error of the given kind wrapping err. A nil err yields nil.
func Wrap(kind Kind, op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Subject: subject, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or an empty kind
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is is a passthrough to the standard library
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a passthrough to the standard library
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Join is a passthrough to the standard library
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}
