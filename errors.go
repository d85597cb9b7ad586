package sqlkit

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors.
var (
	// ErrAmbiguousConcat is raised (as a panic value) when the string
	// concatenation operator is requested. There is no spelling of "||" that
	// is correct for every dialect, so callers must use Func("CONCAT", ...)
	// or Infix(a, "||", b) explicitly.
	ErrAmbiguousConcat = errors.New("sqlkit: || is not portable; use Func(\"CONCAT\", ...) for MySQL or Infix(a, \"||\", b) for PostgreSQL and SQLite")

	// ErrInvalidDescriptor is returned when a dialect descriptor is missing
	// a required field.
	ErrInvalidDescriptor = errors.New("sqlkit: invalid dialect descriptor")

	// ErrUnknownDialect is returned when a dialect name is not registered.
	ErrUnknownDialect = errors.New("sqlkit: unknown dialect")
)

// DescriptorError describes why a dialect descriptor could not be built.
type DescriptorError struct {
	Name  string // Dialect name
	Field string // Missing or invalid field
}

// Error returns the error string.
func (e *DescriptorError) Error() string {
	return fmt.Sprintf("sqlkit: dialect %q: missing required field %s", e.Name, e.Field)
}

// Is reports whether the target error matches DescriptorError.
// This allows errors.Is(err, ErrInvalidDescriptor) to return true.
func (e *DescriptorError) Is(err error) bool {
	return err == ErrInvalidDescriptor
}

// NewDescriptorError returns a new DescriptorError.
func NewDescriptorError(name, field string) *DescriptorError {
	return &DescriptorError{Name: name, Field: field}
}

// IsDescriptorError returns true if the error is a DescriptorError.
func IsDescriptorError(err error) bool {
	if err == nil {
		return false
	}
	var e *DescriptorError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidDescriptor)
}

// ConfigError wraps a failure to load a dialect configuration document.
type ConfigError struct {
	Source string // File path or "<reader>"
	Key    string // Offending key, if known
	Err    error  // Underlying error
}

// Error returns the error string.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("sqlkit: config %s: %s: %v", e.Source, e.Key, e.Err)
	}
	return fmt.Sprintf("sqlkit: config %s: %v", e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e)
}

// ExecError wraps an error returned by the executor with the statement that
// caused it.
type ExecError struct {
	Op    string // Operation (e.g., "query", "scan", "handler")
	Query string // Serialized SQL text
	Err   error  // Underlying error
}

// Error returns the error string.
func (e *ExecError) Error() string {
	return fmt.Sprintf("sqlkit: %s %q: %v", e.Op, e.Query, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// NewExecError returns a new ExecError.
func NewExecError(op, query string, err error) *ExecError {
	return &ExecError{Op: op, Query: query, Err: err}
}

// IsExecError returns true if the error is an ExecError.
func IsExecError(err error) bool {
	if err == nil {
		return false
	}
	var e *ExecError
	return errors.As(err, &e)
}

// ConstraintError represents a database constraint violation error.
type ConstraintError struct {
	msg  string
	wrap error
}

// Error returns the error string.
func (e ConstraintError) Error() string {
	return fmt.Sprintf("sqlkit: constraint failed: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e ConstraintError) Unwrap() error {
	return e.wrap
}

// NewConstraintError returns a new ConstraintError with the given message.
func NewConstraintError(msg string, wrap error) error {
	return ConstraintError{msg: msg, wrap: wrap}
}

// IsConstraintError returns true if the error is a ConstraintError.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var e ConstraintError
	return errors.As(err, &e)
}

// AggregateError represents multiple errors collected during an operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "sqlkit: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("sqlkit: multiple errors:")
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "\n  [%d] %v", i+1, err)
	}
	return sb.String()
}

// NewAggregateError returns a new AggregateError if there are errors,
// otherwise returns nil.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &AggregateError{Errors: filtered}
}
