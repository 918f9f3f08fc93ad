// Package core holds the domain model: the Result pipeline, the Money and ID
// value objects and the Envelope and Goal aggregates. Everything in this
// package is immutable once constructed and safe for concurrent reads.
package core

// Result is a two-track value: either data with no errors, or one or more
// errors with no data. Fallible domain operations return a Result instead of
// panicking or raising errors across package boundaries.
type Result[T any] struct {
	data T
	errs []error
}

// Ok returns a successful Result carrying data.
func Ok[T any](data T) Result[T] {
	return Result[T]{data: data}
}

// Fail returns a failed Result carrying a single error.
func Fail[T any](err error) Result[T] {
	return Result[T]{errs: []error{err}}
}

// Failures returns a failed Result carrying every error in errs.
// Constructing a failure with no errors is a programmer error and panics.
func Failures[T any](errs []error) Result[T] {
	if len(errs) == 0 {
		panic("core: Failures called with an empty error list")
	}
	return Result[T]{errs: append([]error(nil), errs...)}
}

// HasData reports whether the result is a success.
func (r Result[T]) HasData() bool {
	return len(r.errs) == 0
}

// HasError reports whether the result is a failure.
func (r Result[T]) HasError() bool {
	return len(r.errs) > 0
}

// Data returns the success value. Only meaningful when HasData is true.
func (r Result[T]) Data() T {
	return r.data
}

// Errors returns the failure list. Nil on success, never empty on failure.
// The returned slice is a copy; mutating it does not affect the Result.
func (r Result[T]) Errors() []error {
	if len(r.errs) == 0 {
		return nil
	}
	return append([]error(nil), r.errs...)
}

// Relay converts a failed Result of one type into a failed Result of
// another, carrying the errors across unchanged. It panics when called on a
// success, since there is no data to relay.
func Relay[U, T any](r Result[T]) Result[U] {
	return Failures[U](r.errs)
}
