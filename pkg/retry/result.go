package retry

import "github.com/go-recon/reconcrawler/pkg/failure"

// Result carries the outcome of a Retry call: the produced value (zero if
// every attempt failed), the terminal error (nil on success), and how many
// attempts were made.
type Result[T any] struct {
	value    T
	err      failure.ClassifiedError
	attempts int
}

// NewSuccessResult builds a Result for a function call that returned
// successfully on the given attempt.
func NewSuccessResult[T any](value T, attempts int) Result[T] {
	return Result[T]{value: value, attempts: attempts}
}

func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() failure.ClassifiedError {
	return r.err
}

func (r Result[T]) Attempts() int {
	return r.attempts
}

// IsFailure reports whether every attempt failed.
func (r Result[T]) IsFailure() bool {
	return r.err != nil
}
