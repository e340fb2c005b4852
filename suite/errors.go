package suite

import (
	"errors"
	"fmt"
)

// Validation failures reported by adapters. They are always wrapped in a
// *ParseError.
var (
	ErrIterationCount    = errors.New("wrong number of iterations")
	ErrBenchmarkMismatch = errors.New("unexpected benchmark name")
	ErrMissingSentinel   = errors.New("missing result marker")
	ErrMalformed         = errors.New("malformed result")
	ErrNonPositive       = errors.New("non-positive duration")
	ErrSequence          = errors.New("iteration sequence broken")
	ErrHeader            = errors.New("unexpected header")
)

// ParseError describes output that did not match what a suite should emit.
type ParseError struct {
	Suite     Suite
	Benchmark string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output for %s: %v", e.Suite, e.Benchmark, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(s Suite, benchmark string, err error) error {
	return &ParseError{Suite: s, Benchmark: benchmark, Err: err}
}

func checkCount(s Suite, benchmark string, got, want int) error {
	if got != want {
		return parseErr(s, benchmark, fmt.Errorf(
			"%w: got %d, want %d", ErrIterationCount, got, want,
		))
	}

	return nil
}
