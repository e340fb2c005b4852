// Package suite adapts third-party JVM benchmark suites to a common shape:
// a process invocation for one benchmark, and a parser that turns the
// suite's own output into per-iteration wall-clock times.
package suite

import (
	"fmt"
	"strings"
	"time"
)

// Suite identifies one of the supported benchmark harnesses.
type Suite int

const (
	// Renaissance writes one CSV row per iteration to a file we choose.
	Renaissance Suite = iota + 1
	// DaCapo reports iteration times on stderr only.
	DaCapo
	// SPECjvm writes an XML report whose path is printed on stdout.
	SPECjvm
)

// All returns every supported suite in a fixed order.
func All() []Suite {
	return []Suite{Renaissance, DaCapo, SPECjvm}
}

// String returns the canonical lower-case name of s.
func (s Suite) String() string {
	switch s {
	case Renaissance:
		return "renaissance"
	case DaCapo:
		return "dacapo"
	case SPECjvm:
		return "specjvm"
	default:
		return fmt.Sprintf("suite(%d)", int(s))
	}
}

// Parse maps a suite name to a Suite. "spec" is accepted for SPECjvm.
func Parse(name string) (Suite, error) {
	switch strings.ToLower(name) {
	case "renaissance":
		return Renaissance, nil
	case "dacapo":
		return DaCapo, nil
	case "specjvm", "spec":
		return SPECjvm, nil
	default:
		return 0, fmt.Errorf("unknown suite %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Suite) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Suite) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// idSeparator joins a suite name and a benchmark name.
const idSeparator = "__"

// Benchmark is a suite-qualified benchmark name.
type Benchmark struct {
	Suite Suite
	Name  string
}

// ID returns the qualified identifier, e.g. "dacapo__avrora".
func (b Benchmark) ID() string {
	return b.Suite.String() + idSeparator + b.Name
}

// String implements fmt.Stringer.
func (b Benchmark) String() string {
	return b.ID()
}

// ParseBenchmark splits a qualified identifier into suite and name.
func ParseBenchmark(id string) (Benchmark, error) {
	prefix, name, ok := strings.Cut(id, idSeparator)
	if !ok || name == "" {
		return Benchmark{}, fmt.Errorf(
			"benchmark %q is not of the form <suite>%s<name>", id, idSeparator,
		)
	}

	s, err := Parse(prefix)
	if err != nil {
		return Benchmark{}, fmt.Errorf("benchmark %q: %w", id, err)
	}

	return Benchmark{Suite: s, Name: name}, nil
}

// Timings holds one wall-clock duration in seconds per in-process iteration.
type Timings []float64

// Invocation is the suite-specific part of a process invocation.
type Invocation struct {
	// Args follow the VM arguments, starting with the suite's jar.
	Args []string
	// Dir is the working directory for the process, empty for the caller's.
	Dir string
	// StagingPath is a file the suite writes results into, if any. The
	// caller removes it once the outcome has been parsed.
	StagingPath string
}

// Outcome is everything captured from one finished process.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	// Dir is the directory the process ran in.
	Dir     string
	Elapsed time.Duration
	// Err is set when the process could not be started or waited for.
	Err error
}

// Adapter builds invocations for one suite and parses their output.
type Adapter interface {
	// Suite reports which suite the adapter serves.
	Suite() Suite

	// Invocation returns the arguments to run benchmark for the given
	// number of measured iterations.
	Invocation(benchmark string, iterations int) (Invocation, error)

	// SilentFailure reports whether o failed even though the process
	// may have exited with status zero.
	SilentFailure(o Outcome) bool

	// Parse extracts exactly iterations timings from o.
	Parse(o Outcome, benchmark string, iterations int, staging string) (Timings, error)
}
