package suite

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

// renaissanceAdapter drives Renaissance, which can write its per-iteration
// results to a CSV file named on the command line.
type renaissanceAdapter struct {
	jar     string
	tempDir string
}

// NewRenaissance returns an Adapter that runs the Renaissance jar at jar.
// Staging files are created in tempDir, or the system default when empty.
func NewRenaissance(jar, tempDir string) Adapter {
	return &renaissanceAdapter{jar: jar, tempDir: tempDir}
}

func (a *renaissanceAdapter) Suite() Suite {
	return Renaissance
}

func (a *renaissanceAdapter) Invocation(
	benchmark string,
	iterations int,
) (Invocation, error) {
	f, err := os.CreateTemp(a.tempDir, "jvmsweep-renaissance-*.csv")
	if err != nil {
		return Invocation{}, fmt.Errorf("create staging file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())

		return Invocation{}, fmt.Errorf("close staging file: %w", err)
	}

	return Invocation{
		Args: []string{
			"-jar", a.jar,
			"-r", strconv.Itoa(iterations),
			"--csv", f.Name(),
			benchmark,
		},
		StagingPath: f.Name(),
	}, nil
}

// SilentFailure is never true: Renaissance exits non-zero when a
// benchmark fails.
func (a *renaissanceAdapter) SilentFailure(Outcome) bool {
	return false
}

func (a *renaissanceAdapter) Parse(
	_ Outcome,
	benchmark string,
	iterations int,
	staging string,
) (Timings, error) {
	if staging == "" {
		return nil, parseErr(Renaissance, benchmark,
			fmt.Errorf("%w: no staging file", ErrMissingSentinel))
	}

	f, err := os.Open(staging)
	if err != nil {
		return nil, parseErr(Renaissance, benchmark,
			fmt.Errorf("%w: open results: %v", ErrMissingSentinel, err))
	}
	defer f.Close()

	times, err := ParseRenaissanceCSV(f, benchmark)
	if err != nil {
		return nil, err
	}

	if err := checkCount(Renaissance, benchmark, len(times), iterations); err != nil {
		return nil, err
	}

	return times, nil
}

// ParseRenaissanceCSV reads a Renaissance results file: a header starting
// with "benchmark,nanos" followed by one row per iteration, in completion
// order. Every row must name benchmark.
func ParseRenaissanceCSV(r io.Reader, benchmark string) (Timings, error) {
	nanos, err := readRenaissanceNanos(r, benchmark)
	if err != nil {
		return nil, err
	}

	times := make(Timings, len(nanos))
	for i, n := range nanos {
		times[i] = NanosToSeconds(n).InexactFloat64()
	}

	return times, nil
}

// RenaissanceRow is one data row of a Renaissance results file.
type RenaissanceRow struct {
	Benchmark string
	Nanos     int64
}

// ReadRenaissanceRows reads every data row of a Renaissance results file
// without filtering by benchmark.
func ReadRenaissanceRows(r io.Reader) ([]RenaissanceRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty results file", ErrHeader)
		}

		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if len(header) < 2 || header[0] != "benchmark" || header[1] != "nanos" {
		return nil, fmt.Errorf("%w: %q", ErrHeader, header)
	}

	var rows []RenaissanceRow

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		if len(rec) < 2 {
			return nil, fmt.Errorf("%w: short row %q", ErrMalformed, rec)
		}

		n, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: nanos %q", ErrMalformed, rec[1])
		}

		if n < 0 {
			return nil, fmt.Errorf("%w: nanos %d", ErrMalformed, n)
		}

		rows = append(rows, RenaissanceRow{Benchmark: rec[0], Nanos: n})
	}

	return rows, nil
}

func readRenaissanceNanos(r io.Reader, benchmark string) ([]int64, error) {
	rows, err := ReadRenaissanceRows(r)
	if err != nil {
		return nil, parseErr(Renaissance, benchmark, err)
	}

	nanos := make([]int64, 0, len(rows))

	for i, row := range rows {
		if row.Benchmark != benchmark {
			return nil, parseErr(Renaissance, benchmark, fmt.Errorf(
				"%w: row %d names %q", ErrBenchmarkMismatch, i+1, row.Benchmark,
			))
		}

		nanos = append(nanos, row.Nanos)
	}

	return nanos, nil
}

// NanosToSeconds converts an integer nanosecond count to exact seconds.
func NanosToSeconds(n int64) decimal.Decimal {
	return decimal.New(n, -9)
}
