package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/weiihann/jvmsweep/suite"
)

// CrashSentinel replaces the timings of a failed process execution.
const CrashSentinel = "crash"

// Row is the record of one process execution.
type Row struct {
	Pexec     int
	Benchmark string
	Timings   suite.Timings
	Crashed   bool
}

// Record renders r as CSV fields.
func (r Row) Record() []string {
	rec := make([]string, 0, 2+len(r.Timings))
	rec = append(rec, strconv.Itoa(r.Pexec), r.Benchmark)

	if r.Crashed {
		return append(rec, CrashSentinel)
	}

	for _, t := range r.Timings {
		rec = append(rec, FormatSeconds(t))
	}

	return rec
}

// FormatSeconds formats t with the fewest digits that parse back to t.
func FormatSeconds(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}

// Header returns the column names of a sweep file with iterations timing
// columns.
func Header(iterations int) []string {
	h := make([]string, 0, 2+iterations)
	h = append(h, "processnum", "benchmark")

	for i := range iterations {
		h = append(h, strconv.Itoa(i))
	}

	return h
}

// RowSink receives rows for one VM.
type RowSink interface {
	WriteRow(r Row) error
	Close() error
}

// SinkFactory opens the sink for vm.
type SinkFactory func(vm string, iterations int) (RowSink, error)

// CSVSink appends rows to a CSV file and forces each one to stable storage
// before WriteRow returns.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// CreateCSVSink creates or truncates path and writes the header.
func CreateCSVSink(path string, iterations int) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}

	s := &CSVSink{f: f, w: csv.NewWriter(f)}

	if err := s.write(Header(iterations)); err != nil {
		f.Close()

		return nil, err
	}

	return s, nil
}

// FileSinks returns a SinkFactory writing <dir>/<label>.<vm>.results.
func FileSinks(dir, label string) SinkFactory {
	return func(vm string, iterations int) (RowSink, error) {
		return CreateCSVSink(filepath.Join(dir, label+"."+vm+".results"), iterations)
	}
}

// Name returns the file path.
func (s *CSVSink) Name() string {
	return s.f.Name()
}

// WriteRow writes r, flushes it and syncs the file.
func (s *CSVSink) WriteRow(r Row) error {
	return s.write(r.Record())
}

func (s *CSVSink) write(rec []string) error {
	if err := s.w.Write(rec); err != nil {
		return fmt.Errorf("write row: %w", err)
	}

	s.w.Flush()

	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush row: %w", err)
	}

	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync results file: %w", err)
	}

	return nil
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()

	werr := s.w.Error()
	cerr := s.f.Close()

	if werr != nil {
		return fmt.Errorf("flush results file: %w", werr)
	}

	if cerr != nil {
		return fmt.Errorf("close results file: %w", cerr)
	}

	return nil
}
