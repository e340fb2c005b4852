// Package report summarizes sweep results files into comparison tables.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/weiihann/jvmsweep/sweep"
)

// Execution is one row of a sweep file.
type Execution struct {
	Pexec   int
	Times   []float64
	Crashed bool
}

// Runs holds every process execution of one benchmark.
type Runs struct {
	Benchmark  string
	Executions []Execution
}

// Sweep holds the contents of one VM's results file.
type Sweep struct {
	VM   string
	Runs []Runs
}

// Summary describes one benchmark on one VM.
type Summary struct {
	VM         string  `json:"vm"`
	Benchmark  string  `json:"benchmark"`
	Pexecs     int     `json:"pexecs"`
	Crashes    int     `json:"crashes"`
	Iterations int     `json:"iterations"`
	Mean       float64 `json:"mean_s"`
	Median     float64 `json:"median_s"`
	StdDev     float64 `json:"stddev_s"`
}

// VMFromPath extracts the VM name from a "<suite>.<vm>.results" path.
func VMFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".results")
	if _, vm, ok := strings.Cut(name, "."); ok {
		return vm
	}

	return name
}

// Load reads a sweep file. Benchmarks keep the order of their first row.
func Load(r io.Reader, vm string) (Sweep, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return Sweep{}, fmt.Errorf("empty results file")
		}

		return Sweep{}, fmt.Errorf("read header: %w", err)
	}

	s := Sweep{VM: vm}
	index := make(map[string]int)

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Sweep{}, fmt.Errorf("read row: %w", err)
		}

		exec, err := parseExecution(rec)
		if err != nil {
			return Sweep{}, fmt.Errorf("line %d: %w", line, err)
		}

		i, ok := index[rec[1]]
		if !ok {
			i = len(s.Runs)
			index[rec[1]] = i
			s.Runs = append(s.Runs, Runs{Benchmark: rec[1]})
		}

		s.Runs[i].Executions = append(s.Runs[i].Executions, exec)
	}

	return s, nil
}

func parseExecution(rec []string) (Execution, error) {
	if len(rec) < 3 {
		return Execution{}, fmt.Errorf("short row %q", rec)
	}

	pexec, err := strconv.Atoi(rec[0])
	if err != nil {
		return Execution{}, fmt.Errorf("process execution %q: %w", rec[0], err)
	}

	if len(rec) == 3 && rec[2] == sweep.CrashSentinel {
		return Execution{Pexec: pexec, Crashed: true}, nil
	}

	times := make([]float64, 0, len(rec)-2)

	for _, field := range rec[2:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return Execution{}, fmt.Errorf("timing %q: %w", field, err)
		}

		times = append(times, v)
	}

	return Execution{Pexec: pexec, Times: times}, nil
}

// Summarize computes a Summary per VM and benchmark.
func Summarize(sweeps []Sweep) ([]Summary, error) {
	var out []Summary

	for _, s := range sweeps {
		for _, runs := range s.Runs {
			sum := Summary{VM: s.VM, Benchmark: runs.Benchmark}

			var all stats.Float64Data

			for _, e := range runs.Executions {
				sum.Pexecs++

				if e.Crashed {
					sum.Crashes++

					continue
				}

				sum.Iterations = max(sum.Iterations, len(e.Times))
				all = append(all, e.Times...)
			}

			if len(all) > 0 {
				var err error

				if sum.Mean, err = all.Mean(); err != nil {
					return nil, fmt.Errorf("%s %s mean: %w", s.VM, runs.Benchmark, err)
				}

				if sum.Median, err = all.Median(); err != nil {
					return nil, fmt.Errorf("%s %s median: %w", s.VM, runs.Benchmark, err)
				}

				if sum.StdDev, err = all.StandardDeviation(); err != nil {
					return nil, fmt.Errorf("%s %s stddev: %w", s.VM, runs.Benchmark, err)
				}
			}

			out = append(out, sum)
		}
	}

	return out, nil
}

// Generate writes a markdown table summarizing sweeps.
func Generate(w io.Writer, sweeps []Sweep) error {
	summaries, err := Summarize(sweeps)
	if err != nil {
		return err
	}

	if len(summaries) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Sweep Results")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "| VM | Benchmark | Pexecs | Crashes | Iterations "+
		"| Mean | Median | Std Dev |")
	fmt.Fprintln(w, "|----|-----------|--------|---------|------------"+
		"|------|--------|---------|")

	for _, s := range summaries {
		ok := s.Pexecs > s.Crashes

		fmt.Fprintf(w, "| %s | %s | %d | %d | %d | %s | %s | %s |\n",
			s.VM,
			s.Benchmark,
			s.Pexecs,
			s.Crashes,
			s.Iterations,
			formatSeconds(s.Mean, ok),
			formatSeconds(s.Median, ok),
			formatSeconds(s.StdDev, ok),
		)
	}

	return nil
}

// GenerateJSON writes the summaries of sweeps as JSON to w.
func GenerateJSON(w io.Writer, sweeps []Sweep) error {
	summaries, err := Summarize(sweeps)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(summaries)
}

func formatSeconds(s float64, ok bool) string {
	if !ok {
		return "-"
	}

	if s < 1 {
		return fmt.Sprintf("%.1fms", s*1000)
	}

	return fmt.Sprintf("%.3fs", s)
}
