package sweep

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/weiihann/jvmsweep/suite"
)

// Convert merges Renaissance results files, one per process execution,
// into a single sweep file. Every benchmark must appear in the same number
// of inputs with the same number of iterations each.
func Convert(w io.Writer, inputs ...io.Reader) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files")
	}

	var order []string

	pexecs := make(map[string][][]string)

	for i, in := range inputs {
		rows, err := suite.ReadRenaissanceRows(in)
		if err != nil {
			return fmt.Errorf("input %d: %w", i+1, err)
		}

		local := make(map[string]int)

		for _, row := range rows {
			idx, ok := local[row.Benchmark]
			if !ok {
				if _, seen := pexecs[row.Benchmark]; !seen {
					order = append(order, row.Benchmark)
				}

				idx = len(pexecs[row.Benchmark])
				local[row.Benchmark] = idx
				pexecs[row.Benchmark] = append(pexecs[row.Benchmark], nil)
			}

			secs := suite.NanosToSeconds(row.Nanos).String()
			pexecs[row.Benchmark][idx] = append(pexecs[row.Benchmark][idx], secs)
		}
	}

	if len(order) == 0 {
		return fmt.Errorf("no results in input files")
	}

	numPexecs := len(pexecs[order[0]])
	iters := len(pexecs[order[0]][0])

	for _, b := range order {
		if len(pexecs[b]) != numPexecs {
			return fmt.Errorf("%s doesn't have %d process executions", b, numPexecs)
		}

		for i, times := range pexecs[b] {
			if len(times) != iters {
				return fmt.Errorf(
					"%s, process execution %d doesn't have %d in-process iterations",
					b, i, iters,
				)
			}
		}
	}

	cw := csv.NewWriter(w)

	header := make([]string, 0, 2+iters)
	header = append(header, "process_exec_num", "bench_name")

	for i := range iters {
		header = append(header, strconv.Itoa(i))
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, b := range order {
		for i, times := range pexecs[b] {
			rec := append([]string{strconv.Itoa(i), b}, times...)
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
	}

	cw.Flush()

	return cw.Error()
}
