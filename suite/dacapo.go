package suite

import (
	"bufio"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	dacapoMarker = "====="
	dacapoWarmup = "completed warmup"
)

// dacapoAdapter drives DaCapo. DaCapo cannot write results to a file, so
// iteration times are scraped from lines like:
//
//	===== DaCapo 9.12 avrora completed warmup 1 in 3336 msec =====
type dacapoAdapter struct {
	jar string
}

// NewDaCapo returns an Adapter that runs the DaCapo jar at jar.
func NewDaCapo(jar string) Adapter {
	return &dacapoAdapter{jar: jar}
}

func (a *dacapoAdapter) Suite() Suite {
	return DaCapo
}

// Invocation asks for one more iteration than measured: the final
// iteration reports "PASSED" rather than "completed warmup".
func (a *dacapoAdapter) Invocation(
	benchmark string,
	iterations int,
) (Invocation, error) {
	return Invocation{
		Args: []string{
			"-jar", a.jar,
			benchmark,
			"-n", strconv.Itoa(iterations + 1),
		},
	}, nil
}

func (a *dacapoAdapter) SilentFailure(Outcome) bool {
	return false
}

func (a *dacapoAdapter) Parse(
	o Outcome,
	benchmark string,
	iterations int,
	_ string,
) (Timings, error) {
	var times Timings

	sc := bufio.NewScanner(strings.NewReader(o.Stderr))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, dacapoMarker) ||
			!strings.Contains(line, dacapoWarmup) {
			continue
		}

		secs, err := parseDaCapoLine(line, benchmark)
		if err != nil {
			return nil, parseErr(DaCapo, benchmark, err)
		}

		times = append(times, secs)
	}

	if err := sc.Err(); err != nil {
		return nil, parseErr(DaCapo, benchmark,
			fmt.Errorf("%w: scan stderr: %v", ErrMalformed, err))
	}

	if err := checkCount(DaCapo, benchmark, len(times), iterations); err != nil {
		return nil, err
	}

	return times, nil
}

func parseDaCapoLine(line, benchmark string) (float64, error) {
	if !strings.Contains(line, benchmark) {
		return 0, fmt.Errorf("%w: %q", ErrBenchmarkMismatch, line)
	}

	fields := strings.Fields(line)

	i := slices.Index(fields, "in")
	if i < 0 || i+2 >= len(fields) {
		return 0, fmt.Errorf("%w: no duration in %q", ErrMalformed, line)
	}

	if fields[i+2] != "msec" {
		return 0, fmt.Errorf("%w: unit %q in %q", ErrMalformed, fields[i+2], line)
	}

	ms, err := strconv.ParseInt(fields[i+1], 10, 64)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("%w: duration %q in %q", ErrMalformed, fields[i+1], line)
	}

	return MillisToSeconds(ms).InexactFloat64(), nil
}

// MillisToSeconds converts an integer millisecond count to exact seconds.
func MillisToSeconds(ms int64) decimal.Decimal {
	return decimal.New(ms, -3)
}
