package suite

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	specResultsSentinel = "Results are stored in:"
	specFailureMarker   = "Iteration failed"
	specIterationResult = "iteration-result"
)

// specjvmAdapter drives SPECjvm2008 in fixed-load (lagom) mode. SPECjvm
// exits zero even when an iteration fails and reports results in an XML
// file whose path it prints after specResultsSentinel.
type specjvmAdapter struct {
	jar string
	dir string
}

// NewSPECjvm returns an Adapter for the SPECjvm jar at jar. SPECjvm
// cannot run outside its install dir, so processes start in dir.
func NewSPECjvm(jar, dir string) Adapter {
	return &specjvmAdapter{jar: jar, dir: dir}
}

func (a *specjvmAdapter) Suite() Suite {
	return SPECjvm
}

func (a *specjvmAdapter) Invocation(
	benchmark string,
	iterations int,
) (Invocation, error) {
	return Invocation{
		Args: []string{
			"-jar", a.jar,
			// Fixed load rather than throughput.
			"--lagom",
			// Skip the check benchmarks that would otherwise run first.
			"-ict", "-ikv",
			"--operations", "1",
			"-i", strconv.Itoa(iterations),
			benchmark,
		},
		Dir: a.dir,
	}, nil
}

func (a *specjvmAdapter) SilentFailure(o Outcome) bool {
	return strings.Contains(o.Stdout, specFailureMarker)
}

func (a *specjvmAdapter) Parse(
	o Outcome,
	benchmark string,
	iterations int,
	_ string,
) (Timings, error) {
	path, err := specReportPath(o.Stdout)
	if err != nil {
		return nil, parseErr(SPECjvm, benchmark, err)
	}

	if !filepath.IsAbs(path) && o.Dir != "" {
		path = filepath.Join(o.Dir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, parseErr(SPECjvm, benchmark,
			fmt.Errorf("%w: open report: %v", ErrMissingSentinel, err))
	}
	defer f.Close()

	times, err := ParseSPECjvmReport(f)
	if err != nil {
		return nil, parseErr(SPECjvm, benchmark, err)
	}

	if err := checkCount(SPECjvm, benchmark, len(times), iterations); err != nil {
		return nil, err
	}

	return times, nil
}

// specReportPath returns the path on the line after the results sentinel.
func specReportPath(stdout string) (string, error) {
	sc := bufio.NewScanner(strings.NewReader(stdout))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	next := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		switch {
		case line == specResultsSentinel:
			if next {
				return "", fmt.Errorf("%w: repeated %q", ErrMalformed, specResultsSentinel)
			}

			next = true
		case next:
			if line == "" {
				return "", fmt.Errorf("%w: empty report path", ErrMissingSentinel)
			}

			return line, nil
		}
	}

	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("%w: scan stdout: %v", ErrMalformed, err)
	}

	return "", fmt.Errorf("%w: no %q line on stdout", ErrMissingSentinel, specResultsSentinel)
}

// ParseSPECjvmReport reads every iteration-result element of a SPECjvm XML
// report. Iterations must be numbered 1, 2, 3, ... and each must have a
// positive endtime - starttime, in milliseconds.
func ParseSPECjvmReport(r io.Reader) (Timings, error) {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.CharsetReader = charset.NewReaderLabel

	var times Timings

	want := 1

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: decode report: %v", ErrMalformed, err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != specIterationResult {
			continue
		}

		iter, err := intAttr(se, "iteration")
		if err != nil {
			return nil, err
		}

		if iter != int64(want) {
			return nil, fmt.Errorf(
				"%w: got iteration %d, want %d", ErrSequence, iter, want,
			)
		}

		want++

		start, err := intAttr(se, "starttime")
		if err != nil {
			return nil, err
		}

		end, err := intAttr(se, "endtime")
		if err != nil {
			return nil, err
		}

		delta := end - start
		if delta <= 0 {
			return nil, fmt.Errorf(
				"%w: iteration %d lasted %d", ErrNonPositive, iter, delta,
			)
		}

		// Units are undocumented; iteration begin/end log lines show
		// they are milliseconds.
		times = append(times, MillisToSeconds(delta).InexactFloat64())
	}

	return times, nil
}

func intAttr(se xml.StartElement, name string) (int64, error) {
	for _, a := range se.Attr {
		if a.Name.Local != name {
			continue
		}

		v, err := strconv.ParseInt(strings.TrimSpace(a.Value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q", ErrMalformed, name, a.Value)
		}

		return v, nil
	}

	return 0, fmt.Errorf("%w: %s has no %s attribute", ErrMalformed, se.Name.Local, name)
}
