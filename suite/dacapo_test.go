package suite

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dacapoStderr(benchmark string, msecs ...int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Using scaled threading model. 8 processors detected\n")

	for i, ms := range msecs {
		fmt.Fprintf(&b, "===== DaCapo 9.12-MR1 %s starting warmup %d =====\n", benchmark, i+1)
		fmt.Fprintf(&b, "===== DaCapo 9.12-MR1 %s completed warmup %d in %d msec =====\n",
			benchmark, i+1, ms)
	}

	fmt.Fprintf(&b, "===== DaCapo 9.12-MR1 %s starting =====\n", benchmark)
	fmt.Fprintf(&b, "===== DaCapo 9.12-MR1 %s PASSED in 1200 msec =====\n", benchmark)

	return b.String()
}

func TestDaCapoInvocation(t *testing.T) {
	inv, err := NewDaCapo("/opt/dacapo.jar").Invocation("avrora", 2000)
	require.NoError(t, err)

	want := []string{"-jar", "/opt/dacapo.jar", "avrora", "-n", "2001"}
	if diff := cmp.Diff(want, inv.Args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, inv.StagingPath)
}

func TestDaCapoParse(t *testing.T) {
	o := Outcome{Stderr: dacapoStderr("avrora", 3336, 2100, 1987)}

	got, err := NewDaCapo("d.jar").Parse(o, "avrora", 3, "")
	require.NoError(t, err)

	want := Timings{3.336, 2.1, 1.987}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("timings mismatch (-want +got):\n%s", diff)
	}
}

func TestDaCapoParseIgnoresUnrecognizedLines(t *testing.T) {
	stderr := strings.Join([]string{
		"===== DaCapo 9.12-MR1 h2 completed warmup 1 in 500 msec =====",
		"completed warmup 2 in 400 msec",
		"===== DaCapo 9.12-MR1 h2 starting warmup 2 in 3 phases =====",
		"  ===== DaCapo 9.12-MR1 h2 completed warmup 2 in 400 msec =====",
		"===== DaCapo 9.12-MR1 h2 completed warmup 2 in 450 msec =====",
		"===== DaCapo 9.12-MR1 h2 PASSED in 600 msec =====",
	}, "\n")

	got, err := NewDaCapo("d.jar").Parse(Outcome{Stderr: stderr}, "h2", 2, "")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.45}, []float64(got), 1e-12)
}

func TestDaCapoParseOneShort(t *testing.T) {
	o := Outcome{Stderr: dacapoStderr("avrora", 1, 2)}

	got, err := NewDaCapo("d.jar").Parse(o, "avrora", 3, "")
	require.ErrorIs(t, err, ErrIterationCount)
	assert.Nil(t, got)
}

func TestDaCapoParseTooMany(t *testing.T) {
	o := Outcome{Stderr: dacapoStderr("avrora", 1, 2, 3, 4)}

	_, err := NewDaCapo("d.jar").Parse(o, "avrora", 3, "")
	assert.ErrorIs(t, err, ErrIterationCount)
}

func TestDaCapoParseInvalidLines(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
	}{
		{
			"other benchmark",
			"===== DaCapo 9.12-MR1 fop completed warmup 1 in 10 msec =====",
			ErrBenchmarkMismatch,
		},
		{
			"wrong unit",
			"===== DaCapo 9.12-MR1 avrora completed warmup 1 in 10 sec =====",
			ErrMalformed,
		},
		{
			"non-numeric duration",
			"===== DaCapo 9.12-MR1 avrora completed warmup 1 in ten msec =====",
			ErrMalformed,
		},
		{
			"no duration",
			"===== DaCapo 9.12-MR1 avrora completed warmup 1 =====",
			ErrMalformed,
		},
		{
			"truncated",
			"===== DaCapo 9.12-MR1 avrora completed warmup 1 in",
			ErrMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDaCapo("d.jar").Parse(Outcome{Stderr: tt.line}, "avrora", 1, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDaCapoIgnoresStdout(t *testing.T) {
	o := Outcome{Stdout: dacapoStderr("avrora", 5)}

	_, err := NewDaCapo("d.jar").Parse(o, "avrora", 1, "")
	assert.ErrorIs(t, err, ErrIterationCount)
}
