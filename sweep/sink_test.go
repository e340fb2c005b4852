package sweep

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiihann/jvmsweep/suite"
)

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{"processnum", "benchmark", "0", "1", "2"}, Header(3))
	assert.Equal(t, []string{"processnum", "benchmark"}, Header(0))
}

func TestRowRecord(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want []string
	}{
		{
			"timings",
			Row{Pexec: 3, Benchmark: "dacapo__fop", Timings: suite.Timings{1.5, 0.001, 2}},
			[]string{"3", "dacapo__fop", "1.5", "0.001", "2"},
		},
		{
			"crash",
			Row{Pexec: 0, Benchmark: "dacapo__fop", Crashed: true, Timings: suite.Timings{1}},
			[]string{"0", "dacapo__fop", "crash"},
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.row.Record(), tt.name)
	}
}

func TestFormatSecondsRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.1, 1.478, 123.456789012, 1e-9} {
		got, err := strconv.ParseFloat(FormatSeconds(v), 64)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestCSVSinkDurableRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.openj9.results")

	s, err := CreateCSVSink(path, 2)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name())

	require.NoError(t, s.WriteRow(Row{Pexec: 0, Benchmark: "specjvm__derby", Timings: suite.Timings{1, 2}}))

	// The row is on disk before the sink is closed.
	f, err := os.Open(path)
	require.NoError(t, err)

	recs, err := csv.NewReader(f).ReadAll()
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"processnum", "benchmark", "0", "1"},
		{"0", "specjvm__derby", "1", "2"},
	}, recs)

	require.NoError(t, s.WriteRow(Row{Pexec: 1, Benchmark: "specjvm__derby", Crashed: true}))
	require.NoError(t, s.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "processnum,benchmark,0,1\n0,specjvm__derby,1,2\n1,specjvm__derby,crash\n", string(b))
}

func TestCSVSinkTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.results")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	s, err := CreateCSVSink(path, 1)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "processnum,benchmark,0\n", string(b))
}

func TestCreateCSVSinkMissingDir(t *testing.T) {
	_, err := CreateCSVSink(filepath.Join(t.TempDir(), "missing", "x.results"), 1)
	assert.Error(t, err)
}
