package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Suite
		wantErr bool
	}{
		{"renaissance", Renaissance, false},
		{"dacapo", DaCapo, false},
		{"DaCapo", DaCapo, false},
		{"specjvm", SPECjvm, false},
		{"spec", SPECjvm, false},
		{"jmh", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "Parse(%q)", tt.input)

			continue
		}

		require.NoError(t, err, "Parse(%q)", tt.input)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.input)
	}
}

func TestSuiteStringRoundTrip(t *testing.T) {
	for _, s := range All() {
		got, err := Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestBenchmarkID(t *testing.T) {
	b := Benchmark{Suite: SPECjvm, Name: "scimark.fft.large"}
	assert.Equal(t, "specjvm__scimark.fft.large", b.ID())

	got, err := ParseBenchmark(b.ID())
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestParseBenchmarkInvalid(t *testing.T) {
	for _, id := range []string{"avrora", "dacapo__", "jmh__foo", "__avrora"} {
		_, err := ParseBenchmark(id)
		assert.Error(t, err, "ParseBenchmark(%q)", id)
	}
}

func TestUnmarshalText(t *testing.T) {
	var s Suite
	require.NoError(t, s.UnmarshalText([]byte("dacapo")))
	assert.Equal(t, DaCapo, s)
	assert.Error(t, s.UnmarshalText([]byte("nope")))
}
