package harness

import (
	"errors"
	"testing"

	"github.com/weiihann/jvmsweep/suite"
)

func TestClassify(t *testing.T) {
	spec := suite.NewSPECjvm("s.jar", "")
	dacapo := suite.NewDaCapo("d.jar")

	tests := []struct {
		name    string
		adapter suite.Adapter
		outcome suite.Outcome
		want    bool
	}{
		{"clean exit", dacapo, suite.Outcome{}, false},
		{"non-zero exit", dacapo, suite.Outcome{ExitCode: 1}, true},
		{"signalled", dacapo, suite.Outcome{ExitCode: -1}, true},
		{"launch error", dacapo, suite.Outcome{Err: errors.New("no such file")}, true},
		{"marker ignored by dacapo", dacapo, suite.Outcome{Stdout: "Iteration failed"}, false},
		{"spec clean", spec, suite.Outcome{Stdout: "Results are stored in:\nx.raw\n"}, false},
		{"spec marker exit zero", spec, suite.Outcome{Stdout: "Iteration failed."}, true},
		{"spec marker exit non-zero", spec, suite.Outcome{ExitCode: 2, Stdout: "Iteration failed."}, true},
		{"spec non-zero without marker", spec, suite.Outcome{ExitCode: 2}, true},
	}

	for _, tt := range tests {
		got, reason := Classify(tt.adapter, tt.outcome)
		if got != tt.want {
			t.Errorf("%s: Classify = %v, want %v", tt.name, got, tt.want)
		}

		if got && reason == "" {
			t.Errorf("%s: crash without a reason", tt.name)
		}

		if !got && reason != "" {
			t.Errorf("%s: reason %q for a clean outcome", tt.name, reason)
		}
	}
}
