package harness

import (
	"fmt"

	"github.com/weiihann/jvmsweep/suite"
)

// Classify decides whether a process execution crashed. It must be
// consulted before parsing: a crashed process's output is not trusted.
// The returned reason is empty when crashed is false.
func Classify(a suite.Adapter, o suite.Outcome) (crashed bool, reason string) {
	switch {
	case o.Err != nil:
		return true, o.Err.Error()
	case o.ExitCode != 0:
		return true, fmt.Sprintf("exit status %d", o.ExitCode)
	case a.SilentFailure(o):
		return true, fmt.Sprintf("%s reported a failed iteration", a.Suite())
	default:
		return false, ""
	}
}
