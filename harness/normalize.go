package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/weiihann/jvmsweep/suite"
)

// Reason tells why a unit of work produced no timings.
type Reason int

const (
	// ReasonBuild means no process was started.
	ReasonBuild Reason = iota + 1
	// ReasonCrash means the process failed or reported a failure.
	ReasonCrash
	// ReasonParse means the process succeeded but its output was unusable.
	ReasonParse
)

func (r Reason) String() string {
	switch r {
	case ReasonBuild:
		return "build"
	case ReasonCrash:
		return "crash"
	case ReasonParse:
		return "parse"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// ErrCrashed is wrapped by every ReasonCrash failure.
var ErrCrashed = errors.New("process execution crashed")

// Failure is the error returned by Normalize for every failed unit.
type Failure struct {
	Reason    Reason
	VM        string
	Benchmark suite.Benchmark
	// Outcome is nil for ReasonBuild.
	Outcome *suite.Outcome
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s::%s: %s: %v", f.VM, f.Benchmark, f.Reason, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Normalizer runs single units of work and reduces them to timings.
type Normalizer struct {
	Executor Executor
	Adapters map[suite.Suite]suite.Adapter
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewNormalizer creates a Normalizer. Adapters must hold one entry for
// every suite that will be normalized.
func NewNormalizer(
	exec Executor,
	adapters map[suite.Suite]suite.Adapter,
	logger *slog.Logger,
) *Normalizer {
	return &Normalizer{
		Executor: exec,
		Adapters: adapters,
		Logger:   logger,
	}
}

// Normalize runs benchmark once on vm and returns exactly iterations
// timings. Any other result is a *Failure. Staging files allocated for the
// run are removed before Normalize returns.
func (n *Normalizer) Normalize(
	ctx context.Context,
	vm VM,
	b suite.Benchmark,
	iterations int,
) (suite.Timings, error) {
	logger := n.Logger.With(
		slog.String("vm", vm.Name),
		slog.String("benchmark", b.ID()),
	)

	fail := func(r Reason, o *suite.Outcome, err error) error {
		return &Failure{Reason: r, VM: vm.Name, Benchmark: b, Outcome: o, Err: err}
	}

	a, ok := n.Adapters[b.Suite]
	if !ok {
		return nil, fail(ReasonBuild, nil, fmt.Errorf("no adapter for suite %s", b.Suite))
	}

	if iterations <= 0 {
		return nil, fail(ReasonBuild, nil, fmt.Errorf("invalid iteration count %d", iterations))
	}

	inv, err := a.Invocation(b.Name, iterations)
	if err != nil {
		return nil, fail(ReasonBuild, nil, fmt.Errorf("build invocation: %w", err))
	}

	if inv.StagingPath != "" {
		defer func() {
			if err := os.Remove(inv.StagingPath); err != nil && !os.IsNotExist(err) {
				logger.Warn("failed to remove staging file",
					slog.String("path", inv.StagingPath),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	cmd := BuildCommand(vm, inv, n.Timeout)
	logger.Debug("invocation built", slog.Any("args", cmd.Args))

	o := n.Executor.Execute(ctx, cmd)
	logger.Debug("process executed",
		slog.Int("exit_code", o.ExitCode),
		slog.Duration("wall_time", o.Elapsed),
	)

	if crashed, reason := Classify(a, o); crashed {
		return nil, fail(ReasonCrash, &o, fmt.Errorf("%w: %s", ErrCrashed, reason))
	}

	times, err := a.Parse(o, b.Name, iterations, inv.StagingPath)
	if err != nil {
		return nil, fail(ReasonParse, &o, err)
	}

	logger.Debug("output parsed", slog.Int("iterations", len(times)))

	return times, nil
}
