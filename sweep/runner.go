package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
)

// Normalizer runs one process execution and returns its timings.
type Normalizer interface {
	Normalize(
		ctx context.Context,
		vm harness.VM,
		b suite.Benchmark,
		iterations int,
	) (suite.Timings, error)
}

// Result counts what a sweep did.
type Result struct {
	Rows         int
	Crashes      int
	SkippedPairs int
}

// Runner executes a Plan. It runs one process at a time and never retries.
type Runner struct {
	Plan       Plan
	Normalizer Normalizer
	Sinks      SinkFactory
	Logger     *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(
	plan Plan,
	n Normalizer,
	sinks SinkFactory,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		Plan:       plan,
		Normalizer: n,
		Sinks:      sinks,
		Logger:     logger,
	}
}

// Run executes every non-skipped pair Plan.Pexecs times. A failed process
// execution becomes a crash row and the sweep moves on; only sink errors
// abort it.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	var res Result

	for _, vm := range r.Plan.VMs {
		if err := r.runVM(ctx, vm, &res); err != nil {
			return res, err
		}
	}

	r.Logger.InfoContext(ctx, "sweep complete",
		slog.Int("rows", res.Rows),
		slog.Int("crashes", res.Crashes),
		slog.Int("skipped_pairs", res.SkippedPairs),
	)

	return res, nil
}

func (r *Runner) runVM(ctx context.Context, vm harness.VM, res *Result) (err error) {
	sink, err := r.Sinks(vm.Name, r.Plan.Iterations)
	if err != nil {
		return fmt.Errorf("open results for %s: %w", vm.Name, err)
	}

	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close results for %s: %w", vm.Name, cerr)
		}
	}()

	for _, pair := range r.Plan.PairsFor(vm.Name) {
		logger := r.Logger.With(
			slog.String("vm", vm.Name),
			slog.String("benchmark", pair.Benchmark.ID()),
		)

		if pair.Skipped {
			logger.InfoContext(ctx, "skipping benchmark marked broken")

			res.SkippedPairs++

			continue
		}

		for pexec := range r.Plan.Pexecs {
			row := r.execute(ctx, logger.With(slog.Int("pexec", pexec)), pair, pexec)

			if err := sink.WriteRow(row); err != nil {
				return fmt.Errorf("record %s::%s::%d: %w", vm.Name, pair.Benchmark, pexec, err)
			}

			res.Rows++
			if row.Crashed {
				res.Crashes++
			}
		}
	}

	return nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, pair Pair, pexec int) Row {
	logger.InfoContext(ctx, "starting process execution")

	row := Row{Pexec: pexec, Benchmark: pair.Benchmark.ID()}

	times, err := r.Normalizer.Normalize(ctx, pair.VM, pair.Benchmark, r.Plan.Iterations)
	if err == nil {
		row.Timings = times

		return row
	}

	row.Crashed = true

	attrs := []any{slog.String("error", err.Error())}

	var f *harness.Failure
	if errors.As(err, &f) {
		attrs = append(attrs, slog.String("reason", f.Reason.String()))

		if f.Outcome != nil {
			attrs = append(attrs,
				slog.Int("exit_code", f.Outcome.ExitCode),
				slog.String("stdout", f.Outcome.Stdout),
				slog.String("stderr", f.Outcome.Stderr),
			)
		}
	}

	logger.WarnContext(ctx, "process execution failed", attrs...)

	return row
}
