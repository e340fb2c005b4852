package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/weiihann/jvmsweep/suite"
)

// Command is a fully built process invocation.
type Command struct {
	// Args holds the program followed by its arguments. No shell is
	// involved.
	Args []string
	Dir  string
	// Timeout bounds the process lifetime. Zero waits forever.
	Timeout time.Duration
}

// Executor runs one process to completion.
type Executor interface {
	Execute(ctx context.Context, cmd Command) suite.Outcome
}

// ProcessExecutor runs commands as local child processes and captures both
// output streams whole.
type ProcessExecutor struct {
	Logger *slog.Logger
	Clock  clock.Clock
}

// NewProcessExecutor creates a ProcessExecutor using the wall clock.
func NewProcessExecutor(logger *slog.Logger) *ProcessExecutor {
	return &ProcessExecutor{
		Logger: logger,
		Clock:  clock.NewClock(),
	}
}

// Execute runs cmd and blocks until it exits. A process that could not be
// started is reported with ExitCode -1 and Err set.
func (e *ProcessExecutor) Execute(ctx context.Context, c Command) suite.Outcome {
	if len(c.Args) == 0 {
		return suite.Outcome{ExitCode: -1, Err: errors.New("empty command")}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Args[0], c.Args[1:]...)
	cmd.Dir = c.Dir

	if c.Timeout > 0 {
		// Grandchildren may hold the output pipes open after a kill.
		cmd.WaitDelay = 5 * time.Second
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	dir := c.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}

	e.Logger.Debug("starting process",
		slog.Any("args", c.Args),
		slog.String("dir", dir),
	)

	start := e.Clock.Now()
	err := cmd.Run()
	elapsed := e.Clock.Since(start)

	o := suite.Outcome{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Dir:     dir,
		Elapsed: elapsed,
	}

	var exitErr *exec.ExitError

	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		o.ExitCode = exitErr.ExitCode()
		if ctxErr := ctx.Err(); ctxErr != nil {
			o.Err = fmt.Errorf("run %s: %w", c.Args[0], ctxErr)
		}
	default:
		o.ExitCode = -1
		o.Err = fmt.Errorf("run %s: %w", c.Args[0], err)
	}

	e.Logger.Debug("process finished",
		slog.Int("exit_code", o.ExitCode),
		slog.Duration("wall_time", elapsed),
	)

	return o
}
