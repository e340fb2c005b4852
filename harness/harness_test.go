package harness

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiihann/jvmsweep/suite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

func TestExecuteCapturesStreams(t *testing.T) {
	requireShell(t)

	e := NewProcessExecutor(discardLogger())
	o := e.Execute(context.Background(), Command{
		Args: []string{"/bin/sh", "-c", "echo out; echo err >&2; exit 3"},
	})

	require.NoError(t, o.Err)
	assert.Equal(t, 3, o.ExitCode)
	assert.Equal(t, "out\n", o.Stdout)
	assert.Equal(t, "err\n", o.Stderr)
}

func TestExecuteNoShellInterpretation(t *testing.T) {
	requireShell(t)

	e := NewProcessExecutor(discardLogger())
	o := e.Execute(context.Background(), Command{
		Args: []string{"/bin/sh", "-c", `printf '%s' "$1"`, "sh", "$HOME; exit 7"},
	})

	require.NoError(t, o.Err)
	assert.Equal(t, 0, o.ExitCode)
	assert.Equal(t, "$HOME; exit 7", o.Stdout)
}

func TestExecuteWorkingDir(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()

	e := NewProcessExecutor(discardLogger())
	o := e.Execute(context.Background(), Command{
		Args: []string{"/bin/sh", "-c", "pwd -P"},
		Dir:  dir,
	})

	require.NoError(t, o.Err)
	assert.Equal(t, dir, o.Dir)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want, strings.TrimSpace(o.Stdout))
}

func TestExecuteMissingBinary(t *testing.T) {
	e := NewProcessExecutor(discardLogger())
	o := e.Execute(context.Background(), Command{
		Args: []string{"/nonexistent/bin/java", "-version"},
	})

	assert.Error(t, o.Err)
	assert.Equal(t, -1, o.ExitCode)
}

func TestExecuteEmptyCommand(t *testing.T) {
	o := NewProcessExecutor(discardLogger()).Execute(context.Background(), Command{})

	assert.Error(t, o.Err)
	assert.Equal(t, -1, o.ExitCode)
}

func TestExecuteTimeout(t *testing.T) {
	requireShell(t)

	e := NewProcessExecutor(discardLogger())
	o := e.Execute(context.Background(), Command{
		Args:    []string{"/bin/sh", "-c", "exec sleep 10"},
		Timeout: 50 * time.Millisecond,
	})

	assert.ErrorIs(t, o.Err, context.DeadlineExceeded)
	assert.NotEqual(t, 0, o.ExitCode)
}

func TestExecuteUsesInjectedClock(t *testing.T) {
	requireShell(t)

	e := &ProcessExecutor{
		Logger: discardLogger(),
		Clock:  fakeclock.NewFakeClock(time.Unix(0, 0)),
	}

	o := e.Execute(context.Background(), Command{Args: []string{"/bin/sh", "-c", "true"}})

	require.NoError(t, o.Err)
	assert.Equal(t, time.Duration(0), o.Elapsed)
}

func TestBuildCommand(t *testing.T) {
	vm := VM{
		Name: "openj9",
		Args: append([]string{"/opt/openj9/bin/java"}, HeapFlags("12G")...),
	}
	inv := suite.Invocation{Args: []string{"-jar", "d.jar", "avrora"}, Dir: "/work"}

	cmd := BuildCommand(vm, inv, time.Minute)

	assert.Equal(t, []string{
		"/opt/openj9/bin/java", "-Xms12G", "-Xmx12G", "-jar", "d.jar", "avrora",
	}, cmd.Args)
	assert.Equal(t, "/work", cmd.Dir)
	assert.Equal(t, time.Minute, cmd.Timeout)

	// The VM's own slice must not be aliased by the command.
	cmd.Args[0] = "changed"
	assert.Equal(t, "/opt/openj9/bin/java", vm.Args[0])
}

func TestHeapFlags(t *testing.T) {
	assert.Equal(t, []string{"-Xms4G", "-Xmx4G"}, HeapFlags("4G"))
	assert.Nil(t, HeapFlags(""))
}

func TestProcessRecordJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewProcessRecord(suite.Timings{1.5, 0.25}).WriteJSON(&buf))

	assert.JSONEq(t, `{
		"wallclock_times": [1.5, 0.25],
		"core_cycle_counts": [],
		"aperf_counts": [],
		"mperf_counts": []
	}`, buf.String())
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	rec, err := DecodeProcessRecord(&buf)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 0.25}, rec.WallclockTimes)
}

func TestDecodeProcessRecordInvalidJSON(t *testing.T) {
	_, err := DecodeProcessRecord(strings.NewReader("not json at all"))
	assert.Error(t, err)
}
