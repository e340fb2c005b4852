package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/weiihann/jvmsweep/config"
	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
)

func newExecCmd(logger *slog.Logger) *cobra.Command {
	var (
		pathsFile    string
		registryFile string
		vmName       string
	)

	cmd := &cobra.Command{
		Use:   "exec <benchmark-id> <iters> <param> <instr>",
		Short: "Run one process execution and print its process record",
		Long: `Run a single process execution of <benchmark-id> (for example
dacapo__fop) and write the process record JSON to stdout, in the form
expected from an external suite runner. <param> is accepted and ignored;
<instr> requests instrumentation, which is not collected.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := suite.ParseBenchmark(args[0])
			if err != nil {
				return err
			}

			iters, err := positiveArg("iters", args[1])
			if err != nil {
				return err
			}

			instr, err := strconv.ParseBool(args[3])
			if err != nil {
				return fmt.Errorf("parse instr %q: %w", args[3], err)
			}

			if instr {
				logger.Warn("instrumentation requested but not collected",
					slog.String("benchmark", b.ID()))
			}

			return execOne(cmd.Context(), logger, execConfig{
				benchmark:    b,
				iterations:   iters,
				pathsFile:    pathsFile,
				registryFile: registryFile,
				vm:           vmName,
				stdout:       cmd.OutOrStdout(),
				stderr:       cmd.ErrOrStderr(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&pathsFile, "paths", "paths.sh",
		"KEY=VALUE file locating VMs and suite jars")
	flags.StringVar(&registryFile, "registry", "",
		"YAML file overriding the built-in VMs, benchmarks and skip lists")
	flags.StringVar(&vmName, "vm", "",
		"VM to run the benchmark on")
	_ = cmd.MarkFlagRequired("vm")

	return cmd
}

type execConfig struct {
	benchmark    suite.Benchmark
	iterations   int
	pathsFile    string
	registryFile string
	vm           string
	stdout       io.Writer
	stderr       io.Writer
}

func execOne(
	ctx context.Context,
	logger *slog.Logger,
	cfg execConfig,
) error {
	conf, err := config.Load(cfg.pathsFile, cfg.registryFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	adapter, err := conf.Adapter(cfg.benchmark.Suite)
	if err != nil {
		return fmt.Errorf("configure adapter: %w", err)
	}

	vm, err := conf.ResolveVM(cfg.vm)
	if err != nil {
		return fmt.Errorf("resolve VM: %w", err)
	}

	norm := harness.NewNormalizer(
		harness.NewProcessExecutor(logger),
		map[suite.Suite]suite.Adapter{cfg.benchmark.Suite: adapter},
		logger,
	)

	times, err := norm.Normalize(ctx, vm, cfg.benchmark, cfg.iterations)
	if err != nil {
		var f *harness.Failure
		if errors.As(err, &f) && f.Outcome != nil {
			fmt.Fprint(cfg.stderr, f.Outcome.Stdout)
			fmt.Fprint(cfg.stderr, f.Outcome.Stderr)
		}

		return fmt.Errorf("execute %s: %w", cfg.benchmark, err)
	}

	if err := harness.NewProcessRecord(times).WriteJSON(cfg.stdout); err != nil {
		return fmt.Errorf("write process record: %w", err)
	}

	return nil
}
