// Package main provides the CLI entry point for jvmsweep, a benchmark sweep
// driver for JVM benchmark suites.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/jvmsweep/config"
	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
	"github.com/weiihann/jvmsweep/sweep"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	root := newRootCmd(logger, level)
	if err := root.Execute(); err != nil {
		logger.Error("jvmsweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger, level *slog.LevelVar) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "jvmsweep",
		Short: "Repeated-execution benchmark sweeps over JVM benchmark suites",
		Long: `jvmsweep runs every benchmark of a suite on every configured VM for a
fixed number of process executions and in-process iterations, and records the
per-iteration wall-clock times of each execution as one CSV row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				level.Set(slog.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	root.AddCommand(
		newRunCmd(logger),
		newExecCmd(logger),
		newConvertCmd(),
		newReportCmd(),
		newListCmd(),
	)

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		pathsFile    string
		registryFile string
		outDir       string
		vms          []string
		timeout      time.Duration
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "run <suite> <pexecs> <ipis>",
		Short: "Run a benchmark sweep",
		Long: `Run each benchmark of the suite on each VM <pexecs> times, asking the
suite for <ipis> in-process iterations per execution. Results go to
<out>/<suite>.<vm>.results.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := suite.Parse(args[0])
			if err != nil {
				return err
			}

			pexecs, err := positiveArg("pexecs", args[1])
			if err != nil {
				return err
			}

			ipis, err := positiveArg("ipis", args[2])
			if err != nil {
				return err
			}

			return runSweep(cmd.Context(), logger, runConfig{
				suite:        s,
				pexecs:       pexecs,
				iterations:   ipis,
				pathsFile:    pathsFile,
				registryFile: registryFile,
				outDir:       outDir,
				vms:          vms,
				timeout:      timeout,
				dryRun:       dryRun,
				stdout:       cmd.OutOrStdout(),
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&pathsFile, "paths", "paths.sh",
		"KEY=VALUE file locating VMs and suite jars")
	flags.StringVar(&registryFile, "registry", "",
		"YAML file overriding the built-in VMs, benchmarks and skip lists")
	flags.StringVarP(&outDir, "out", "o", ".",
		"Directory for results files")
	flags.StringSliceVar(&vms, "vm", nil,
		"VMs to run (default: all registered VMs)")
	flags.DurationVar(&timeout, "timeout", 0,
		"Per-process timeout (0 = none)")
	flags.BoolVar(&dryRun, "dry-run", false,
		"Print the plan without launching any process")

	return cmd
}

type runConfig struct {
	suite        suite.Suite
	pexecs       int
	iterations   int
	pathsFile    string
	registryFile string
	outDir       string
	vms          []string
	timeout      time.Duration
	dryRun       bool
	stdout       io.Writer
}

func runSweep(
	ctx context.Context,
	logger *slog.Logger,
	cfg runConfig,
) error {
	conf, err := config.Load(cfg.pathsFile, cfg.registryFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := conf.Registry.Validate(cfg.suite); err != nil {
		return fmt.Errorf("validate registry: %w", err)
	}

	adapters, err := conf.Adapters(cfg.suite)
	if err != nil {
		return fmt.Errorf("configure adapters: %w", err)
	}

	vms, err := conf.ResolveVMs(cfg.vms...)
	if err != nil {
		return fmt.Errorf("resolve VMs: %w", err)
	}

	plan, err := sweep.NewPlan(sweep.PlanConfig{
		VMs:        vms,
		Benchmarks: conf.Registry.BenchmarksFor(cfg.suite),
		Skip:       conf.Registry.Skipped,
		Pexecs:     cfg.pexecs,
		Iterations: cfg.iterations,
	})
	if err != nil {
		return fmt.Errorf("plan sweep: %w", err)
	}

	summary := plan.Summary()
	logger.InfoContext(ctx, "starting sweep",
		slog.String("suite", cfg.suite.String()),
		slog.Int("vms", summary.VMs),
		slog.Int("pairs", summary.Pairs),
		slog.Int("skipped_pairs", summary.SkippedPairs),
		slog.Int("executions", summary.Executions),
		slog.Int("iterations", cfg.iterations),
	)

	if cfg.dryRun {
		for _, p := range plan.Pairs {
			mark := ""
			if p.Skipped {
				mark = " (skipped)"
			}

			fmt.Fprintf(cfg.stdout, "%s %s%s\n", p.VM.Name, p.Benchmark.ID(), mark)
		}

		return nil
	}

	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	norm := harness.NewNormalizer(harness.NewProcessExecutor(logger), adapters, logger)
	norm.Timeout = cfg.timeout

	runner := sweep.NewRunner(plan, norm, sweep.FileSinks(cfg.outDir, cfg.suite.String()), logger)
	if _, err := runner.Run(ctx); err != nil {
		return fmt.Errorf("run sweep: %w", err)
	}

	return nil
}

func positiveArg(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, v, err)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", name, n)
	}

	return n, nil
}
