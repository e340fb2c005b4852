package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/weiihann/jvmsweep/config"
	"github.com/weiihann/jvmsweep/report"
	"github.com/weiihann/jvmsweep/suite"
	"github.com/weiihann/jvmsweep/sweep"
)

func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert <file>...",
		Short: "Merge Renaissance CSV files into one sweep file",
		Long: `Merge Renaissance results files, one per process execution, into a
single sweep file with times in seconds.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertFiles(cmd.OutOrStdout(), output, args)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Output file (default: stdout)")

	return cmd
}

func convertFiles(stdout io.Writer, output string, paths []string) (err error) {
	inputs := make([]io.Reader, 0, len(paths))

	for _, p := range paths {
		f, oerr := os.Open(p)
		if oerr != nil {
			return fmt.Errorf("open input: %w", oerr)
		}
		defer f.Close()

		inputs = append(inputs, f)
	}

	w := stdout

	if output != "" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}

		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()

		w = f
	}

	if err := sweep.Convert(w, inputs...); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	return nil
}

func newReportCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "report <results-file>...",
		Short: "Summarize sweep results files",
		Long: `Summarize one or more <suite>.<vm>.results files. The VM name is
taken from each file name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sweeps := make([]report.Sweep, 0, len(args))

			for _, p := range args {
				s, err := loadSweep(p)
				if err != nil {
					return err
				}

				sweeps = append(sweeps, s)
			}

			if outputJSON {
				if err := report.GenerateJSON(cmd.OutOrStdout(), sweeps); err != nil {
					return fmt.Errorf("generate JSON report: %w", err)
				}

				return nil
			}

			if err := report.Generate(cmd.OutOrStdout(), sweeps); err != nil {
				return fmt.Errorf("generate report: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")

	return cmd
}

func loadSweep(path string) (report.Sweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.Sweep{}, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()

	s, err := report.Load(f, report.VMFromPath(path))
	if err != nil {
		return report.Sweep{}, fmt.Errorf("load %s: %w", path, err)
	}

	return s, nil
}

func newListCmd() *cobra.Command {
	var registryFile string

	cmd := &cobra.Command{
		Use:   "list <suite>",
		Short: "List the benchmarks of a suite and the VMs that skip them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := suite.Parse(args[0])
			if err != nil {
				return err
			}

			reg := config.DefaultRegistry()

			if registryFile != "" {
				reg, err = config.LoadRegistry(registryFile)
				if err != nil {
					return err
				}
			}

			listBenchmarks(cmd.OutOrStdout(), reg, s)

			return nil
		},
	}

	cmd.Flags().StringVar(&registryFile, "registry", "",
		"YAML file overriding the built-in VMs, benchmarks and skip lists")

	return cmd
}

func listBenchmarks(w io.Writer, reg *config.Registry, s suite.Suite) {
	for _, b := range reg.BenchmarksFor(s) {
		var skippedBy []string

		for _, vm := range reg.VMNames() {
			if reg.Skipped(vm, b) {
				skippedBy = append(skippedBy, vm)
			}
		}

		if len(skippedBy) == 0 {
			fmt.Fprintln(w, b.ID())

			continue
		}

		fmt.Fprintf(w, "%s\tskipped on %s\n", b.ID(), strings.Join(skippedBy, ","))
	}
}
