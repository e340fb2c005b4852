// Package sweep runs the cross-product of VMs, benchmarks and process
// executions, and records one row per process execution.
package sweep

import (
	"fmt"

	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
)

// Pair is one (VM, benchmark) combination of a sweep.
type Pair struct {
	VM        harness.VM
	Benchmark suite.Benchmark
	// Skipped pairs are known broken and are never executed.
	Skipped bool
}

// Plan is the deterministic order in which a sweep visits its pairs.
// Every non-skipped pair is executed Pexecs times in a row.
type Plan struct {
	VMs        []harness.VM
	Pairs      []Pair
	Pexecs     int
	Iterations int
}

// Summary counts what a plan will do.
type Summary struct {
	VMs          int
	Pairs        int
	SkippedPairs int
	Executions   int
}

// PlanConfig controls plan construction.
type PlanConfig struct {
	VMs        []harness.VM
	Benchmarks []suite.Benchmark
	// Skip reports whether a pair is marked broken.
	Skip       func(vm string, b suite.Benchmark) bool
	Pexecs     int
	Iterations int
}

// NewPlan orders pairs VM-major, then by benchmark, as given.
func NewPlan(cfg PlanConfig) (Plan, error) {
	if cfg.Pexecs <= 0 {
		return Plan{}, fmt.Errorf("process executions must be positive, got %d", cfg.Pexecs)
	}

	if cfg.Iterations <= 0 {
		return Plan{}, fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}

	if len(cfg.VMs) == 0 {
		return Plan{}, fmt.Errorf("no VMs selected")
	}

	if len(cfg.Benchmarks) == 0 {
		return Plan{}, fmt.Errorf("no benchmarks selected")
	}

	p := Plan{
		VMs:        cfg.VMs,
		Pexecs:     cfg.Pexecs,
		Iterations: cfg.Iterations,
	}

	for _, vm := range cfg.VMs {
		for _, b := range cfg.Benchmarks {
			skipped := cfg.Skip != nil && cfg.Skip(vm.Name, b)
			p.Pairs = append(p.Pairs, Pair{VM: vm, Benchmark: b, Skipped: skipped})
		}
	}

	return p, nil
}

// PairsFor returns the pairs of vm in plan order.
func (p Plan) PairsFor(vm string) []Pair {
	var out []Pair

	for _, pair := range p.Pairs {
		if pair.VM.Name == vm {
			out = append(out, pair)
		}
	}

	return out
}

// Summary counts the plan's pairs and process executions.
func (p Plan) Summary() Summary {
	s := Summary{VMs: len(p.VMs), Pairs: len(p.Pairs)}

	for _, pair := range p.Pairs {
		if pair.Skipped {
			s.SkippedPairs++

			continue
		}

		s.Executions += p.Pexecs
	}

	return s
}
