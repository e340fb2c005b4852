package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
)

func TestNewPlanDeterministic(t *testing.T) {
	skip := func(vm string, b suite.Benchmark) bool { return vm == "openj9" && b == avrora }

	p1 := testPlan(t, 3, skip)
	p2 := testPlan(t, 3, skip)
	assert.Equal(t, p1, p2)

	require.Len(t, p1.Pairs, 4)
	assert.Equal(t, "graal-ce", p1.Pairs[0].VM.Name)
	assert.Equal(t, avrora, p1.Pairs[0].Benchmark)
	assert.Equal(t, batik, p1.Pairs[1].Benchmark)
	assert.True(t, p1.Pairs[2].Skipped)
	assert.False(t, p1.Pairs[3].Skipped)
}

func TestPlanSummary(t *testing.T) {
	skip := func(vm string, b suite.Benchmark) bool { return vm == "openj9" && b == avrora }

	got := testPlan(t, 10, skip).Summary()
	assert.Equal(t, Summary{VMs: 2, Pairs: 4, SkippedPairs: 1, Executions: 30}, got)
}

func TestPlanPairsFor(t *testing.T) {
	p := testPlan(t, 1, nil)

	pairs := p.PairsFor("openj9")
	require.Len(t, pairs, 2)

	for _, pair := range pairs {
		assert.Equal(t, "openj9", pair.VM.Name)
	}

	assert.Empty(t, p.PairsFor("zing"))
}

func TestNewPlanInvalid(t *testing.T) {
	base := PlanConfig{
		VMs:        []harness.VM{vmA},
		Benchmarks: []suite.Benchmark{avrora},
		Pexecs:     1,
		Iterations: 1,
	}

	tests := []struct {
		name   string
		modify func(*PlanConfig)
	}{
		{"zero pexecs", func(c *PlanConfig) { c.Pexecs = 0 }},
		{"zero iterations", func(c *PlanConfig) { c.Iterations = 0 }},
		{"no vms", func(c *PlanConfig) { c.VMs = nil }},
		{"no benchmarks", func(c *PlanConfig) { c.Benchmarks = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.modify(&cfg)

			_, err := NewPlan(cfg)
			assert.Error(t, err)
		})
	}
}
