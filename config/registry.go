package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/weiihann/jvmsweep/suite"
	"gopkg.in/yaml.v2"
)

// VMDef describes how to invoke one VM. Args may reference paths file
// keys as ${KEY}.
type VMDef struct {
	Name string   `yaml:"name"`
	Args []string `yaml:"args"`
}

// Registry holds the VMs, benchmarks and per-VM skip lists for a sweep.
// It is read-only once loaded.
type Registry struct {
	Heap       string
	VMs        []VMDef
	Benchmarks map[suite.Suite][]string
	// Skip maps suite, then VM name, to benchmark names not to run.
	Skip map[suite.Suite]map[string][]string
}

// registryFile is the YAML shape of a registry override file. Sections
// left out keep their defaults.
type registryFile struct {
	Heap       string                         `yaml:"heap"`
	VMs        []VMDef                        `yaml:"vms"`
	Benchmarks map[string][]string            `yaml:"benchmarks"`
	Skip       map[string]map[string][]string `yaml:"skip"`
}

// DefaultRegistry returns the built-in registry.
func DefaultRegistry() *Registry {
	return &Registry{
		Heap:       DefaultHeap,
		VMs:        defaultVMs(),
		Benchmarks: defaultBenchmarks(),
		Skip:       defaultSkip(),
	}
}

// LoadRegistry reads a YAML registry file over the defaults.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	r, err := ParseRegistry(b)
	if err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}

	return r, nil
}

// ParseRegistry decodes YAML registry overrides over the defaults.
func ParseRegistry(b []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, err
	}

	r := DefaultRegistry()

	if f.Heap != "" {
		r.Heap = f.Heap
	}

	if f.VMs != nil {
		r.VMs = f.VMs

		// Default skip lists only apply to the default VMs.
		for _, perVM := range r.Skip {
			for vm := range perVM {
				if _, ok := r.VM(vm); !ok {
					delete(perVM, vm)
				}
			}
		}
	}

	for name, benchmarks := range f.Benchmarks {
		s, err := suite.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("benchmarks: %w", err)
		}

		r.Benchmarks[s] = benchmarks

		for vm, skipped := range r.Skip[s] {
			r.Skip[s][vm] = slices.DeleteFunc(slices.Clone(skipped), func(name string) bool {
				return !slices.Contains(benchmarks, name)
			})
		}
	}

	for name, perVM := range f.Skip {
		s, err := suite.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("skip: %w", err)
		}

		r.Skip[s] = perVM
	}

	return r, nil
}

// VM returns the definition named name.
func (r *Registry) VM(name string) (VMDef, bool) {
	i := slices.IndexFunc(r.VMs, func(v VMDef) bool { return v.Name == name })
	if i < 0 {
		return VMDef{}, false
	}

	return r.VMs[i], true
}

// VMNames returns the VM names in sweep order.
func (r *Registry) VMNames() []string {
	names := make([]string, len(r.VMs))
	for i, v := range r.VMs {
		names[i] = v.Name
	}

	return names
}

// BenchmarksFor returns the benchmarks of the given suites, suite by
// suite, in registry order.
func (r *Registry) BenchmarksFor(suites ...suite.Suite) []suite.Benchmark {
	var out []suite.Benchmark

	for _, s := range suites {
		for _, name := range r.Benchmarks[s] {
			out = append(out, suite.Benchmark{Suite: s, Name: name})
		}
	}

	return out
}

// Skipped reports whether b is marked broken for vm.
func (r *Registry) Skipped(vm string, b suite.Benchmark) bool {
	return slices.Contains(r.Skip[b.Suite][vm], b.Name)
}

// Validate checks the registry for a sweep over suites. Benchmark names
// must be unique within a suite and disjoint across suites, so qualified
// identifiers are unique as well.
func (r *Registry) Validate(suites ...suite.Suite) error {
	if len(r.VMs) == 0 {
		return fmt.Errorf("no VMs configured")
	}

	vms := make(map[string]bool, len(r.VMs))

	for _, v := range r.VMs {
		if v.Name == "" {
			return fmt.Errorf("VM with empty name")
		}

		if vms[v.Name] {
			return fmt.Errorf("VM %q defined more than once", v.Name)
		}

		if len(v.Args) == 0 {
			return fmt.Errorf("VM %q has no executable", v.Name)
		}

		vms[v.Name] = true
	}

	owner := make(map[string]suite.Suite)
	ids := make(map[string]bool)

	for _, s := range suites {
		names, ok := r.Benchmarks[s]
		if !ok || len(names) == 0 {
			return fmt.Errorf("no benchmarks configured for %s", s)
		}

		for _, name := range names {
			if name == "" || strings.ContainsAny(name, " \t\n") {
				return fmt.Errorf("%s: invalid benchmark name %q", s, name)
			}

			if prev, ok := owner[name]; ok {
				if prev == s {
					return fmt.Errorf("%s: benchmark %q listed more than once", s, name)
				}

				return fmt.Errorf(
					"benchmark %q is in both %s and %s", name, prev, s,
				)
			}

			owner[name] = s

			id := suite.Benchmark{Suite: s, Name: name}.ID()
			if ids[id] {
				return fmt.Errorf("benchmark identifier %q is not unique", id)
			}

			ids[id] = true
		}

		for vm, skipped := range r.Skip[s] {
			if !vms[vm] {
				return fmt.Errorf("%s skip list names unknown VM %q", s, vm)
			}

			for _, name := range skipped {
				if !slices.Contains(names, name) {
					return fmt.Errorf(
						"%s skip list for %s names unknown benchmark %q", s, vm, name,
					)
				}
			}
		}
	}

	return nil
}
