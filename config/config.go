// Package config assembles everything a sweep needs before the first
// process is launched: VM locations, suite jars, benchmark lists and skip
// lists. All failures here are fatal.
package config

import (
	"fmt"
	"slices"

	"github.com/weiihann/jvmsweep/harness"
	"github.com/weiihann/jvmsweep/suite"
)

// Config is built once at startup and passed to the components that need
// it.
type Config struct {
	Paths    Paths
	Registry *Registry
	// TempDir holds staging files; empty means the system default.
	TempDir string
}

// Load reads the paths file and, when registryFile is not empty, the
// registry overrides.
func Load(pathsFile, registryFile string) (*Config, error) {
	paths, err := LoadPaths(pathsFile)
	if err != nil {
		return nil, err
	}

	reg := DefaultRegistry()

	if registryFile != "" {
		reg, err = LoadRegistry(registryFile)
		if err != nil {
			return nil, err
		}
	}

	return &Config{Paths: paths, Registry: reg}, nil
}

// Adapter returns the adapter for s configured with its jar location.
func (c *Config) Adapter(s suite.Suite) (suite.Adapter, error) {
	switch s {
	case suite.Renaissance:
		jar, err := c.Paths.Lookup(KeyRenaissanceJar)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}

		return suite.NewRenaissance(jar, c.TempDir), nil

	case suite.DaCapo:
		jar, err := c.Paths.Lookup(KeyDaCapoJar)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}

		return suite.NewDaCapo(jar), nil

	case suite.SPECjvm:
		jar, err := c.Paths.Lookup(KeySPECJar)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}

		dir, err := c.Paths.Lookup(KeySPECDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s, err)
		}

		return suite.NewSPECjvm(jar, dir), nil

	default:
		return nil, fmt.Errorf("unknown suite %s", s)
	}
}

// Adapters returns an adapter for each of suites.
func (c *Config) Adapters(suites ...suite.Suite) (map[suite.Suite]suite.Adapter, error) {
	out := make(map[suite.Suite]suite.Adapter, len(suites))

	for _, s := range suites {
		a, err := c.Adapter(s)
		if err != nil {
			return nil, err
		}

		out[s] = a
	}

	return out, nil
}

// ResolveVM expands the named VM's arguments against the paths file and
// appends the heap flags.
func (c *Config) ResolveVM(name string) (harness.VM, error) {
	def, ok := c.Registry.VM(name)
	if !ok {
		return harness.VM{}, fmt.Errorf("unknown VM %q", name)
	}

	heap := harness.HeapFlags(c.Registry.Heap)
	args := make([]string, 0, len(def.Args)+len(heap))

	for _, a := range def.Args {
		v, err := c.Paths.Expand(a)
		if err != nil {
			return harness.VM{}, fmt.Errorf("VM %s: %w", name, err)
		}

		args = append(args, v)
	}

	args = append(args, heap...)

	return harness.VM{Name: name, Args: args}, nil
}

// ResolveVMs resolves the named VMs in registry order. An empty names
// list selects every VM.
func (c *Config) ResolveVMs(names ...string) ([]harness.VM, error) {
	for _, n := range names {
		if _, ok := c.Registry.VM(n); !ok {
			return nil, fmt.Errorf("unknown VM %q", n)
		}
	}

	var vms []harness.VM

	for _, def := range c.Registry.VMs {
		if len(names) > 0 && !slices.Contains(names, def.Name) {
			continue
		}

		vm, err := c.ResolveVM(def.Name)
		if err != nil {
			return nil, err
		}

		vms = append(vms, vm)
	}

	return vms, nil
}
