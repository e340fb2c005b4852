package harness

import (
	"time"

	"github.com/weiihann/jvmsweep/suite"
)

// VM is a virtual machine ready to be invoked: its executable followed by
// fixed flags such as heap sizing and compiler toggles.
type VM struct {
	Name string
	Args []string
}

// HeapFlags returns the -Xms/-Xmx pair pinning the heap at size, e.g. "12G".
func HeapFlags(size string) []string {
	if size == "" {
		return nil
	}

	return []string{"-Xms" + size, "-Xmx" + size}
}

// BuildCommand joins the VM arguments and the suite invocation into one
// command line.
func BuildCommand(vm VM, inv suite.Invocation, timeout time.Duration) Command {
	args := make([]string, 0, len(vm.Args)+len(inv.Args))
	args = append(args, vm.Args...)
	args = append(args, inv.Args...)

	return Command{
		Args:    args,
		Dir:     inv.Dir,
		Timeout: timeout,
	}
}
