// Command iongraph-layout runs the layout engine (components A-G) over one
// pass of a compiled function's control-flow graph and prints the
// resulting Geometry as JSON. It is the ambient CLI entrypoint spec.md
// places out of scope but a runnable repository needs (SPEC_FULL.md §4).
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "iongraph-layout:", err)
		os.Exit(1)
	}
}
