// Command hostasm compiles host-dialect assembly source into the binary
// format corevm loads: hostasm <input.asm> <output.bin>.
package main

import (
	"fmt"
	"os"

	"github.com/nullsector/corevm/pkg/hostasm"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: hostasm <input.asm> <output.bin>")
		os.Exit(1)
	}

	if err := hostasm.CompileFile(os.Args[1], os.Args[2]); err != nil {
		fmt.Fprintf(os.Stderr, "compile failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", os.Args[2])
}
