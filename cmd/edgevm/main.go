// Command edgevm runs a program assembled for the embedded dialect and
// persists its RAM back to the configured storage file: edgevm <program.bin>.
package main

import (
	"fmt"
	"os"

	"github.com/nullsector/corevm/pkg/configuration"
	"github.com/nullsector/corevm/pkg/edgevm"
	"github.com/nullsector/corevm/pkg/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: edgevm <program.bin>")
		os.Exit(1)
	}

	if err := configuration.Initialize("settings.cfg"); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	program, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read program: %v\n", err)
		os.Exit(1)
	}

	vm := edgevm.New()
	vm.LoadProgram(program)
	vm.Run()

	if err := vm.PersistState(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist state: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(vm.String())
}
