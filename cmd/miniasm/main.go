// Command miniasm is the on-device assembler for the embedded dialect:
// miniasm compile <src> <dst>. Paths may use $VAR environment references
// and are resolved relative to the current directory when not absolute.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nullsector/corevm/pkg/miniasm"
)

func main() {
	args := os.Args[1:]
	if len(args) != 3 || args[0] != "compile" {
		fmt.Fprintln(os.Stderr, "usage: miniasm compile <src> <dst>")
		os.Exit(1)
	}

	src := resolvePath(args[1])
	dst := resolvePath(args[2])

	diags, err := miniasm.AssembleFile(src, dst)
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile failed: %v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(dst)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wrote %s\n", dst)
		return
	}
	fmt.Printf("wrote %s (%d bytes)\n", dst, info.Size())
}

// resolvePath expands $VAR environment references and, for a non-absolute
// path, anchors it to the current working directory.
func resolvePath(path string) string {
	path = strings.TrimSpace(path)
	path = os.Expand(path, os.Getenv)
	if filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(wd, path)
}
