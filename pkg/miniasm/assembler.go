// Package miniasm implements the on-device assembler for the embedded
// dialect: a line-oriented translator from mnemonic source to the fixed
// opcode/operand byte stream edgevm.VM executes.
package miniasm

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nullsector/corevm/pkg/edgevm"
)

// Diagnostic is one unrecognized-line warning produced during assembly. It
// does not stop assembly - the offending line is simply skipped.
type Diagnostic struct {
	Line int
	Text string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: unrecognized command: %s", d.Line, d.Text)
}

// Result is the outcome of assembling one source file.
type Result struct {
	Code        []byte
	Diagnostics []Diagnostic
}

// mnemonic pairs a case-sensitive prefix with its opcode. Casing is
// intentionally inconsistent - "push" lowercase, everything else
// uppercase - and must be reproduced exactly rather than normalized.
type mnemonic struct {
	prefix string
	op     edgevm.Opcode
}

var mnemonics = []mnemonic{
	{"push", edgevm.OpPUSH},
	{"POP", edgevm.OpPOP},
	{"ADD", edgevm.OpADD},
	{"SUB", edgevm.OpSUB},
	{"MUL", edgevm.OpMUL},
	{"DIV", edgevm.OpDIV},
	{"STORE", edgevm.OpSTORE},
	{"LOAD", edgevm.OpLOAD},
	{"HALT", edgevm.OpHALT},
	{"SYSCALL", edgevm.OpSYSCALL},
}

// maxOutputSize is the hard cap on assembled output, matching MemSize: the
// embedded dialect has nowhere else to put it.
const maxOutputSize = edgevm.MemSize

// Assemble reads source line by line, skipping blank lines and lines
// starting with "#", and emits the fixed-shape byte stream described by
// the embedded dialect: PUSH takes a following decimal immediate byte,
// LOAD/STORE take a following hex address byte, every other recognized
// mnemonic is a single opcode byte. Output is capped at maxOutputSize
// bytes; assembly stops (without error) once the cap is reached.
func Assemble(src []byte) Result {
	var res Result
	scanner := bufio.NewScanner(bytes.NewReader(src))
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		if len(res.Code) >= maxOutputSize {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		m, operand, ok := matchMnemonic(line)
		if !ok {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{Line: lineNo, Text: line})
			continue
		}

		res.Code = append(res.Code, byte(m.op))
		switch m.op {
		case edgevm.OpPUSH:
			n, _ := strconv.ParseInt(operand, 10, 16)
			res.Code = append(res.Code, byte(n))
		case edgevm.OpSTORE, edgevm.OpLOAD:
			n, _ := strconv.ParseInt(strings.TrimPrefix(operand, "0x"), 16, 16)
			res.Code = append(res.Code, byte(n))
		}
	}

	if len(res.Code) > maxOutputSize {
		res.Code = res.Code[:maxOutputSize]
	}
	return res
}

// matchMnemonic finds the mnemonic whose case-sensitive prefix matches
// line, returning the trimmed text following the prefix as its operand.
func matchMnemonic(line string) (mnemonic, string, bool) {
	for _, m := range mnemonics {
		if strings.HasPrefix(line, m.prefix) {
			return m, strings.TrimSpace(line[len(m.prefix):]), true
		}
	}
	return mnemonic{}, "", false
}

// AssembleFile reads src, assembles it, writes the result atomically to
// dst, and returns the diagnostics produced along the way.
func AssembleFile(src, dst string) ([]Diagnostic, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("cannot read source file: %w", err)
	}
	res := Assemble(data)

	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, res.Code, 0o644); err != nil {
		return res.Diagnostics, fmt.Errorf("cannot write output file: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return res.Diagnostics, fmt.Errorf("cannot finalize output file: %w", err)
	}
	return res.Diagnostics, nil
}
