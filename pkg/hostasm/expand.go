package hostasm

import (
	"fmt"
	"regexp"
	"strings"
)

// regexMovModKeyword flags a MOV line as the MOD pseudo-instruction before
// the fuller regexMovMod pulls its operands apart.
var regexMovModKeyword = regexp.MustCompile(`\bMOD\b`)

// regexMovMod recognizes the MOD pseudo-instruction's surface syntax:
// "MOV dest, X MOD Y", where X and Y are each either a register or an
// immediate.
var regexMovMod = regexp.MustCompile(`^(R\d+)\s*,\s*(R\d+|-?\d+)\s+MOD\s+(R\d+|-?\d+)$`)

// expandLine turns one source line into zero or more lines of real
// instructions/directives, resolving the pseudo-instructions the host
// dialect supports on top of its real opcode set: MOV as an alias for
// MOVE, MOV dest, X MOD Y as a DIV/MUL/SUB sequence (there is no MOD
// opcode), and arithmetic-with-immediate forms (ADD Rd,Rs,5 where the real
// opcode only takes three registers) rewritten into a LOADI into a
// scratch register followed by the real three-register instruction.
//
// CMP with two register operands and PRINTS with an inline string
// literal are both rejected here: the real opcodes don't support them,
// and the fix is on the caller (load one side into a register first, or
// declare the string with .ASCIIZ and pass its label).
func expandLine(raw string, lineNo int) ([]string, error) {
	label, body := splitLabelAndBody(raw)
	if body == "" {
		if label != "" {
			return []string{label + ":"}, nil
		}
		return nil, nil
	}
	if strings.HasPrefix(body, ".") {
		return []string{withLabel(label, body)}, nil
	}

	mnemonic, args := splitMnemonic(body)

	switch mnemonic {
	case "MOV":
		if regexMovModKeyword.MatchString(args) {
			return expandMovMod(label, args, lineNo)
		}
		return []string{withLabel(label, "MOVE "+args)}, nil

	case "CMP":
		parts := splitArgs(args)
		if len(parts) == 2 && regexRegister.MatchString(strings.TrimSpace(parts[1])) {
			return nil, Diagnostic{lineNo, "CMP takes a register and an immediate, not two registers"}
		}
		return []string{withLabel(label, body)}, nil

	case "PRINTS":
		if strings.HasPrefix(strings.TrimSpace(args), `"`) {
			return nil, Diagnostic{lineNo, `PRINTS takes a label, not an inline string; declare it with .ASCIIZ first`}
		}
		return []string{withLabel(label, body)}, nil
	}

	if arithmeticPseudoOps[mnemonic] {
		parts := splitArgs(args)
		if len(parts) == 3 && !regexRegister.MatchString(strings.TrimSpace(parts[2])) {
			imm := strings.TrimSpace(parts[2])
			loadi := fmt.Sprintf("LOADI R31, %s", imm)
			real := fmt.Sprintf("%s %s, %s, R31", mnemonic, strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
			return []string{withLabel(label, loadi), real}, nil
		}
	}

	return []string{withLabel(label, body)}, nil
}

// expandMovMod expands "MOV dest, X MOD Y" into a DIV/MUL/SUB sequence -
// there is no MOD opcode, so remainder is computed as X - (X/Y)*Y. X and Y
// are loaded into scratch registers R30/R31 first if they are immediates
// rather than registers.
func expandMovMod(label, args string, lineNo int) ([]string, error) {
	m := regexMovMod.FindStringSubmatch(strings.TrimSpace(args))
	if m == nil {
		return nil, Diagnostic{lineNo, "MOD expects the form: dest, X MOD Y"}
	}
	dest, x, y := m[1], m[2], m[3]

	var out []string
	prefix := label
	emit := func(s string) {
		out = append(out, withLabel(prefix, s))
		prefix = ""
	}

	xReg := x
	if !regexRegister.MatchString(x) {
		emit(fmt.Sprintf("LOADI R30, %s", x))
		xReg = "R30"
	}
	yReg := y
	if !regexRegister.MatchString(y) {
		emit(fmt.Sprintf("LOADI R31, %s", y))
		yReg = "R31"
	}

	emit(fmt.Sprintf("DIV R30, %s, %s", xReg, yReg))
	emit(fmt.Sprintf("MUL R31, R30, %s", yReg))
	emit(fmt.Sprintf("SUB %s, %s, R31", dest, xReg))
	return out, nil
}

func withLabel(label, body string) string {
	if label == "" {
		return body
	}
	return label + ": " + body
}
