// Package edgevm implements the embedded dialect: a 4KB fixed-memory,
// 8-register, descending-stack machine modeled on the on-device
// interpreter, plus the flat-file persistence that stands in for its
// LittleFS-backed storage.
package edgevm

// Opcode is the embedded dialect's instruction selector. Only a subset of
// these (LOAD, STORE, ADD, HALT) is actually dispatched by Run; the rest
// are accepted by the assembler but have no runtime handler, matching the
// on-device interpreter exactly.
type Opcode byte

const (
	OpHALT    Opcode = 0x01
	OpLOAD    Opcode = 0x10
	OpSTORE   Opcode = 0x11
	OpADD     Opcode = 0x20
	OpSUB     Opcode = 0x21
	OpMUL     Opcode = 0x22
	OpDIV     Opcode = 0x23
	OpPUSH    Opcode = 0x30
	OpPOP     Opcode = 0x31
	OpSYSCALL Opcode = 0xFF
)

const (
	// MemSize is the embedded RAM's fixed size; it never grows.
	MemSize = 4096
	// NumRegs is the width of the embedded register file.
	NumRegs = 8
	// StackSize is the depth of the descending operand stack.
	StackSize = 256
)
