// Package hostasm implements a text assembler for the host dialect: labels,
// a handful of data directives, register-indirect addressing, and a small
// set of arithmetic-with-immediate pseudo-instructions that expand into
// the real three-register form the VM understands.
package hostasm

import "github.com/nullsector/corevm/pkg/hostvm"

// operandKind classifies one operand slot of a mnemonic for both length
// calculation and encoding.
type operandKind string

const (
	kindReg   operandKind = "reg"
	kindFlags operandKind = "flags"
	kindAddr  operandKind = "addr"
	kindImm   operandKind = "imm"
)

// mnemonicInfo pairs an opcode byte with the operand shape that follows it.
type mnemonicInfo struct {
	code     byte
	operands []operandKind
}

// mnemonics is the full instruction table, one entry per real opcode - the
// pseudo-instructions (MOV..MOD, arithmetic-with-immediate) are handled
// separately in expand.go and never appear here.
var mnemonics = map[string]mnemonicInfo{
	"NOP":      {byte(hostvm.OpNOP), nil},
	"HALT":     {byte(hostvm.OpHALT), nil},
	"JUMP":     {byte(hostvm.OpJUMP), []operandKind{kindAddr}},
	"CALL":     {byte(hostvm.OpCALL), []operandKind{kindAddr}},
	"RET":      {byte(hostvm.OpRET), nil},
	"IF":       {byte(hostvm.OpIF), []operandKind{kindFlags, kindAddr}},
	"LOAD":     {byte(hostvm.OpLOAD), []operandKind{kindReg, kindAddr}},
	"STORE":    {byte(hostvm.OpSTORE), []operandKind{kindReg, kindAddr}},
	"MOVE":     {byte(hostvm.OpMOVE), []operandKind{kindReg, kindReg}},
	"PUSH":     {byte(hostvm.OpPUSH), []operandKind{kindReg}},
	"POP":      {byte(hostvm.OpPOP), []operandKind{kindReg}},
	"LOADI":    {byte(hostvm.OpLOADI), []operandKind{kindReg, kindImm}},
	"ADD":      {byte(hostvm.OpADD), []operandKind{kindReg, kindReg, kindReg}},
	"SUB":      {byte(hostvm.OpSUB), []operandKind{kindReg, kindReg, kindReg}},
	"MUL":      {byte(hostvm.OpMUL), []operandKind{kindReg, kindReg, kindReg}},
	"DIV":      {byte(hostvm.OpDIV), []operandKind{kindReg, kindReg, kindReg}},
	"AND":      {byte(hostvm.OpAND), []operandKind{kindReg, kindReg, kindReg}},
	"OR":       {byte(hostvm.OpOR), []operandKind{kindReg, kindReg, kindReg}},
	"XOR":      {byte(hostvm.OpXOR), []operandKind{kindReg, kindReg, kindReg}},
	"NOT":      {byte(hostvm.OpNOT), []operandKind{kindReg, kindReg}},
	"CMP":      {byte(hostvm.OpCMP), []operandKind{kindReg, kindImm}},
	"SHL":      {byte(hostvm.OpSHL), []operandKind{kindReg, kindReg, kindImm}},
	"SHR":      {byte(hostvm.OpSHR), []operandKind{kindReg, kindReg, kindImm}},
	"BREAK":    {byte(hostvm.OpBREAK), nil},
	"FS_LIST":  {byte(hostvm.OpFSLIST), []operandKind{kindAddr}},
	"ENV_LIST": {byte(hostvm.OpENVLIST), []operandKind{kindAddr}},
	"PRINT":    {byte(hostvm.OpPRINT), []operandKind{kindReg}},
	"INPUT":    {byte(hostvm.OpINPUT), []operandKind{kindReg}},
	"PRINTS":   {byte(hostvm.OpPRINTS), []operandKind{kindAddr}},
	"SNAPSHOT": {byte(hostvm.OpSNAPSHOT), nil},
	"RESTORE":  {byte(hostvm.OpRESTORE), nil},
	"OPEN":     {byte(hostvm.OpFILEOPEN), []operandKind{kindReg, kindReg, kindReg}},
	"READ":     {byte(hostvm.OpFILEREAD), []operandKind{kindReg, kindReg, kindReg, kindReg}},
	"WRITE":    {byte(hostvm.OpFILEWRITE), []operandKind{kindReg, kindReg, kindReg, kindReg}},
	"CLOSE":    {byte(hostvm.OpFILECLOSE), []operandKind{kindReg}},
	"SEEK":     {byte(hostvm.OpFILESEEK), []operandKind{kindReg, kindImm, kindImm, kindReg}},
}

// flags maps CMP/IF mask mnemonics to their bit value. GE is a synonym for
// GT, matching the source assembler exactly.
var flags = map[string]int{
	"EQ": 0x01,
	"NE": 0x02,
	"LT": 0x04,
	"GT": 0x08,
	"GE": 0x08,
}

// arithmeticPseudoOps are the mnemonics whose immediate-operand forms
// expand.go rewrites into all-register instructions plus LOADI setup.
var arithmeticPseudoOps = map[string]bool{
	"ADD": true, "SUB": true, "MUL": true, "DIV": true, "AND": true, "OR": true, "XOR": true,
}
