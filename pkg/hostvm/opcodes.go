package hostvm

// Opcode is the leading byte of an instruction, selecting its handler in the
// 256-entry dispatch table.
type Opcode byte

const (
	OpNOP   Opcode = 0x00
	OpHALT  Opcode = 0x01
	OpJUMP  Opcode = 0x02
	OpCALL  Opcode = 0x03
	OpRET   Opcode = 0x04
	OpIF    Opcode = 0x05
	OpLOAD  Opcode = 0x10
	OpSTORE Opcode = 0x11
	OpMOVE  Opcode = 0x12
	OpPUSH  Opcode = 0x13
	OpPOP   Opcode = 0x14
	OpLOADI Opcode = 0x15
	OpADD   Opcode = 0x20
	OpSUB   Opcode = 0x21
	OpMUL   Opcode = 0x22
	OpDIV   Opcode = 0x23
	OpAND   Opcode = 0x24
	OpOR    Opcode = 0x25
	OpXOR   Opcode = 0x26
	OpNOT   Opcode = 0x27
	OpCMP   Opcode = 0x28
	OpSHL   Opcode = 0x30
	OpSHR   Opcode = 0x31
	OpBREAK Opcode = 0x32

	OpFSLIST  Opcode = 0x34
	OpENVLIST Opcode = 0x42

	OpPRINT  Opcode = 0x50
	OpINPUT  Opcode = 0x51
	OpPRINTS Opcode = 0x52

	OpSNAPSHOT Opcode = 0x60
	OpRESTORE  Opcode = 0x61

	OpFILEOPEN  Opcode = 0x70
	OpFILEREAD  Opcode = 0x71
	OpFILEWRITE Opcode = 0x72
	OpFILECLOSE Opcode = 0x73
	OpFILESEEK  Opcode = 0x74

	// OpTerminator is the graceful top-level terminator (0xFF): not in the
	// dispatch table, handled as a special case by the decode loop.
	OpTerminator Opcode = 0xFF
)
