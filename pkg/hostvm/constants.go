package hostvm

// Fixed shapes of the host-dialect machine. These are spec-mandated
// compile-time constants, not configuration: memory/stack/register/file
// table sizing backs fixed-size arrays (Registers, Stack, Files) and the
// snapshot binary's fixed layout, so none of it can be resolved from a
// config file at runtime without restructuring those arrays as slices.
// What pkg/configuration does retune without a rebuild is the
// snapshot path, the audit database path and its enablement, and the
// receipt signing key/path - see pkg/configuration's "Snapshot" and
// "Audit" sections.
const (
	// InitMemSize is the byte-addressed memory's size at boot, before any
	// growth.
	InitMemSize = 655365
	// StackSize is the depth of the shared operand/call stack, in words.
	StackSize = 1024
	// NumRegisters is the width of the register file.
	NumRegisters = 32
	// MaxFiles is the size of the file-handle table, including the three
	// reserved standard-stream slots.
	MaxFiles = 16
	// ListBufferSize bounds the internal buffer FS_LIST/ENV_LIST build
	// before copying it into VM memory.
	ListBufferSize = 1024

	// StdinFD, StdoutFD, StderrFD are the reserved, never-closable file
	// slots.
	StdinFD  = 0
	StdoutFD = 1
	StderrFD = 2

	// IndirectAddrPrefix marks an address operand as register-indirect:
	// the byte 0xFF followed by a register index, instead of a 4-byte
	// immediate.
	IndirectAddrPrefix = 0xFF

	// OpcodeTerminator is the graceful top-level terminator: an
	// otherwise-undefined opcode byte that ends execution without fault.
	OpcodeTerminator = 0xFF

	// InvalidHandle is returned in the destination register by FILE_OPEN
	// when the host refuses to open the file; this is not a fault.
	InvalidHandle = 0xFFFFFFFF
)

// Flag bits set by CMP and tested by IF.
const (
	FlagEQ uint8 = 0x01
	FlagNE uint8 = 0x02
	FlagLT uint8 = 0x04
	FlagGT uint8 = 0x08
)
