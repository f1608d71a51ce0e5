package hostvm

import (
	"fmt"

	"github.com/nullsector/corevm/pkg/logger"
)

// InstructionHandler executes one decoded instruction. The opcode byte has
// already been consumed; the handler is responsible for reading its own
// operand tail (advancing vm.IP as it goes) and mutating VM state.
type InstructionHandler func(vm *VM) error

// instructionHandlers is the 256-entry dispatch table, indexed by opcode
// byte. Unassigned slots are nil and fault with "unknown opcode" except for
// OpTerminator, which the run loop special-cases before ever consulting
// this table.
var instructionHandlers = [256]InstructionHandler{
	OpNOP:  (*VM).handleNOP,
	OpHALT: (*VM).handleHALT,
	OpJUMP: (*VM).handleJUMP,
	OpCALL: (*VM).handleCALL,
	OpRET:  (*VM).handleRET,
	OpIF:   (*VM).handleIF,

	OpLOAD:  (*VM).handleLOAD,
	OpSTORE: (*VM).handleSTORE,
	OpMOVE:  (*VM).handleMOVE,
	OpPUSH:  (*VM).handlePUSH,
	OpPOP:   (*VM).handlePOP,
	OpLOADI: (*VM).handleLOADI,

	OpADD: (*VM).handleADD,
	OpSUB: (*VM).handleSUB,
	OpMUL: (*VM).handleMUL,
	OpDIV: (*VM).handleDIV,
	OpAND: (*VM).handleAND,
	OpOR:  (*VM).handleOR,
	OpXOR: (*VM).handleXOR,
	OpNOT: (*VM).handleNOT,
	OpCMP: (*VM).handleCMP,
	OpSHL: (*VM).handleSHL,
	OpSHR: (*VM).handleSHR,

	OpBREAK:   (*VM).handleBREAK,
	OpFSLIST:  (*VM).handleFSLIST,
	OpENVLIST: (*VM).handleENVLIST,

	OpPRINT:  (*VM).handlePRINT,
	OpINPUT:  (*VM).handleINPUT,
	OpPRINTS: (*VM).handlePRINTS,

	OpSNAPSHOT: (*VM).handleSNAPSHOT,
	OpRESTORE:  (*VM).handleRESTORE,

	OpFILEOPEN:  (*VM).handleFILEOPEN,
	OpFILEREAD:  (*VM).handleFILEREAD,
	OpFILEWRITE: (*VM).handleFILEWRITE,
	OpFILECLOSE: (*VM).handleFILECLOSE,
	OpFILESEEK:  (*VM).handleFILESEEK,
}

// Run drives the fetch-decode-execute loop until the program halts,
// reaches its terminator, or faults. The returned error is non-nil only
// when the run ended in a fault (the fault has already been reported).
func (vm *VM) Run() error {
	for vm.Running {
		if vm.IP >= vm.ProgramSize {
			vm.Running = false
			break
		}

		op, err := vm.readByte()
		if err != nil {
			return vm.memErr(err)
		}

		if Opcode(op) == OpTerminator {
			vm.Running = false
			break
		}

		handler := instructionHandlers[op]
		if handler == nil {
			return vm.fault(FaultDecode, "unknown opcode 0x%02X", op)
		}

		if err := handler(vm); err != nil {
			return err
		}

		if vm.Debug && vm.Running {
			vm.trace()
		}
	}
	return nil
}

func (vm *VM) trace() {
	line := fmt.Sprintf("ip=%d sp=%d flags=0x%02X regs=%v", vm.IP, vm.SP, vm.Flags, vm.Registers)
	logger.Debug(logger.AreaVM, "%s", line)
	fmt.Printf("[trace] %s\n", line)
	if vm.Watch != nil {
		vm.Watch.Publish(line)
	}
}

// readByte fetches the byte at vm.IP and advances vm.IP by 1.
func (vm *VM) readByte() (uint8, error) {
	if vm.IP >= vm.ProgramSize {
		return 0, newFault(FaultDecode, vm.IP, "unexpected end of program")
	}
	b, err := vm.Memory.ReadU8(vm.IP)
	if err != nil {
		return 0, err
	}
	vm.IP++
	return b, nil
}

// readUint32 fetches the little-endian word at vm.IP and advances vm.IP by 4.
func (vm *VM) readUint32() (uint32, error) {
	if vm.IP+4 > vm.ProgramSize {
		return 0, newFault(FaultDecode, vm.IP, "unexpected end of program")
	}
	v, err := vm.Memory.ReadU32LE(vm.IP)
	if err != nil {
		return 0, err
	}
	vm.IP += 4
	return v, nil
}

// readReg fetches a register-index byte and validates it against
// NumRegisters.
func (vm *VM) readReg() (uint8, error) {
	r, err := vm.readByte()
	if err != nil {
		return 0, err
	}
	if int(r) >= NumRegisters {
		return 0, newFault(FaultRegister, vm.IP-1, "register index %d out of range", r)
	}
	return r, nil
}

// readAddrOperand decodes an address operand: either a 4-byte immediate, or
// the prefix byte IndirectAddrPrefix followed by a register index whose
// current value is used as the effective address.
func (vm *VM) readAddrOperand() (uint32, error) {
	b, err := vm.readByte()
	if err != nil {
		return 0, err
	}
	if b == IndirectAddrPrefix {
		r, err := vm.readReg()
		if err != nil {
			return 0, err
		}
		return vm.Registers[r], nil
	}
	// Not an indirect prefix: b is the low byte of a 4-byte immediate
	// already partially consumed; back up and reread as a whole word.
	vm.IP--
	return vm.readUint32()
}
