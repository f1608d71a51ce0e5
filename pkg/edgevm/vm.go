package edgevm

import (
	"encoding/binary"
	"fmt"

	"github.com/nullsector/corevm/pkg/logger"
)

// VM is one instance of the embedded dialect: fixed 4KB memory, 8
// registers, a 256-word descending stack, and big-endian address operands.
// Unlike the host dialect it does not fault - a bad opcode or register
// index logs a diagnostic and stops the interpreter, matching the
// on-device firmware's behavior under resource constraints.
type VM struct {
	storage *Storage
	Regs    [NumRegs]uint32
	Stack   [StackSize]uint32
	PC      uint32
	SP      uint32
	Running bool
}

// New creates a VM and runs its boot sequence (Reset).
func New() *VM {
	vm := &VM{storage: newStorage()}
	vm.Reset()
	return vm
}

// Reset zeros the registers, resets pc and the descending stack pointer to
// StackSize, mounts the backing storage, and restores any existing image.
// This always happens in that order on boot - mounting before restoring -
// regardless of whether a backing file exists yet.
func (vm *VM) Reset() {
	vm.PC = 0
	vm.SP = StackSize
	vm.Running = false
	vm.Regs = [NumRegs]uint32{}
	vm.storage.mount()
	vm.storage.restore()
}

// LoadProgram copies up to MemSize bytes of bytecode into RAM starting at
// address 0 and resets pc to 0. A program longer than MemSize is silently
// truncated, mirroring the firmware's size-clamped copy.
func (vm *VM) LoadProgram(program []byte) {
	n := len(program)
	if n > MemSize {
		n = MemSize
	}
	for i := 0; i < n; i++ {
		vm.storage.write(uint32(i), program[i])
	}
	vm.PC = 0
}

// read32 reads a big-endian word - an intentional divergence from the host
// dialect's little-endian encoding, preserved for bytecode compatibility
// with the on-device interpreter.
func (vm *VM) read32(addr uint32) uint32 {
	if addr+3 >= MemSize {
		logger.Warn(logger.AreaEdgeVM, "read32: address 0x%04X out of bounds", addr)
		return 0
	}
	return binary.BigEndian.Uint32([]byte{
		vm.storage.read(addr), vm.storage.read(addr + 1), vm.storage.read(addr + 2), vm.storage.read(addr + 3),
	})
}

func (vm *VM) write32(addr uint32, v uint32) {
	if addr+3 >= MemSize {
		logger.Warn(logger.AreaEdgeVM, "write32: address 0x%04X out of bounds", addr)
		return
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	vm.storage.write(addr, buf[0])
	vm.storage.write(addr+1, buf[1])
	vm.storage.write(addr+2, buf[2])
	vm.storage.write(addr+3, buf[3])
}

// push and pop implement the descending stack. Nothing in this package
// calls them: Run has no handler for PUSH, POP or SYSCALL, mirroring the
// firmware where those are assembled opcodes with no runtime handler.
func (vm *VM) push(v uint32) bool {
	if vm.SP == 0 {
		logger.Warn(logger.AreaEdgeVM, "stack overflow")
		return false
	}
	vm.SP--
	vm.Stack[vm.SP] = v
	return true
}

func (vm *VM) pop() (uint32, bool) {
	if vm.SP >= StackSize {
		logger.Warn(logger.AreaEdgeVM, "stack underflow")
		return 0, false
	}
	v := vm.Stack[vm.SP]
	vm.SP++
	return v, true
}

// Run fetches and executes one opcode at a time until HALT, an
// unrecognized opcode, or pc running off the end of memory. Only LOAD,
// STORE, ADD, and HALT have handlers - every other opcode, including ones
// the assembler will happily emit, stops the loop with a diagnostic.
func (vm *VM) Run() {
	vm.Running = true
	for vm.Running && vm.PC < MemSize {
		op := Opcode(vm.storage.read(vm.PC))
		vm.PC++

		switch op {
		case OpLOAD:
			reg := vm.storage.read(vm.PC)
			vm.PC++
			addr := vm.read32(vm.PC)
			if reg < NumRegs {
				vm.Regs[reg] = vm.read32(addr)
			} else {
				logger.Warn(logger.AreaEdgeVM, "LOAD: invalid register number: %d", reg)
				vm.Running = false
			}
			vm.PC += 4

		case OpSTORE:
			reg := vm.storage.read(vm.PC)
			vm.PC++
			addr := vm.read32(vm.PC)
			if reg < NumRegs {
				vm.write32(addr, vm.Regs[reg])
			} else {
				logger.Warn(logger.AreaEdgeVM, "STORE: invalid register number: %d", reg)
				vm.Running = false
			}
			vm.PC += 4

		case OpADD:
			dst := vm.storage.read(vm.PC)
			vm.PC++
			src1 := vm.storage.read(vm.PC)
			vm.PC++
			src2 := vm.storage.read(vm.PC)
			vm.PC++
			if dst < NumRegs && src1 < NumRegs && src2 < NumRegs {
				vm.Regs[dst] = vm.Regs[src1] + vm.Regs[src2]
			} else {
				logger.Warn(logger.AreaEdgeVM, "ADD: invalid register number")
				vm.Running = false
			}

		case OpHALT:
			vm.Running = false

		default:
			logger.Warn(logger.AreaEdgeVM, "unknown opcode: 0x%02X at address 0x%04X", byte(op), vm.PC-1)
			vm.Running = false
		}
	}
}

// PersistState writes the full RAM image to the backing file.
func (vm *VM) PersistState() error {
	return vm.storage.persist()
}

// String renders the register file and pc for diagnostics.
func (vm *VM) String() string {
	s := fmt.Sprintf("VM State:\nPC: 0x%04X\n", vm.PC)
	for i, r := range vm.Regs {
		s += fmt.Sprintf("R%d: 0x%08X\n", i, r)
	}
	return s
}
