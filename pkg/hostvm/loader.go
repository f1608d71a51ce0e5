package hostvm

import (
	"encoding/binary"
	"fmt"
	"os"
)

// Load reads a host-dialect program file: a little-endian u32 code size
// followed by exactly that many code bytes. It grows the VM's memory to
// at least code_size+4, copies the code to offset 0, and sets
// ProgramSize. A short read is returned as a plain error - the caller (the
// CLI) is responsible for the "load failure" exit path, which happens
// before the VM has started running and so is not a VM fault.
func (vm *VM) Load(path string) (uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("cannot read program file: %w", err)
	}
	if len(data) < 4 {
		return 0, fmt.Errorf("program file too short for header")
	}
	codeSize := binary.LittleEndian.Uint32(data[:4])
	if uint64(4)+uint64(codeSize) > uint64(len(data)) {
		return 0, fmt.Errorf("program file shorter than declared code size")
	}

	if err := vm.Memory.Ensure(codeSize + 4); err != nil {
		return 0, fmt.Errorf("cannot allocate memory for program: %w", err)
	}
	copy(vm.Memory.Bytes(), data[4:4+codeSize])
	vm.ProgramSize = codeSize
	vm.ProgramChecksum = checksumHex(data[4 : 4+codeSize])
	return codeSize, nil
}
