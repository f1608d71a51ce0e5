package hostvm

import (
	"os"
	"strings"
)

// buildDirectoryListing returns the entries of the current working
// directory, newline-delimited and capped at ListBufferSize bytes
// (including the trailing terminator), per the FS_LIST buffer policy.
func buildDirectoryListing() string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return "Error: " + err.Error()
	}
	var b strings.Builder
	for _, e := range entries {
		line := e.Name() + "\n"
		if b.Len()+len(line)+1 >= ListBufferSize {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// buildEnvironmentListing returns the process environment, newline-
// delimited and capped the same way as buildDirectoryListing.
func buildEnvironmentListing() string {
	var b strings.Builder
	for _, kv := range os.Environ() {
		line := kv + "\n"
		if b.Len()+len(line)+1 >= ListBufferSize {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

// writeListing grows memory at addr to hold s plus its NUL terminator and
// copies it in.
func (vm *VM) writeListing(addr uint32, s string) error {
	required := uint64(addr) + uint64(len(s)) + 1
	if required > uint64(^uint32(0)) {
		return vm.fault(FaultAllocation, "failed to allocate additional memory")
	}
	if err := vm.Memory.Ensure(uint32(required)); err != nil {
		return vm.memErr(err)
	}
	buf := vm.Memory.Bytes()
	copy(buf[addr:], s)
	buf[addr+uint32(len(s))] = 0
	return nil
}
