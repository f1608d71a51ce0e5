package hostvm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var stdinReader = bufio.NewReader(os.Stdin)

// handleBREAK blocks for one line of stdin input, discarding it. The
// "Press Enter to continue" banner is only printed when stdin is an
// interactive terminal; under piped input (test harnesses, CI) the VM
// still blocks on the read but skips the prompt text.
func (vm *VM) handleBREAK() error {
	if vm.stdinIsTerminal {
		fmt.Printf("Breakpoint at IP: %d. Press Enter to continue...\n", vm.IP)
	}
	stdinReader.ReadString('\n')
	return nil
}

func (vm *VM) handleFSLIST() error {
	addr, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	return vm.writeListing(addr, buildDirectoryListing())
}

func (vm *VM) handleENVLIST() error {
	addr, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	return vm.writeListing(addr, buildEnvironmentListing())
}

func (vm *VM) handlePRINT() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	fmt.Fprintf(vm.stdout(), "%d", vm.Registers[r])
	return nil
}

func (vm *VM) handlePRINTS() error {
	addr, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	if addr >= vm.Memory.Size() {
		return vm.fault(FaultMemory, "invalid memory address for PRINTS")
	}
	buf := vm.Memory.Bytes()
	end := addr
	for end < vm.Memory.Size() && buf[end] != 0 {
		end++
	}
	fmt.Fprint(vm.stdout(), string(buf[addr:end]))
	return nil
}

func (vm *VM) handleINPUT() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	line, rerr := stdinReader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" && rerr != nil {
		return vm.fault(FaultIO, "error reading input")
	}
	n, perr := strconv.ParseInt(line, 10, 64)
	if perr != nil {
		return vm.fault(FaultIO, "error reading input")
	}
	vm.Registers[r] = uint32(n)
	return nil
}
