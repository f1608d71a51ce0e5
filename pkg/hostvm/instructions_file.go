package hostvm

import (
	"fmt"
	"io"
	"os"
)

// cStringAt reads a NUL-terminated string starting at addr, faulting if it
// runs off the end of memory without finding a terminator.
func (vm *VM) cStringAt(addr uint32) (string, error) {
	if addr >= vm.Memory.Size() {
		return "", vm.fault(FaultMemory, "invalid memory address")
	}
	buf := vm.Memory.Bytes()
	end := addr
	for end < vm.Memory.Size() && buf[end] != 0 {
		end++
	}
	if end >= vm.Memory.Size() {
		return "", vm.fault(FaultMemory, "unterminated string")
	}
	return string(buf[addr:end]), nil
}

// openFlagsForMode translates a C fopen-style mode string into Go's
// os.OpenFile flags. Only r, r+, w, w+, a and a+ are accepted; any other
// mode string is an error.
func openFlagsForMode(mode string) (int, error) {
	switch mode {
	case "r":
		return os.O_RDONLY, nil
	case "r+":
		return os.O_RDWR, nil
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	default:
		return 0, fmt.Errorf("unsupported file mode %q", mode)
	}
}

func (vm *VM) handleFILEOPEN() error {
	rf, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rm, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	dr, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}

	name, err := vm.cStringAt(vm.Registers[rf])
	if err != nil {
		return err
	}
	mode, err := vm.cStringAt(vm.Registers[rm])
	if err != nil {
		return err
	}

	switch name {
	case "stdin":
		vm.Registers[dr] = StdinFD
		return nil
	case "stdout":
		vm.Registers[dr] = StdoutFD
		return nil
	case "stderr":
		vm.Registers[dr] = StderrFD
		return nil
	}

	flags, ferr := openFlagsForMode(mode)
	if ferr != nil {
		vm.Registers[dr] = InvalidHandle
		return nil
	}
	f, oerr := os.OpenFile(name, flags, 0o644)
	if oerr != nil {
		vm.Registers[dr] = InvalidHandle
		return nil
	}

	slot := -1
	for i := 3; i < MaxFiles; i++ {
		if vm.Files[i] == nil {
			slot = i
			break
		}
	}
	if slot == -1 {
		f.Close()
		return vm.fault(FaultIO, "file table full")
	}
	vm.Files[slot] = &FileHandle{file: f}
	vm.Registers[dr] = uint32(slot)
	return nil
}

func (vm *VM) fileAt(slot uint32) (*FileHandle, error) {
	if slot >= MaxFiles || vm.Files[slot] == nil {
		return nil, vm.fault(FaultIO, "invalid file handle")
	}
	return vm.Files[slot], nil
}

func (vm *VM) handleFILEREAD() error {
	rf, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rd, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rc, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rr, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}

	fh, err := vm.fileAt(vm.Registers[rf])
	if err != nil {
		return err
	}
	dst := vm.Registers[rd]
	cnt := vm.Registers[rc]
	if err := vm.Memory.Ensure(dst + cnt); err != nil {
		return vm.memErr(err)
	}
	n, _ := io.ReadFull(fh.file, vm.Memory.Bytes()[dst:dst+cnt])
	vm.Registers[rr] = uint32(n)
	return nil
}

func (vm *VM) handleFILEWRITE() error {
	rf, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rs, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rc, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	rr, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}

	fh, err := vm.fileAt(vm.Registers[rf])
	if err != nil {
		return err
	}
	src := vm.Registers[rs]
	cnt := vm.Registers[rc]
	if uint64(src)+uint64(cnt) > uint64(vm.Memory.Size()) {
		vm.Registers[rr] = 0
		return vm.fault(FaultMemory, "invalid memory range in FILE_WRITE")
	}
	n, _ := fh.file.Write(vm.Memory.Bytes()[src : src+cnt])
	vm.Registers[rr] = uint32(n)
	return nil
}

func (vm *VM) handleFILECLOSE() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	slot := vm.Registers[r]
	if slot < 3 {
		return nil
	}
	fh, err := vm.fileAt(slot)
	if err != nil {
		return err
	}
	fh.file.Close()
	vm.Files[slot] = nil
	return nil
}

func (vm *VM) handleFILESEEK() error {
	rf, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	off, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	wh, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	rr, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}

	fh, err := vm.fileAt(vm.Registers[rf])
	if err != nil {
		return err
	}
	var whence int
	switch wh {
	case 0:
		whence = io.SeekStart
	case 1:
		whence = io.SeekCurrent
	case 2:
		whence = io.SeekEnd
	default:
		return vm.fault(FaultIO, "invalid whence in FILE_SEEK")
	}
	if _, serr := fh.file.Seek(int64(off), whence); serr != nil {
		vm.Registers[rr] = 0xFFFFFFFF
	} else {
		vm.Registers[rr] = 0
	}
	return nil
}
