package edgevm

import (
	"path/filepath"
	"testing"
)

func TestLoadAndRunAddHalt(t *testing.T) {
	vm := &VM{storage: &Storage{path: filepath.Join(t.TempDir(), "systemdata.dat")}}
	vm.Reset()

	// LOADI-equivalent: the embedded dialect has no immediate load, so we
	// poke registers directly and exercise ADD/HALT.
	vm.Regs[0] = 7
	vm.Regs[1] = 35

	program := []byte{byte(OpADD), 2, 0, 1, byte(OpHALT)}
	vm.LoadProgram(program)
	vm.Run()

	if vm.Regs[2] != 42 {
		t.Fatalf("expected R2=42, got %d", vm.Regs[2])
	}
	if vm.Running {
		t.Fatalf("expected VM to have halted")
	}
}

func TestStoreLoadBigEndianRoundTrip(t *testing.T) {
	vm := &VM{storage: &Storage{path: filepath.Join(t.TempDir(), "systemdata.dat")}}
	vm.Reset()
	vm.Regs[0] = 0xCAFEBABE

	// STORE R0, addr=0x100; LOAD R1, addr=0x100; HALT
	program := []byte{
		byte(OpSTORE), 0x00, 0x00, 0x00, 0x01, 0x00,
		byte(OpLOAD), 0x01, 0x00, 0x00, 0x01, 0x00,
		byte(OpHALT),
	}
	vm.LoadProgram(program)
	vm.Run()

	if vm.Regs[1] != 0xCAFEBABE {
		t.Fatalf("expected R1=0xCAFEBABE, got 0x%X", vm.Regs[1])
	}
}

func TestUnrecognizedOpcodeStopsRun(t *testing.T) {
	vm := &VM{storage: &Storage{path: filepath.Join(t.TempDir(), "systemdata.dat")}}
	vm.Reset()
	vm.LoadProgram([]byte{byte(OpPUSH), 5})
	vm.Run()
	if vm.Running {
		t.Fatalf("expected run to stop on an opcode with no runtime handler")
	}
}

func TestPersistAndRestoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "systemdata.dat")
	vm := &VM{storage: &Storage{path: path}}
	vm.Reset()
	vm.Regs[0] = 123
	program := []byte{byte(OpSTORE), 0x00, 0x00, 0x00, 0x02, 0x00, byte(OpHALT)}
	vm.LoadProgram(program)
	vm.Run()
	if err := vm.PersistState(); err != nil {
		t.Fatalf("persist failed: %v", err)
	}

	vm2 := &VM{storage: &Storage{path: path}}
	vm2.Reset()
	got := vm2.read32(0x200)
	if got != 123 {
		t.Fatalf("expected restored memory to contain 123, got %d", got)
	}
}
