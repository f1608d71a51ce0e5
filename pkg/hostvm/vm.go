// Package hostvm implements the host-dialect bytecode virtual machine: its
// memory model, register file, operand/call stack, 256-entry instruction
// dispatcher, host services (console, directory/environment enumeration,
// file table), and snapshot/restore persistence.
package hostvm

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/nullsector/corevm/pkg/logger"
)

// FileHandle is one entry of the VM's file table. Reserved slots 0-2 wrap
// the process's standard streams and can never be closed by a program.
type FileHandle struct {
	file     *os.File
	reserved bool
}

// VM is one instance of the host-dialect machine. Callers must not run two
// instances concurrently against the same snapshot path or inherited
// stdio - see spec.md §5.
type VM struct {
	Memory      *Memory
	ProgramSize uint32

	Registers [NumRegisters]uint32
	Stack     [StackSize]uint32
	SP        uint32
	IP        uint32
	Flags     uint8

	Running       bool
	ErrorOccurred bool
	Debug         bool

	Files [MaxFiles]*FileHandle

	// RunID identifies this execution for the audit log and run receipt;
	// it has no effect on VM semantics.
	RunID string
	// ProgramChecksum is the blake2b-256 hex digest of the loaded program
	// image, filled in by Load. Audit/receipt use only.
	ProgramChecksum string

	// Watch, when non-nil, receives a copy of every debug trace line in
	// addition to the local stdout/log output. Set by the CLI's -watch flag.
	Watch *TraceWatch

	lastSnapshotChecksum string
	stdinIsTerminal      bool
}

// New creates a freshly initialized VM: zeroed registers/stack, InitMemSize
// memory, and the three reserved standard-stream file slots installed.
func New() *VM {
	vm := &VM{
		Memory:          NewMemory(InitMemSize),
		Running:         true,
		RunID:           uuid.NewString(),
		stdinIsTerminal: isatty.IsTerminal(os.Stdin.Fd()),
	}
	vm.installStandardStreams()
	return vm
}

func (vm *VM) installStandardStreams() {
	vm.Files[StdinFD] = &FileHandle{file: os.Stdin, reserved: true}
	vm.Files[StdoutFD] = &FileHandle{file: os.Stdout, reserved: true}
	vm.Files[StderrFD] = &FileHandle{file: os.Stderr, reserved: true}
}

// Reset zeroes the registers, stack, sp, ip and flags, marks the VM running
// with no error, and closes every non-reserved file slot. Memory contents,
// ProgramSize, Debug and RunID are left as they are.
func (vm *VM) Reset() {
	vm.Registers = [NumRegisters]uint32{}
	vm.Stack = [StackSize]uint32{}
	vm.SP = 0
	vm.IP = 0
	vm.Flags = 0
	vm.Running = true
	vm.ErrorOccurred = false
	for i := 3; i < MaxFiles; i++ {
		if vm.Files[i] != nil && vm.Files[i].file != nil {
			vm.Files[i].file.Close()
		}
		vm.Files[i] = nil
	}
}

// fault marks the VM faulted, reports to stderr exactly once (per spec.md
// §7: "Error at IP <ip>: <message>"), logs it structurally, and returns the
// error for the caller to propagate up out of the run loop.
func (vm *VM) fault(kind FaultKind, format string, args ...interface{}) error {
	err := newFault(kind, vm.IP, format, args...)
	vm.Running = false
	vm.ErrorOccurred = true
	fmt.Fprintln(os.Stderr, err.Error())
	logger.Error(logger.AreaVM, "fault kind=%s ip=%d run=%s: %s", kind, vm.IP, vm.RunID, err.Message)
	return err
}

// stdout returns the writer PRINT/PRINTS use: always the process's actual
// stdout, independent of whether the program has reassigned file slot 1 to
// something else via FILE_OPEN (slot 1 itself is reserved and can't be
// reopened).
func (vm *VM) stdout() io.Writer {
	return os.Stdout
}

// memErr re-anchors an error coming back from a Memory accessor at the
// current IP and reports it. Memory has no notion of IP, so its own
// constructors stamp 0; every call site that touches Memory is expected to
// route the result through memErr instead of returning it directly, so a
// fault is still reported exactly once.
func (vm *VM) memErr(err error) error {
	if err == nil {
		return nil
	}
	fe, ok := err.(*FaultError)
	if !ok {
		return vm.fault(FaultMemory, "%s", err.Error())
	}
	return vm.fault(fe.Kind, "%s", fe.Message)
}
