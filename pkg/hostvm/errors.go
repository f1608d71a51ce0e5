package hostvm

import "fmt"

// FaultKind classifies why a run terminated abnormally, per spec.md §7.
type FaultKind string

const (
	FaultDecode     FaultKind = "decode"
	FaultRegister   FaultKind = "register"
	FaultMemory     FaultKind = "memory"
	FaultStack      FaultKind = "stack"
	FaultArithmetic FaultKind = "arithmetic"
	FaultIO         FaultKind = "io"
	FaultAllocation FaultKind = "allocation"
)

// FaultError is the terminal error a handler or the decoder returns. It
// carries the instruction pointer at the moment of the fault so VM.fault
// can report "Error at IP <ip>: <message>" exactly once.
type FaultError struct {
	Kind    FaultKind
	IP      uint32
	Message string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("Error at IP %d: %s", e.IP, e.Message)
}

// newFault constructs a FaultError anchored at ip. It does not mutate VM
// state; callers are expected to go through VM.fault so Running/ErrorOccurred
// flip together with the report.
func newFault(kind FaultKind, ip uint32, format string, args ...interface{}) *FaultError {
	return &FaultError{Kind: kind, IP: ip, Message: fmt.Sprintf(format, args...)}
}
