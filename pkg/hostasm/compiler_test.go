package hostasm

import (
	"bytes"
	"testing"
)

// TestS1AddAndPrint assembles the same program scenario S1 exercises as
// hand-written bytes, and checks the assembler reproduces them exactly.
func TestS1AddAndPrint(t *testing.T) {
	src := `
LOADI R0, 7
LOADI R1, 0x23
ADD R2, R0, R1
PRINT R2
HALT
`
	want := []byte{
		0x15, 0x00, 0x07, 0x00, 0x00, 0x00,
		0x15, 0x01, 0x23, 0x00, 0x00, 0x00,
		0x20, 0x02, 0x00, 0x01,
		0x50, 0x02,
		0x01,
	}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestArithmeticImmediateExpandsViaScratchRegister(t *testing.T) {
	src := "ADD R2, R0, 5\n"
	want := []byte{
		0x15, 0x1F, 0x05, 0x00, 0x00, 0x00, // LOADI R31, 5
		0x20, 0x02, 0x00, 0x1F, // ADD R2, R0, R31
	}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestArithmeticAllRegisterFormIsUnchanged(t *testing.T) {
	src := "ADD R2, R0, R1\n"
	want := []byte{0x20, 0x02, 0x00, 0x01}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestMovAliasesToMove(t *testing.T) {
	src := "MOV R3, R4\n"
	want := []byte{byte(0x12), 0x03, 0x04}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestCmpRegRegIsRejected(t *testing.T) {
	_, err := New().Compile([]byte("CMP R0, R1\n"))
	if err == nil {
		t.Fatalf("expected CMP with two registers to be rejected")
	}
}

func TestPrintsInlineStringIsRejected(t *testing.T) {
	_, err := New().Compile([]byte(`PRINTS "hello"` + "\n"))
	if err == nil {
		t.Fatalf("expected inline-string PRINTS to be rejected")
	}
}

func TestPrintsWithLabelCompiles(t *testing.T) {
	src := `
JUMP main
msg: .ASCIIZ "hi"
main: PRINTS msg
HALT
`
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	// JUMP(1+4) + "hi\0"(3) + PRINTS(1+4) + HALT(1) = 14 bytes total.
	if len(got) != 14 {
		t.Fatalf("expected 14 bytes, got %d: %X", len(got), got)
	}
	// The PRINTS operand must point at the start of the ASCIIZ data
	// (offset 5, right after JUMP's 5 bytes). The operand itself sits at
	// bytes 9-12: JUMP(5 bytes) + "hi\0"(3 bytes) + PRINTS opcode(1 byte).
	printsOperand := got[9:13]
	want := []byte{0x05, 0x00, 0x00, 0x00}
	if !bytes.Equal(printsOperand, want) {
		t.Fatalf("expected PRINTS operand %X, got %X", want, printsOperand)
	}
}

func TestModExpandsToDivMulSub(t *testing.T) {
	src := "MOV R2, R0 MOD 3\n"
	want := []byte{
		0x15, 0x1F, 0x03, 0x00, 0x00, 0x00, // LOADI R31, 3
		0x23, 0x1E, 0x00, 0x1F, // DIV R30, R0, R31
		0x22, 0x1F, 0x1E, 0x1F, // MUL R31, R30, R31
		0x21, 0x02, 0x00, 0x1F, // SUB R2, R0, R31
	}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestModWithBothOperandsAsRegisters(t *testing.T) {
	src := "MOV R2, R0 MOD R1\n"
	want := []byte{
		0x23, 0x1E, 0x00, 0x01, // DIV R30, R0, R1
		0x22, 0x1F, 0x1E, 0x01, // MUL R31, R30, R1
		0x21, 0x02, 0x00, 0x1F, // SUB R2, R0, R31
	}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestModMalformedArgsIsDiagnosed(t *testing.T) {
	_, err := New().Compile([]byte("MOV R2, R0 MOD\n"))
	if err == nil {
		t.Fatalf("expected malformed MOD expression to fail compilation")
	}
}

func TestRegisterIndirectAddressing(t *testing.T) {
	src := "STORE R0, [R1]\n"
	want := []byte{0x11, 0x00, 0xFF, 0x01}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestForwardLabelResolvesToCorrectOffset(t *testing.T) {
	src := `
JUMP skip
NOP
skip: HALT
`
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	want := []byte{0x02, 0x06, 0x00, 0x00, 0x00, 0x00, 0x01}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}

func TestUnknownMnemonicIsDiagnosed(t *testing.T) {
	_, err := New().Compile([]byte("FROB R0, R1\n"))
	if err == nil {
		t.Fatalf("expected unknown mnemonic to fail compilation")
	}
}

func TestDuplicateLabelIsDiagnosed(t *testing.T) {
	src := "a: NOP\na: NOP\n"
	_, err := New().Compile([]byte(src))
	if err == nil {
		t.Fatalf("expected duplicate label to fail compilation")
	}
}

func TestDataDirectivesEmitExpectedBytes(t *testing.T) {
	src := `
.BYTE 0x07
.WORD 0x01020304
.SPACE 3
`
	want := []byte{0x07, 0x04, 0x03, 0x02, 0x01, 0x00, 0x00, 0x00}
	got, err := New().Compile([]byte(src))
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected %X, got %X", want, got)
	}
}
