package miniasm

import (
	"bytes"
	"testing"
)

// TestS6EmbeddedAssemblerRoundTrip is end-to-end scenario S6.
func TestS6EmbeddedAssemblerRoundTrip(t *testing.T) {
	src := "push 10\npush 20\nADD\nSTORE 0x01\nLOAD 0x01\nHALT\n"
	want := []byte{0x30, 0x0A, 0x30, 0x14, 0x20, 0x11, 0x01, 0x10, 0x01, 0x01}

	res := Assemble([]byte(src))
	if !bytes.Equal(res.Code, want) {
		t.Fatalf("expected %X, got %X", want, res.Code)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %v", res.Diagnostics)
	}
}

func TestAssembleSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# a comment\n\npush 5\n\nHALT\n"
	res := Assemble([]byte(src))
	want := []byte{0x30, 0x05, 0x01}
	if !bytes.Equal(res.Code, want) {
		t.Fatalf("expected %X, got %X", want, res.Code)
	}
}

func TestAssembleReportsUnrecognizedLines(t *testing.T) {
	src := "push 1\nNOPE\nHALT\n"
	res := Assemble([]byte(src))
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Text != "NOPE" {
		t.Fatalf("expected one diagnostic for NOPE, got %v", res.Diagnostics)
	}
	want := []byte{0x30, 0x01, 0x01}
	if !bytes.Equal(res.Code, want) {
		t.Fatalf("expected %X, got %X", want, res.Code)
	}
}

func TestAssembleCaseSensitivity(t *testing.T) {
	// Lowercase "add" must not match the uppercase-only ADD mnemonic.
	res := Assemble([]byte("add\n"))
	if len(res.Code) != 0 || len(res.Diagnostics) != 1 {
		t.Fatalf("expected lowercase add to be unrecognized, got code=%X diags=%v", res.Code, res.Diagnostics)
	}
}

func TestAssembleOutputCapped(t *testing.T) {
	var src bytes.Buffer
	for i := 0; i < 5000; i++ {
		src.WriteString("HALT\n")
	}
	res := Assemble(src.Bytes())
	if len(res.Code) > maxOutputSize {
		t.Fatalf("expected output capped at %d bytes, got %d", maxOutputSize, len(res.Code))
	}
}
