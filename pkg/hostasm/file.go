package hostasm

import (
	"encoding/binary"
	"fmt"
	"os"
)

// CompileFile assembles the source at srcPath and writes the host
// dialect's loader format - a little-endian uint32 code size followed by
// the code bytes - to dstPath. The write is atomic: it lands in a
// temporary file first and is renamed into place only once complete.
func CompileFile(srcPath, dstPath string) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("cannot read source file: %w", err)
	}

	code, err := New().Compile(src)
	if err != nil {
		return err
	}

	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(code)))

	tmp := dstPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	if _, err := f.Write(header[:]); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if _, err := f.Write(code); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot finalize output file: %w", err)
	}
	return os.Rename(tmp, dstPath)
}
