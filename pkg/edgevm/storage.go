package edgevm

import (
	"os"

	"github.com/nullsector/corevm/pkg/configuration"
	"github.com/nullsector/corevm/pkg/logger"
)

// Storage is the embedded RAM plus its backing file, standing in for the
// on-device LittleFS-mounted flash the original firmware persists to.
type Storage struct {
	ram  [MemSize]byte
	path string
}

func newStorage() *Storage {
	return &Storage{path: configuration.GetString("EdgeVM", "storage_file", "/system/systemdata.dat")}
}

// mount ensures the backing file exists, creating it empty if not. A
// failure here is logged but not fatal, mirroring the original firmware's
// best-effort LittleFS.begin().
func (s *Storage) mount() {
	if _, err := os.Stat(s.path); err != nil {
		f, cerr := os.Create(s.path)
		if cerr != nil {
			logger.Warn(logger.AreaEdgeVM, "failed to create system data file: %v", cerr)
			return
		}
		f.Close()
	}
}

func (s *Storage) read(addr uint32) byte {
	if addr >= MemSize {
		return 0
	}
	return s.ram[addr]
}

func (s *Storage) write(addr uint32, v byte) {
	if addr >= MemSize {
		return
	}
	s.ram[addr] = v
}

// persist writes the full RAM image to the backing file.
func (s *Storage) persist() error {
	return os.WriteFile(s.path, s.ram[:], 0o644)
}

// restore reads the backing file into RAM. A short read is reported but
// not fatal - a freshly mounted, never-persisted device has no image yet.
func (s *Storage) restore() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		logger.Warn(logger.AreaEdgeVM, "failed to restore state: %v", err)
		return
	}
	n := copy(s.ram[:], data)
	if n != MemSize {
		logger.Warn(logger.AreaEdgeVM, "expected %d bytes, but read %d bytes", MemSize, n)
	}
}
