package hostvm

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/nullsector/corevm/pkg/logger"
)

// checksumHex returns the hex-encoded blake2b-256 digest of data. This is
// used only for the audit log and run receipt; the snapshot binary format
// itself carries no checksum, matching spec.md §4.4 exactly.
func checksumHex(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// recordSnapshotChecksum stores and logs the snapshot's memory checksum
// for audit purposes. It never affects snapshot/restore semantics -
// RESTORE does not check it against anything.
func (vm *VM) recordSnapshotChecksum() {
	vm.lastSnapshotChecksum = checksumHex(vm.Memory.Bytes())
	logger.Info(logger.AreaSnapshot, "run=%s memory_checksum=%s", vm.RunID, vm.lastSnapshotChecksum)
}
