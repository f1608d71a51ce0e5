package hostvm

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nullsector/corevm/pkg/configuration"
)

// RunClaims is the payload of a signed run receipt: a tamper-evident
// record that program P with checksum H ran to completion or faulted at
// time T, independent of and never consulted by the snapshot format.
type RunClaims struct {
	RunID           string `json:"run_id"`
	ProgramChecksum string `json:"program_checksum"`
	ExitCode        int    `json:"exit_code"`
	FaultKind       string `json:"fault_kind,omitempty"`
	jwt.RegisteredClaims
}

func receiptKey() []byte {
	return []byte(configuration.GetString("Audit", "hmac_key", "corevm-dev-receipt-key"))
}

// SignReceipt produces a compact HS256 JWT for one completed run.
func SignReceipt(runID, programChecksum string, exitCode int, faultKind string) (string, error) {
	claims := RunClaims{
		RunID:           runID,
		ProgramChecksum: programChecksum,
		ExitCode:        exitCode,
		FaultKind:       faultKind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   "corevm",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(receiptKey())
}

// WriteReceiptFile signs the receipt and writes it next to the audit
// database, one line per run, for operators who want a standalone
// artifact instead of querying sqlite.
func WriteReceiptFile(runID, programChecksum string, exitCode int, faultKind string) error {
	path := configuration.GetString("Audit", "receipt_path", "corevm_receipts.jwt")
	signed, err := SignReceipt(runID, programChecksum, exitCode, faultKind)
	if err != nil {
		return fmt.Errorf("sign run receipt: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open receipt file: %w", err)
	}
	defer f.Close()
	_, err = fmt.Fprintln(f, signed)
	return err
}

// VerifyReceipt parses and validates a receipt previously produced by
// SignReceipt, returning its claims.
func VerifyReceipt(signed string) (*RunClaims, error) {
	claims := &RunClaims{}
	_, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return receiptKey(), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
