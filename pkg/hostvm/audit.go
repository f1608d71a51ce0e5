package hostvm

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nullsector/corevm/pkg/configuration"
	"github.com/nullsector/corevm/pkg/logger"
)

// AuditRecord is one completed run, as stored by AuditLog and returned by
// History.
type AuditRecord struct {
	RunID           string
	ProgramPath     string
	ProgramChecksum string
	StartedAt       time.Time
	FinishedAt      time.Time
	FaultKind       string
	ExitCode        int
}

// AuditLog is a purely observational record of VM runs. It never
// participates in execution - opening it, or failing to - cannot change
// what a program does.
type AuditLog struct {
	db *sql.DB
}

// OpenAuditLog opens (creating if necessary) the configured sqlite audit
// database and ensures its schema exists. Returns nil, nil if auditing is
// disabled in configuration.
func OpenAuditLog() (*AuditLog, error) {
	if !configuration.GetBool("Audit", "enabled", true) {
		return nil, nil
	}
	path := configuration.GetString("Audit", "db_path", "corevm_audit.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS vm_run (
	run_id TEXT PRIMARY KEY,
	program_path TEXT NOT NULL,
	program_checksum TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL,
	fault_kind TEXT NOT NULL DEFAULT '',
	exit_code INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Close releases the underlying database handle.
func (a *AuditLog) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Record inserts one completed run. Failure to record is logged but never
// surfaced as a VM fault.
func (a *AuditLog) Record(rec AuditRecord) {
	if a == nil || a.db == nil {
		return
	}
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO vm_run (run_id, program_path, program_checksum, started_at, finished_at, fault_kind, exit_code)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.ProgramPath, rec.ProgramChecksum, rec.StartedAt, rec.FinishedAt, rec.FaultKind, rec.ExitCode,
	)
	if err != nil {
		logger.Warn(logger.AreaAudit, "failed to record run %s: %v", rec.RunID, err)
	}
}

// History returns the most recent runs, newest first, for the CLI's
// "history" subcommand.
func (a *AuditLog) History(limit int) ([]AuditRecord, error) {
	if a == nil || a.db == nil {
		return nil, nil
	}
	rows, err := a.db.Query(
		`SELECT run_id, program_path, program_checksum, started_at, finished_at, fault_kind, exit_code
		 FROM vm_run ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var r AuditRecord
		if err := rows.Scan(&r.RunID, &r.ProgramPath, &r.ProgramChecksum, &r.StartedAt, &r.FinishedAt, &r.FaultKind, &r.ExitCode); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
