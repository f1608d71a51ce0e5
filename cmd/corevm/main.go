// Command corevm runs a host-dialect bytecode program: corevm <program.bin>
// [debug], corevm -watch <addr> <program.bin>, or corevm history.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nullsector/corevm/pkg/configuration"
	"github.com/nullsector/corevm/pkg/hostvm"
	"github.com/nullsector/corevm/pkg/logger"
)

func main() {
	if err := configuration.Initialize("settings.cfg"); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	args := os.Args[1:]
	if len(args) > 0 && args[0] == "history" {
		runHistory()
		return
	}

	var watchAddr string
	var rest []string
	for i := 0; i < len(args); i++ {
		if args[i] == "-watch" && i+1 < len(args) {
			watchAddr = args[i+1]
			i++
			continue
		}
		rest = append(rest, args[i])
	}

	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: corevm [-watch addr] <program.bin> [debug]")
		os.Exit(1)
	}
	programPath := rest[0]
	debug := len(rest) > 1 && rest[1] == "debug"

	os.Exit(run(programPath, debug, watchAddr))
}

func run(programPath string, debug bool, watchAddr string) int {
	vm := hostvm.New()
	vm.Debug = debug

	size, err := vm.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded program of %d bytes\n", size)

	if watchAddr != "" {
		watch, err := hostvm.NewTraceWatch(watchAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start trace watch: %v\n", err)
			return 1
		}
		defer watch.Close()
		vm.Watch = watch
	}

	audit, err := hostvm.OpenAuditLog()
	if err != nil {
		logger.Warn(logger.AreaAudit, "audit log unavailable: %v", err)
	}
	defer audit.Close()

	startedAt := time.Now()
	start := time.Now()
	runErr := vm.Run()
	elapsed := time.Since(start)

	faultKind := ""
	exitCode := 0
	if runErr != nil {
		exitCode = 1
		if fe, ok := runErr.(*hostvm.FaultError); ok {
			faultKind = string(fe.Kind)
		}
		fmt.Println("Execution finished with an ERROR.")
	} else {
		fmt.Printf("Execution finished successfully. Time: %s\n", elapsed)
	}

	audit.Record(hostvm.AuditRecord{
		RunID:           vm.RunID,
		ProgramPath:     programPath,
		ProgramChecksum: vm.ProgramChecksum,
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
		FaultKind:       faultKind,
		ExitCode:        exitCode,
	})

	if err := hostvm.WriteReceiptFile(vm.RunID, vm.ProgramChecksum, exitCode, faultKind); err != nil {
		logger.Warn(logger.AreaAudit, "failed to write run receipt: %v", err)
	}

	return exitCode
}

func runHistory() {
	audit, err := hostvm.OpenAuditLog()
	if err != nil || audit == nil {
		fmt.Fprintln(os.Stderr, "audit log is disabled or unavailable")
		return
	}
	defer audit.Close()

	records, err := audit.History(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read history: %v\n", err)
		return
	}
	for _, r := range records {
		status := "ok"
		if r.FaultKind != "" {
			status = r.FaultKind
		}
		fmt.Printf("%s  %-20s  %s ago  %s  exit=%d\n",
			r.RunID, r.ProgramPath, humanize.Time(r.FinishedAt), status, r.ExitCode)
	}
}
