package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/mikey/ssn-mailbox-scanner/internal/di"
	"github.com/mikey/ssn-mailbox-scanner/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Load a local .env if present; real deployments use the environment
	_ = godotenv.Load()

	flags := di.ParseScanFlags()

	// Build the dependency injection container
	container, err := di.BuildScanContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the scan
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	scanner *core.Scanner,
	sink ports.ReportSink,
	notifier ports.Notifier,
	state core.ScanStateRepository,
	provider core.MailProvider,
) error {
	defer logger.Sync()
	defer func() {
		if err := state.Close(); err != nil {
			logger.Error("Failed to close scan state store", zap.Error(err))
		}
	}()

	if !provider.HasActiveSession() {
		return core.ErrNoActiveSession
	}

	ctx := context.Background()
	report, err := scanner.Scan(ctx)
	if err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return err
	}

	if err := sink.WriteResults(report.Results); err != nil {
		logger.Error("Failed to write scan report", zap.Error(err))
		return err
	}

	if err := notifier.SendScanReport(ctx, report, sink.Path()); err != nil {
		// The report is already on disk; a lost notification is not fatal
		logger.Warn("Failed to send scan summary", zap.Error(err))
	}

	fmt.Printf("\n=== Scan Summary ===\n")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Mailboxes scanned: %d\n", report.MailboxesScanned)
	fmt.Printf("Mailboxes skipped: %d\n", report.MailboxesSkipped)
	fmt.Printf("Messages scanned: %d\n", report.MessagesScanned)
	fmt.Printf("Matches found: %d\n", len(report.Results))
	fmt.Printf("Report: %s\n", sink.Path())
	return nil
}
