package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/mikey/ssn-mailbox-scanner/internal/di"
	"go.uber.org/zap"
)

func main() {
	// Load a local .env if present; real deployments use the environment
	_ = godotenv.Load()

	flags := di.ParseDeleteFlags()

	// Build the dependency injection container
	container, err := di.BuildDeleteContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the reviewed deletion
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	deleter *core.Deleter,
	auditLog core.AuditLog,
) error {
	defer logger.Sync()
	defer func() {
		if closer, ok := auditLog.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close audit log", zap.Error(err))
			}
		}
	}()

	report, err := deleter.Run(context.Background())
	if err != nil {
		logger.Error("Deletion run failed", zap.Error(err))
		return err
	}

	fmt.Printf("\n=== Deletion Summary ===\n")
	fmt.Printf("Run ID: %s\n", report.RunID)
	fmt.Printf("Rows processed: %d\n", report.Processed)
	fmt.Printf("Audit log: %s\n", report.LogPath)
	fmt.Printf("Per-row outcomes are in the audit log.\n")
	return nil
}
