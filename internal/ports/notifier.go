package ports

import (
	"context"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
)

// Notifier delivers a scan run summary to the operator
type Notifier interface {
	// SendScanReport sends a summary of the run and where its export landed
	SendScanReport(ctx context.Context, report *core.ScanReport, reportPath string) error
}
