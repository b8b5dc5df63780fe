package notify

import (
	"context"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// NoopNotifier is used when notifications are disabled.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier creates a notifier that does nothing
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	return &NoopNotifier{logger: logger}
}

// SendScanReport logs and discards the summary
func (n *NoopNotifier) SendScanReport(ctx context.Context, report *core.ScanReport, reportPath string) error {
	n.logger.Debug("Notifications disabled, skipping scan summary",
		zap.String("run_id", report.RunID))
	return nil
}
