package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoActiveSession is returned when the mail provider has no
	// authenticated session to delete with.
	ErrNoActiveSession = errors.New("no active session with the mail service")

	// ErrEmptyReviewedSet is returned when the reviewed input holds no rows.
	ErrEmptyReviewedSet = errors.New("reviewed input contains no rows")
)

// Deleter executes the reviewed-deletion workflow: delete each approved
// message and append one audit entry per row, tolerating per-row failure.
type Deleter struct {
	provider      MailProvider
	source        ReviewedSource
	audit         AuditLog
	logger        *zap.Logger
	throttleDelay time.Duration
}

// NewDeleter creates a new reviewed-deletion workflow
func NewDeleter(
	provider MailProvider,
	source ReviewedSource,
	audit AuditLog,
	logger *zap.Logger,
	throttleDelay time.Duration,
) *Deleter {
	return &Deleter{
		provider:      provider,
		source:        source,
		audit:         audit,
		logger:        logger,
		throttleDelay: throttleDelay,
	}
}

// Run processes the reviewed rows in file order. Preconditions are checked
// before any side effect: the provider must hold an active session and the
// reviewed source must be readable and non-empty. Each row is deleted and
// its outcome appended to the audit log immediately; a failed deletion is
// logged and processing continues with the next row. No retries. A fixed
// delay follows each row.
func (d *Deleter) Run(ctx context.Context) (*DeletionReport, error) {
	if !d.provider.HasActiveSession() {
		return nil, ErrNoActiveSession
	}

	rows, err := d.source.ReadRows()
	if err != nil {
		return nil, fmt.Errorf("failed to read reviewed rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyReviewedSet
	}

	report := &DeletionReport{
		RunID:   uuid.NewString(),
		LogPath: d.audit.Path(),
	}
	d.logger.Info("Starting reviewed deletion",
		zap.String("run_id", report.RunID),
		zap.Int("rows", len(rows)),
		zap.String("audit_log", report.LogPath))

	for _, row := range rows {
		if err := d.provider.DeleteMessage(ctx, row.UserID, row.MessageID); err != nil {
			d.logger.Warn("Message deletion failed",
				zap.String("mailbox", row.Mailbox),
				zap.String("message_id", row.MessageID),
				zap.Error(err))
			if logErr := d.audit.RecordFailed(row, err); logErr != nil {
				d.logger.Error("Failed to append audit entry", zap.Error(logErr))
			}
		} else {
			d.logger.Info("Message deleted",
				zap.String("mailbox", row.Mailbox),
				zap.String("message_id", row.MessageID))
			if logErr := d.audit.RecordDeleted(row); logErr != nil {
				d.logger.Error("Failed to append audit entry", zap.Error(logErr))
			}
		}
		report.Processed++
		time.Sleep(d.throttleDelay)
	}

	d.logger.Info("Reviewed deletion complete",
		zap.String("run_id", report.RunID),
		zap.Int("processed", report.Processed))
	return report, nil
}
