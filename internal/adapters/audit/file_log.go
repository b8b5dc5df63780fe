package audit

import (
	"fmt"
	"os"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// FileLog is an append-only audit log of deletion outcomes, one line per
// processed row, written immediately in processing order. Existing content
// is never rewritten; reruns append.
type FileLog struct {
	path   string
	file   *os.File
	logger *zap.Logger
}

// NewFileLog opens (or creates) the audit log for appending
func NewFileLog(path string, logger *zap.Logger) (*FileLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %s: %w", path, err)
	}
	return &FileLog{
		path:   path,
		file:   f,
		logger: logger,
	}, nil
}

// RecordDeleted appends a success entry
func (l *FileLog) RecordDeleted(row core.ReviewedRow) error {
	return l.append(fmt.Sprintf("[%s] Deleted: '%s' from %s (MessageId: %s)",
		timestamp(), row.Subject, row.Mailbox, row.MessageID))
}

// RecordFailed appends a failure entry carrying the error detail
func (l *FileLog) RecordFailed(row core.ReviewedRow, cause error) error {
	return l.append(fmt.Sprintf("[%s] FAILED: '%s' from %s - %v",
		timestamp(), row.Subject, row.Mailbox, cause))
}

// Path returns the audit log location
func (l *FileLog) Path() string {
	return l.path
}

// Close closes the underlying file
func (l *FileLog) Close() error {
	return l.file.Close()
}

func (l *FileLog) append(line string) error {
	if _, err := fmt.Fprintln(l.file, line); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	// Flush through to disk so a terminated run keeps every entry already
	// written.
	if err := l.file.Sync(); err != nil {
		l.logger.Warn("Audit log sync failed", zap.Error(err))
	}
	return nil
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
