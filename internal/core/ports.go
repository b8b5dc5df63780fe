package core

import (
	"context"
)

// MailProvider defines the narrow surface of the external mail/directory
// service the scanner and the deletion workflow depend on. The session is
// established outside this module; implementations only report whether one
// is present.
type MailProvider interface {
	// ListMailUsers enumerates mail-enabled directory users
	ListMailUsers(ctx context.Context) ([]MailboxUser, error)

	// ListMessages lists up to pageSize message summaries for a user's mailbox
	ListMessages(ctx context.Context, userID string, pageSize int) ([]MessageSummary, error)

	// GetMessageBody fetches the full, markup-bearing body of one message
	GetMessageBody(ctx context.Context, userID, messageID string) (string, error)

	// DeleteMessage removes one message from a user's mailbox
	DeleteMessage(ctx context.Context, userID, messageID string) error

	// HasActiveSession reports whether an authenticated session exists.
	// It never attempts to establish one.
	HasActiveSession() bool
}

// ScanStateRepository tracks messages the scanner has already examined.
type ScanStateRepository interface {
	// IsSeen reports whether a message was examined by an earlier run
	IsSeen(ctx context.Context, messageID string) (bool, error)

	// MarkSeen records an examined message
	MarkSeen(ctx context.Context, entry *ScanStateEntry) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error

	// Close releases any underlying resources
	Close() error
}

// MailboxFilter decides which mailboxes the scanner skips.
type MailboxFilter interface {
	IsExcluded(mailbox string) bool
}

// ReviewedSource supplies the human-reviewed rows approved for deletion.
type ReviewedSource interface {
	ReadRows() ([]ReviewedRow, error)
}

// AuditLog is the append-only record of deletion outcomes. Implementations
// must write entries immediately, one per processed row, in processing
// order.
type AuditLog interface {
	RecordDeleted(row ReviewedRow) error
	RecordFailed(row ReviewedRow, cause error) error
	Path() string
}
