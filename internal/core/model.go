package core

import (
	"time"
)

// ConfidenceTier grades how strongly a message body suggests a real SSN.
// Tiers are totally ordered: TierNone < TierLow < TierMedium < TierHigh.
type ConfidenceTier int

const (
	TierNone ConfidenceTier = iota
	TierLow
	TierMedium
	TierHigh
)

// String returns the tier label used in reports and logs.
func (t ConfidenceTier) String() string {
	switch t {
	case TierHigh:
		return "High"
	case TierMedium:
		return "Medium"
	case TierLow:
		return "Low"
	default:
		return "None"
	}
}

// MailboxUser is a mail-enabled directory user
type MailboxUser struct {
	ID          string
	MailAddress string
}

// MessageSummary is the listing view of a mailbox message
type MessageSummary struct {
	ID      string
	Subject string
	From    string
	SentAt  time.Time
}

// ScanResult is one confirmed detection, the unit exported for human review.
// Built only when the confidence tier is not TierNone; immutable once built.
type ScanResult struct {
	Mailbox      string
	UserID       string
	Subject      string
	Confidence   ConfidenceTier
	From         string
	SentAt       time.Time
	MessageID    string
	MatchPreview string
}

// ReviewedRow is a scan result that survived human review and is approved
// for deletion.
type ReviewedRow struct {
	UserID    string
	MessageID string
	Subject   string
	Mailbox   string
}

// ScanStateEntry records a message the scanner has already examined so that
// interrupted or repeated runs can skip it.
type ScanStateEntry struct {
	MessageID string
	Mailbox   string
	Tier      ConfidenceTier
	ScannedAt time.Time
	ExpiresAt time.Time
}

// ScanReport summarizes one scan run.
type ScanReport struct {
	RunID            string
	StartedAt        time.Time
	FinishedAt       time.Time
	MailboxesScanned int
	MailboxesSkipped int
	MessagesScanned  int
	Results          []ScanResult
}

// DeletionReport summarizes one reviewed-deletion run. Per-row outcomes live
// in the audit log only; the workflow does not aggregate them.
type DeletionReport struct {
	RunID     string
	Processed int
	LogPath   string
}
