package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Scanner drives a scan run: enumerate mailboxes, sanitize and classify each
// message body, and collect a result row for every detection. Per-item
// failures are absorbed here and surfaced only as log output; a run always
// walks to the end of its input unless the initial user listing fails.
type Scanner struct {
	provider         MailProvider
	state            ScanStateRepository
	filter           MailboxFilter
	classifier       *Classifier
	logger           *zap.Logger
	pageSize         int
	throttleDelay    time.Duration
	contextHalfWidth int
	stateEnabled     bool
	stateTTL         time.Duration
}

// NewScanner creates a new mailbox scanner
func NewScanner(
	provider MailProvider,
	state ScanStateRepository,
	filter MailboxFilter,
	classifier *Classifier,
	logger *zap.Logger,
	pageSize int,
	throttleDelay time.Duration,
	contextHalfWidth int,
	stateEnabled bool,
	stateTTL time.Duration,
) *Scanner {
	return &Scanner{
		provider:         provider,
		state:            state,
		filter:           filter,
		classifier:       classifier,
		logger:           logger,
		pageSize:         pageSize,
		throttleDelay:    throttleDelay,
		contextHalfWidth: contextHalfWidth,
		stateEnabled:     stateEnabled,
		stateTTL:         stateTTL,
	}
}

// Scan walks every mail-enabled mailbox and returns the ordered detections.
// A mailbox whose message listing fails is skipped; a message whose body
// fetch fails is skipped; neither aborts the run. A fixed delay follows each
// message fetch to respect the provider's throttling policy.
func (s *Scanner) Scan(ctx context.Context) (*ScanReport, error) {
	report := &ScanReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	users, err := s.provider.ListMailUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mail-enabled users: %w", err)
	}
	s.logger.Info("Starting mailbox scan",
		zap.String("run_id", report.RunID),
		zap.Int("users", len(users)))

	for _, user := range users {
		if s.filter != nil && s.filter.IsExcluded(user.MailAddress) {
			s.logger.Info("Skipping excluded mailbox", zap.String("mailbox", user.MailAddress))
			report.MailboxesSkipped++
			continue
		}

		messages, err := s.provider.ListMessages(ctx, user.ID, s.pageSize)
		if err != nil {
			s.logger.Warn("Skipping mailbox, message listing failed",
				zap.String("mailbox", user.MailAddress),
				zap.Error(err))
			report.MailboxesSkipped++
			continue
		}
		report.MailboxesScanned++

		for _, msg := range messages {
			if s.alreadySeen(ctx, msg.ID) {
				continue
			}

			body, err := s.provider.GetMessageBody(ctx, user.ID, msg.ID)
			time.Sleep(s.throttleDelay)
			if err != nil {
				s.logger.Warn("Skipping message, body fetch failed",
					zap.String("mailbox", user.MailAddress),
					zap.String("message_id", msg.ID),
					zap.Error(err))
				continue
			}
			report.MessagesScanned++

			text := Sanitize(body)
			tier := s.classifier.Classify(text)
			s.markSeen(ctx, user.MailAddress, msg.ID, tier)
			if tier == TierNone {
				continue
			}

			s.logger.Info("Possible SSN detected",
				zap.String("mailbox", user.MailAddress),
				zap.String("message_id", msg.ID),
				zap.String("confidence", tier.String()))

			report.Results = append(report.Results, ScanResult{
				Mailbox:      user.MailAddress,
				UserID:       user.ID,
				Subject:      msg.Subject,
				Confidence:   tier,
				From:         msg.From,
				SentAt:       msg.SentAt,
				MessageID:    msg.ID,
				MatchPreview: ExtractContext(text, s.contextHalfWidth),
			})
		}
	}

	report.FinishedAt = time.Now().UTC()
	s.logger.Info("Mailbox scan complete",
		zap.String("run_id", report.RunID),
		zap.Int("mailboxes_scanned", report.MailboxesScanned),
		zap.Int("mailboxes_skipped", report.MailboxesSkipped),
		zap.Int("messages_scanned", report.MessagesScanned),
		zap.Int("matches", len(report.Results)),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)))
	return report, nil
}

func (s *Scanner) alreadySeen(ctx context.Context, messageID string) bool {
	if !s.stateEnabled || s.state == nil {
		return false
	}
	seen, err := s.state.IsSeen(ctx, messageID)
	if err != nil {
		s.logger.Warn("Scan state lookup failed", zap.Error(err))
		return false
	}
	if seen {
		s.logger.Debug("Skipping already scanned message", zap.String("message_id", messageID))
	}
	return seen
}

func (s *Scanner) markSeen(ctx context.Context, mailbox, messageID string, tier ConfidenceTier) {
	if !s.stateEnabled || s.state == nil {
		return
	}
	now := time.Now().UTC()
	entry := &ScanStateEntry{
		MessageID: messageID,
		Mailbox:   mailbox,
		Tier:      tier,
		ScannedAt: now,
		ExpiresAt: now.Add(s.stateTTL),
	}
	if err := s.state.MarkSeen(ctx, entry); err != nil {
		s.logger.Warn("Failed to record scan state", zap.Error(err))
	}
}
