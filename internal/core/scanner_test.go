package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider is a MailProvider stub with per-field behavior; tests embed
// or populate only what they need.
type fakeProvider struct {
	users        []MailboxUser
	usersErr     error
	messages     map[string][]MessageSummary
	listErr      map[string]error
	bodies       map[string]string
	bodyErr      map[string]error
	bodyFetches  int
	deleteCalled int
}

func (p *fakeProvider) ListMailUsers(ctx context.Context) ([]MailboxUser, error) {
	return p.users, p.usersErr
}

func (p *fakeProvider) ListMessages(ctx context.Context, userID string, pageSize int) ([]MessageSummary, error) {
	if err, ok := p.listErr[userID]; ok {
		return nil, err
	}
	msgs := p.messages[userID]
	if len(msgs) > pageSize {
		msgs = msgs[:pageSize]
	}
	return msgs, nil
}

func (p *fakeProvider) GetMessageBody(ctx context.Context, userID, messageID string) (string, error) {
	p.bodyFetches++
	if err, ok := p.bodyErr[messageID]; ok {
		return "", err
	}
	return p.bodies[messageID], nil
}

func (p *fakeProvider) DeleteMessage(ctx context.Context, userID, messageID string) error {
	p.deleteCalled++
	return nil
}

func (p *fakeProvider) HasActiveSession() bool { return true }

type fakeState struct {
	seen   map[string]bool
	marked []string
}

func (s *fakeState) IsSeen(ctx context.Context, messageID string) (bool, error) {
	return s.seen[messageID], nil
}

func (s *fakeState) MarkSeen(ctx context.Context, entry *ScanStateEntry) error {
	s.marked = append(s.marked, entry.MessageID)
	return nil
}

func (s *fakeState) Cleanup(ctx context.Context) error { return nil }
func (s *fakeState) Close() error                      { return nil }

type fakeFilter struct {
	excluded map[string]bool
}

func (f *fakeFilter) IsExcluded(mailbox string) bool { return f.excluded[mailbox] }

func newTestScanner(p *fakeProvider, st ScanStateRepository, f MailboxFilter) *Scanner {
	stateEnabled := st != nil
	return NewScanner(p, st, f, NewClassifier(), zap.NewNop(), 50, 0, 150, stateEnabled, time.Hour)
}

func TestScannerEmitsResultsForMatches(t *testing.T) {
	sent := time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	provider := &fakeProvider{
		users: []MailboxUser{{ID: "u1", MailAddress: "alice@example.com"}},
		messages: map[string][]MessageSummary{
			"u1": {
				{ID: "m1", Subject: "Benefits form", From: "hr@example.com", SentAt: sent},
				{ID: "m2", Subject: "Lunch", From: "bob@example.com", SentAt: sent},
			},
		},
		bodies: map[string]string{
			"m1": "<html><body>Your SSN is <b>123-45-6789</b></body></html>",
			"m2": "<p>Pizza on Friday?</p>",
		},
	}

	s := newTestScanner(provider, nil, nil)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	r := report.Results[0]
	assert.Equal(t, "alice@example.com", r.Mailbox)
	assert.Equal(t, "u1", r.UserID)
	assert.Equal(t, "Benefits form", r.Subject)
	assert.Equal(t, TierHigh, r.Confidence)
	assert.Equal(t, "hr@example.com", r.From)
	assert.Equal(t, "m1", r.MessageID)
	assert.Contains(t, r.MatchPreview, "123-45-6789")

	assert.Equal(t, 1, report.MailboxesScanned)
	assert.Equal(t, 2, report.MessagesScanned)
	assert.NotEmpty(t, report.RunID)
}

func TestScannerSkipsMailboxOnListingFailure(t *testing.T) {
	provider := &fakeProvider{
		users: []MailboxUser{
			{ID: "u1", MailAddress: "broken@example.com"},
			{ID: "u2", MailAddress: "alice@example.com"},
		},
		listErr: map[string]error{"u1": errors.New("mailbox not licensed")},
		messages: map[string][]MessageSummary{
			"u2": {{ID: "m1", Subject: "hello"}},
		},
		bodies: map[string]string{"m1": "SSN 123-45-6789"},
	}

	s := newTestScanner(provider, nil, nil)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	// The broken mailbox is skipped, the run still completes.
	assert.Equal(t, 1, report.MailboxesSkipped)
	assert.Equal(t, 1, report.MailboxesScanned)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "m1", report.Results[0].MessageID)
}

func TestScannerSkipsMessageOnBodyFetchFailure(t *testing.T) {
	provider := &fakeProvider{
		users: []MailboxUser{{ID: "u1", MailAddress: "alice@example.com"}},
		messages: map[string][]MessageSummary{
			"u1": {
				{ID: "m1", Subject: "first"},
				{ID: "m2", Subject: "second"},
			},
		},
		bodyErr: map[string]error{"m1": errors.New("transient 503")},
		bodies:  map[string]string{"m2": "social security number 123456789"},
	}

	s := newTestScanner(provider, nil, nil)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "m2", report.Results[0].MessageID)
	assert.Equal(t, TierMedium, report.Results[0].Confidence)
	// Failed fetch still counted as an attempt, not as a scanned message.
	assert.Equal(t, 2, provider.bodyFetches)
	assert.Equal(t, 1, report.MessagesScanned)
}

func TestScannerSkipsExcludedMailboxes(t *testing.T) {
	provider := &fakeProvider{
		users: []MailboxUser{
			{ID: "u1", MailAddress: "archive@example.com"},
			{ID: "u2", MailAddress: "alice@example.com"},
		},
		messages: map[string][]MessageSummary{
			"u1": {{ID: "m1", Subject: "old"}},
			"u2": {{ID: "m2", Subject: "new"}},
		},
		bodies: map[string]string{
			"m1": "SSN 111-22-3333",
			"m2": "SSN 123-45-6789",
		},
	}
	filter := &fakeFilter{excluded: map[string]bool{"archive@example.com": true}}

	s := newTestScanner(provider, nil, filter)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "m2", report.Results[0].MessageID)
	assert.Equal(t, 1, report.MailboxesSkipped)
}

func TestScannerSkipsAlreadySeenMessages(t *testing.T) {
	provider := &fakeProvider{
		users: []MailboxUser{{ID: "u1", MailAddress: "alice@example.com"}},
		messages: map[string][]MessageSummary{
			"u1": {
				{ID: "m1", Subject: "seen before"},
				{ID: "m2", Subject: "fresh"},
			},
		},
		bodies: map[string]string{
			"m1": "SSN 111-22-3333",
			"m2": "SSN 123-45-6789",
		},
	}
	state := &fakeState{seen: map[string]bool{"m1": true}}

	s := newTestScanner(provider, state, nil)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "m2", report.Results[0].MessageID)
	// Only the fresh message is fetched and recorded.
	assert.Equal(t, 1, provider.bodyFetches)
	assert.Equal(t, []string{"m2"}, state.marked)
}

func TestScannerUserListingFailureIsFatal(t *testing.T) {
	provider := &fakeProvider{usersErr: errors.New("token expired")}

	s := newTestScanner(provider, nil, nil)
	_, err := s.Scan(context.Background())
	require.Error(t, err)
}

func TestScannerRecordsNonMatchesInState(t *testing.T) {
	provider := &fakeProvider{
		users: []MailboxUser{{ID: "u1", MailAddress: "alice@example.com"}},
		messages: map[string][]MessageSummary{
			"u1": {{ID: "m1", Subject: "nothing here"}},
		},
		bodies: map[string]string{"m1": "just a regular message"},
	}
	state := &fakeState{seen: map[string]bool{}}

	s := newTestScanner(provider, state, nil)
	report, err := s.Scan(context.Background())
	require.NoError(t, err)

	// A clean message produces no result row but is still marked seen so
	// the next run skips it.
	assert.Empty(t, report.Results)
	assert.Equal(t, []string{"m1"}, state.marked)
}
