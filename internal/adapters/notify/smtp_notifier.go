package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// SMTPNotifier emails the operator a summary of a finished scan run.
type SMTPNotifier struct {
	addr     string
	username string
	password string
	from     string
	to       []string
	logger   *zap.Logger
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(addr, username, password, from string, to []string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		addr:     addr,
		username: username,
		password: password,
		from:     from,
		to:       to,
		logger:   logger,
	}
}

// SendScanReport sends a summary of the run and where its export landed
func (n *SMTPNotifier) SendScanReport(ctx context.Context, report *core.ScanReport, reportPath string) error {
	if len(n.to) == 0 {
		return fmt.Errorf("no notification recipients configured")
	}

	var auth sasl.Client
	if n.username != "" {
		auth = sasl.NewPlainClient("", n.username, n.password)
	}

	msg := n.buildMessage(report, reportPath)
	if err := smtp.SendMail(n.addr, auth, n.from, n.to, strings.NewReader(msg)); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	n.logger.Info("Scan summary sent",
		zap.String("run_id", report.RunID),
		zap.Strings("to", n.to))
	return nil
}

func (n *SMTPNotifier) buildMessage(report *core.ScanReport, reportPath string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&b, "Subject: SSN mailbox scan %s: %d match(es)\r\n", report.RunID, len(report.Results))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	fmt.Fprintf(&b, "Scan run %s finished at %s.\r\n\r\n", report.RunID, report.FinishedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Mailboxes scanned: %d\r\n", report.MailboxesScanned)
	fmt.Fprintf(&b, "Mailboxes skipped: %d\r\n", report.MailboxesSkipped)
	fmt.Fprintf(&b, "Messages scanned:  %d\r\n", report.MessagesScanned)
	fmt.Fprintf(&b, "Matches found:     %d\r\n\r\n", len(report.Results))
	fmt.Fprintf(&b, "Report written to %s. Review it and run ssn-delete on the approved rows.\r\n", reportPath)
	return b.String()
}
