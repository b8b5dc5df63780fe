package factory

import (
	"github.com/mikey/ssn-mailbox-scanner/internal/adapters/notify"
	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/ports"
	"go.uber.org/zap"
)

// NotifierFactory creates the scan summary notifier from configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates an SMTP notifier, or a no-op one when notifications
// are disabled
func (f *NotifierFactory) CreateNotifier() ports.Notifier {
	if !f.cfg.GetBool("notify.enabled") {
		return notify.NewNoopNotifier(f.logger)
	}

	return notify.NewSMTPNotifier(
		f.cfg.GetString("notify.smtp_address"),
		f.cfg.GetString("notify.username"),
		f.cfg.GetString("notify.password"),
		f.cfg.GetString("notify.from"),
		f.cfg.GetStringSlice("notify.to"),
		f.logger,
	)
}
