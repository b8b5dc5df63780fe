package factory

import (
	"fmt"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/adapters/graph"
	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// ProviderFactory creates the mail provider from configuration
type ProviderFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, logger *zap.Logger) *ProviderFactory {
	return &ProviderFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateMailProvider creates the Graph mail provider. The access token is
// supplied by an externally-established session (config or environment);
// this factory never acquires one.
func (f *ProviderFactory) CreateMailProvider() (core.MailProvider, error) {
	timeout, err := f.cfg.GetDuration("graph.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid graph timeout: %w", err)
	}

	var tokenExpiry time.Time
	if raw := f.cfg.GetString("graph.token_expires_at"); raw != "" {
		tokenExpiry, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid graph token expiry %q: %w", raw, err)
		}
	}

	return graph.NewClient(
		f.cfg.GetString("graph.base_url"),
		f.cfg.GetString("graph.access_token"),
		tokenExpiry,
		timeout,
		f.logger,
	), nil
}
