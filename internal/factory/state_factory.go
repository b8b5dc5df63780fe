package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/adapters/state"
	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// StateFactory creates scan state repositories based on configuration
type StateFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStateFactory creates a new state factory
func NewStateFactory(cfg *config.Config, logger *zap.Logger) *StateFactory {
	return &StateFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStateRepository creates a scan state repository based on the configuration
func (f *StateFactory) CreateStateRepository() (core.ScanStateRepository, error) {
	stateType := f.cfg.GetString("state.type")
	cleanupFreq, err := f.cfg.GetDuration("state.cleanup_frequency")
	if err != nil {
		return nil, fmt.Errorf("invalid state cleanup frequency: %w", err)
	}

	switch stateType {
	case "memory":
		return state.NewMemoryStore(f.logger, cleanupFreq), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("state.sqlite_path")
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return state.NewSQLiteStore(sqlitePath, f.logger, cleanupFreq)
	case "mysql":
		mysqlDSN := f.cfg.GetString("state.mysql_dsn")
		return state.NewMySQLStore(mysqlDSN, f.logger, cleanupFreq)
	default:
		return nil, fmt.Errorf("unsupported state store type: %s", stateType)
	}
}

// GetStateTTL returns the configured scan state TTL
func (f *StateFactory) GetStateTTL() (time.Duration, error) {
	return f.cfg.GetDuration("state.ttl")
}

// IsStateEnabled returns whether seen-message tracking is enabled
func (f *StateFactory) IsStateEnabled() bool {
	return f.cfg.GetBool("state.enabled")
}
