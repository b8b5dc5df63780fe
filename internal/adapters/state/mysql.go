package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the ScanStateRepository port, for
// deployments where several operators share one scan history.
type MySQLStore struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLStore creates a new MySQL scan state store
func NewMySQLStore(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_state (
			message_id VARCHAR(255) PRIMARY KEY,
			mailbox VARCHAR(255),
			tier VARCHAR(16),
			scanned_at TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_scan_state_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	store := &MySQLStore{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go store.startCleanupTask()

	return store, nil
}

// IsSeen reports whether a message was examined and its entry is still live
func (s *MySQLStore) IsSeen(ctx context.Context, messageID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT message_id
		FROM scan_state
		WHERE message_id = ? AND expires_at > NOW()
	`, messageID).Scan(&id)

	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to query scan state: %w", err)
	}
	return true, nil
}

// MarkSeen records an examined message
func (s *MySQLStore) MarkSeen(ctx context.Context, entry *core.ScanStateEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_state (message_id, mailbox, tier, scanned_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			mailbox = VALUES(mailbox),
			tier = VALUES(tier),
			scanned_at = VALUES(scanned_at),
			expires_at = VALUES(expires_at)
	`, entry.MessageID, entry.Mailbox, entry.Tier.String(), entry.ScannedAt, entry.ExpiresAt)

	if err != nil {
		return fmt.Errorf("failed to insert scan state entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM scan_state
		WHERE expires_at <= NOW()
	`)

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		s.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		s.logger.Debug("Cleaned up expired scan state entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// Close stops the background cleanup task and closes the database connection
func (s *MySQLStore) Close() error {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close MySQL database: %w", err)
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *MySQLStore) startCleanupTask() {
	ticker := time.NewTicker(s.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Cleanup(context.Background()); err != nil {
				s.logger.Error("Failed to clean up scan state", zap.Error(err))
			}
		case <-s.stopCh:
			return
		}
	}
}
