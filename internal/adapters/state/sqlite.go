package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the ScanStateRepository port.
// It is the store of choice for single-host deployments that need scans to
// resume across process restarts.
type SQLiteStore struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteStore creates a new SQLite scan state store
func NewSQLiteStore(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS scan_state (
			message_id TEXT PRIMARY KEY,
			mailbox TEXT,
			tier TEXT,
			scanned_at TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Create index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_scan_state_expires_at ON scan_state(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	store := &SQLiteStore{
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
func (s *SQLiteStore) IsSeen(ctx context.Context, messageID string) (bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT message_id
		FROM scan_state
		WHERE message_id = ? AND expires_at > datetime('now')
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
func (s *SQLiteStore) MarkSeen(ctx context.Context, entry *core.ScanStateEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO scan_state (message_id, mailbox, tier, scanned_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.MessageID, entry.Mailbox, entry.Tier.String(),
		entry.ScannedAt.Format(time.RFC3339), entry.ExpiresAt.Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert scan state entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM scan_state
		WHERE expires_at <= datetime('now')
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
func (s *SQLiteStore) Close() error {
	close(s.stopCh)
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close SQLite database: %w", err)
	}
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *SQLiteStore) startCleanupTask() {
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
