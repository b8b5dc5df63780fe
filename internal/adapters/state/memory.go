package state

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the ScanStateRepository
// port. State lives only for the process lifetime, so every fresh run
// rescans everything; use the SQLite or MySQL store for resumability.
type MemoryStore struct {
	entries     map[string]*core.ScanStateEntry
	mu          sync.RWMutex
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMemoryStore creates a new in-memory scan state store
func NewMemoryStore(logger *zap.Logger, cleanupFreq time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries:     make(map[string]*core.ScanStateEntry),
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	// Start background cleanup
	go store.startCleanupTask()

	return store
}

// IsSeen reports whether a message was examined and its entry is still live
func (s *MemoryStore) IsSeen(ctx context.Context, messageID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[messageID]
	if !ok {
		return false, nil
	}
	if time.Now().After(entry.ExpiresAt) {
		return false, nil
	}
	return true, nil
}

// MarkSeen records an examined message
func (s *MemoryStore) MarkSeen(ctx context.Context, entry *core.ScanStateEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.MessageID] = entry
	return nil
}

// Cleanup removes expired entries
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredCount := 0

	for id, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, id)
			expiredCount++
		}
	}

	s.logger.Debug("Cleaned up expired scan state entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Close stops the background cleanup task
func (s *MemoryStore) Close() error {
	close(s.stopCh)
	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (s *MemoryStore) startCleanupTask() {
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
