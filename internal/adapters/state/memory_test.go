package state

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func entry(id string, ttl time.Duration) *core.ScanStateEntry {
	now := time.Now().UTC()
	return &core.ScanStateEntry{
		MessageID: id,
		Mailbox:   "alice@example.com",
		Tier:      core.TierNone,
		ScannedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStoreMarkAndCheck(t *testing.T) {
	store := NewMemoryStore(zap.NewNop(), time.Hour)
	defer store.Close()
	ctx := context.Background()

	seen, err := store.IsSeen(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.MarkSeen(ctx, entry("m1", time.Hour)))

	seen, err = store.IsSeen(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryStoreExpiredEntryNotSeen(t *testing.T) {
	store := NewMemoryStore(zap.NewNop(), time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, entry("m1", -time.Minute)))

	seen, err := store.IsSeen(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore(zap.NewNop(), time.Hour)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.MarkSeen(ctx, entry("expired", -time.Minute)))
	require.NoError(t, store.MarkSeen(ctx, entry("live", time.Hour)))
	require.NoError(t, store.Cleanup(ctx))

	store.mu.RLock()
	defer store.mu.RUnlock()
	assert.Len(t, store.entries, 1)
	assert.Contains(t, store.entries, "live")
}
