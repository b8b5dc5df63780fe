package audit

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	deletedLine = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z\] Deleted: 'Benefits form' from alice@example\.com \(MessageId: m1\)$`)
	failedLine  = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z\] FAILED: 'Benefits form' from alice@example\.com - item not found$`)
)

func testRow() core.ReviewedRow {
	return core.ReviewedRow{
		UserID:    "u1",
		MessageID: "m1",
		Subject:   "Benefits form",
		Mailbox:   "alice@example.com",
	}
}

func TestFileLogLineFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := NewFileLog(path, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, log.RecordDeleted(testRow()))
	require.NoError(t, log.RecordFailed(testRow(), errors.New("item not found")))
	require.NoError(t, log.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, deletedLine, lines[0])
	assert.Regexp(t, failedLine, lines[1])
}

func TestFileLogAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	first, err := NewFileLog(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, first.RecordDeleted(testRow()))
	require.NoError(t, first.Close())

	// A second run must append, never truncate.
	second, err := NewFileLog(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, second.RecordDeleted(testRow()))
	require.NoError(t, second.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(content), "Deleted:"))
}

func TestFileLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := NewFileLog(path, zap.NewNop())
	require.NoError(t, err)
	defer log.Close()

	assert.Equal(t, path, log.Path())
}
