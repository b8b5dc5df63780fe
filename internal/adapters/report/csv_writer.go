package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/mikey/ssn-mailbox-scanner/internal/utils"
	"go.uber.org/zap"
)

// csvHeader is the fixed column layout of the scan export.
var csvHeader = []string{"Mailbox", "UserId", "Subject", "Confidence", "From", "SentDateTime", "MessageId", "MatchPreview"}

// CSVWriter exports scan results as a CSV file for human review
type CSVWriter struct {
	path            string
	textProcessor   *utils.TextProcessor
	previewMaxBytes int
	logger          *zap.Logger
}

// NewCSVWriter creates a new CSV report writer
func NewCSVWriter(path string, textProcessor *utils.TextProcessor, previewMaxBytes int, logger *zap.Logger) *CSVWriter {
	return &CSVWriter{
		path:            path,
		textProcessor:   textProcessor,
		previewMaxBytes: previewMaxBytes,
		logger:          logger,
	}
}

// WriteResults writes the full result set, replacing any previous export
func (w *CSVWriter) WriteResults(results []core.ScanResult) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, r := range results {
		sentAt := ""
		if !r.SentAt.IsZero() {
			sentAt = r.SentAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			r.Mailbox,
			r.UserID,
			r.Subject,
			r.Confidence.String(),
			r.From,
			sentAt,
			r.MessageID,
			w.textProcessor.ProcessText(r.MatchPreview, w.previewMaxBytes),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}

	w.logger.Info("Scan report written",
		zap.String("path", w.path),
		zap.Int("rows", len(results)))
	return nil
}

// Path returns the location of the export
func (w *CSVWriter) Path() string {
	return w.path
}
