package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"go.uber.org/zap"
)

// requiredColumns are the reviewed-file columns the deletion workflow needs.
// Any additional columns from the original export are ignored.
var requiredColumns = []string{"UserId", "MessageId", "Subject", "Mailbox"}

// ReviewedCSV reads the human-reviewed rows approved for deletion
type ReviewedCSV struct {
	path   string
	logger *zap.Logger
}

// NewReviewedCSV creates a new reviewed-input reader
func NewReviewedCSV(path string, logger *zap.Logger) *ReviewedCSV {
	return &ReviewedCSV{
		path:   path,
		logger: logger,
	}
}

// ReadRows reads all reviewed rows in file order
func (r *ReviewedCSV) ReadRows() ([]core.ReviewedRow, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reviewed input %s: %w", r.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reviewed header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []core.ReviewedRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read reviewed row: %w", err)
		}
		rows = append(rows, core.ReviewedRow{
			UserID:    field(record, index["UserId"]),
			MessageID: field(record, index["MessageId"]),
			Subject:   field(record, index["Subject"]),
			Mailbox:   field(record, index["Mailbox"]),
		})
	}

	r.logger.Info("Loaded reviewed rows",
		zap.String("path", r.path),
		zap.Int("rows", len(rows)))
	return rows, nil
}

// columnIndex maps the required column names to their positions,
// case-insensitively.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(requiredColumns))
	for _, want := range requiredColumns {
		found := -1
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("reviewed input is missing required column %q", want)
		}
		index[want] = found
	}
	return index, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
