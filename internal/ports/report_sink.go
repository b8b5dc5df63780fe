package ports

import (
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
)

// ReportSink receives the ordered scan results for export
type ReportSink interface {
	// WriteResults writes the full result set, replacing any previous export
	WriteResults(results []core.ScanResult) error

	// Path returns the location of the export
	Path() string
}
