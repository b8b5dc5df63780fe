package factory

import (
	"github.com/mikey/ssn-mailbox-scanner/internal/adapters/report"
	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/ports"
	"github.com/mikey/ssn-mailbox-scanner/internal/utils"
	"go.uber.org/zap"
)

// ReportFactory creates the report sink and reviewed-input reader
type ReportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReportFactory creates a new report factory
func NewReportFactory(cfg *config.Config, logger *zap.Logger) *ReportFactory {
	return &ReportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReportSink creates the CSV export writer
func (f *ReportFactory) CreateReportSink() ports.ReportSink {
	return report.NewCSVWriter(
		f.cfg.GetString("report.output_path"),
		utils.NewTextProcessor(f.logger),
		f.cfg.GetInt("scan.preview_max_bytes"),
		f.logger,
	)
}

// CreateReviewedSource creates the reviewed-input reader
func (f *ReportFactory) CreateReviewedSource() *report.ReviewedCSV {
	return report.NewReviewedCSV(f.cfg.GetString("delete.reviewed_path"), f.logger)
}
