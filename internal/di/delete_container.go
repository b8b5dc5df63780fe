package di

import (
	"flag"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/ssn-mailbox-scanner/internal/adapters/audit"
	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/mikey/ssn-mailbox-scanner/internal/factory"
	"github.com/mikey/ssn-mailbox-scanner/internal/logging"
)

// DeleteFlags contains all command line flags for the deletion binary
type DeleteFlags struct {
	// Provider flags
	GraphBaseURL string
	AccessToken  string
	TokenExpiry  string

	// Deletion flags
	ReviewedPath  string
	LogPath       string
	ThrottleDelay string

	// Input flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseDeleteFlags parses command line flags and returns a DeleteFlags struct
func ParseDeleteFlags() *DeleteFlags {
	flags := &DeleteFlags{}

	// Provider flags
	flag.StringVar(&flags.GraphBaseURL, "graph-url", "https://graph.microsoft.com/v1.0", "Graph API base URL")
	flag.StringVar(&flags.AccessToken, "token", "", "Graph access token (or SSN_SCANNER_GRAPH_ACCESS_TOKEN)")
	flag.StringVar(&flags.TokenExpiry, "token-expiry", "", "Graph token expiry (RFC 3339, optional)")

	// Deletion flags
	flag.StringVar(&flags.ReviewedPath, "reviewed", "", "Path to the reviewed CSV approved for deletion")
	flag.StringVar(&flags.LogPath, "audit-log", "./ssn-deletion-log.txt", "Audit log path (append-only)")
	flag.StringVar(&flags.ThrottleDelay, "throttle", "500ms", "Delay after each deletion")

	// Input flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildDeleteContainer creates and configures a dependency injection
// container for the deletion binary
func BuildDeleteContainer(flags *DeleteFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *DeleteFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *DeleteFlags) (*config.Config, error) {
		if flags.ConfigFile != "" {
			return config.New()
		}
		return deleteConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *DeleteFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewProviderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReportFactory); err != nil {
		return nil, err
	}

	// Register mail provider
	if err := container.Provide(func(f *factory.ProviderFactory) (core.MailProvider, error) {
		return f.CreateMailProvider()
	}); err != nil {
		return nil, err
	}

	// Register reviewed source
	if err := container.Provide(func(f *factory.ReportFactory) core.ReviewedSource {
		return f.CreateReviewedSource()
	}); err != nil {
		return nil, err
	}

	// Register audit log
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (core.AuditLog, error) {
		return audit.NewFileLog(cfg.GetString("audit.log_path"), logger)
	}); err != nil {
		return nil, err
	}

	// Register deletion workflow
	if err := container.Provide(func(
		provider core.MailProvider,
		source core.ReviewedSource,
		auditLog core.AuditLog,
		logger *zap.Logger,
		cfg *config.Config,
	) (*core.Deleter, error) {
		throttle, err := cfg.GetDuration("delete.throttle_delay")
		if err != nil {
			return nil, err
		}
		return core.NewDeleter(provider, source, auditLog, logger, throttle), nil
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// deleteConfigFromFlags builds a configuration from command line flags
func deleteConfigFromFlags(flags *DeleteFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("graph.base_url", flags.GraphBaseURL)
	if flags.AccessToken != "" {
		v.Set("graph.access_token", flags.AccessToken)
	}
	if flags.TokenExpiry != "" {
		v.Set("graph.token_expires_at", flags.TokenExpiry)
	}

	v.Set("delete.reviewed_path", flags.ReviewedPath)
	v.Set("audit.log_path", flags.LogPath)
	v.Set("delete.throttle_delay", flags.ThrottleDelay)

	return config.NewFromViper(v)
}
