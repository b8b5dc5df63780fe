package di

import (
	"flag"
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/ssn-mailbox-scanner/internal/config"
	"github.com/mikey/ssn-mailbox-scanner/internal/core"
	"github.com/mikey/ssn-mailbox-scanner/internal/exclusions"
	"github.com/mikey/ssn-mailbox-scanner/internal/factory"
	"github.com/mikey/ssn-mailbox-scanner/internal/logging"
	"github.com/mikey/ssn-mailbox-scanner/internal/ports"
)

// ScanFlags contains all command line flags for the scan binary
type ScanFlags struct {
	// Provider flags
	GraphBaseURL string
	AccessToken  string
	TokenExpiry  string

	// Scan flags
	PageSize         int
	ThrottleDelay    string
	ContextHalfWidth int
	PreviewMaxBytes  int
	Exclude          string

	// Output flags
	OutputPath string

	// State flags
	StateType    string
	StateEnabled bool

	// Input flags
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseScanFlags parses command line flags and returns a ScanFlags struct
func ParseScanFlags() *ScanFlags {
	flags := &ScanFlags{}

	// Provider flags
	flag.StringVar(&flags.GraphBaseURL, "graph-url", "https://graph.microsoft.com/v1.0", "Graph API base URL")
	flag.StringVar(&flags.AccessToken, "token", "", "Graph access token (or SSN_SCANNER_GRAPH_ACCESS_TOKEN)")
	flag.StringVar(&flags.TokenExpiry, "token-expiry", "", "Graph token expiry (RFC 3339, optional)")

	// Scan flags
	flag.IntVar(&flags.PageSize, "page-size", 100, "Messages fetched per mailbox")
	flag.StringVar(&flags.ThrottleDelay, "throttle", "250ms", "Delay after each message fetch")
	flag.IntVar(&flags.ContextHalfWidth, "context-width", core.DefaultContextHalfWidth, "Bytes of context kept on each side of a match")
	flag.IntVar(&flags.PreviewMaxBytes, "preview-max", 1024, "Maximum preview cell size in bytes")
	flag.StringVar(&flags.Exclude, "exclude", "", "Comma-separated mailboxes (or @domains) to skip")

	// Output flags
	flag.StringVar(&flags.OutputPath, "out", "./ssn-scan-report.csv", "Scan report output path")

	// State flags
	flag.StringVar(&flags.StateType, "state", "memory", "Scan state store (memory, sqlite, mysql)")
	flag.BoolVar(&flags.StateEnabled, "state-enabled", true, "Skip messages recorded by earlier runs")

	// Input flags
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildScanContainer creates and configures a dependency injection container
// for the scan binary
func BuildScanContainer(flags *ScanFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *ScanFlags { return flags }); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *ScanFlags) (*config.Config, error) {
		if flags.ConfigFile != "" {
			return config.New()
		}
		return scanConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *ScanFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewProviderFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStateFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReportFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewNotifierFactory); err != nil {
		return nil, err
	}

	// Register mail provider
	if err := container.Provide(func(f *factory.ProviderFactory) (core.MailProvider, error) {
		return f.CreateMailProvider()
	}); err != nil {
		return nil, err
	}

	// Register scan state repository
	if err := container.Provide(func(f *factory.StateFactory) (core.ScanStateRepository, error) {
		return f.CreateStateRepository()
	}); err != nil {
		return nil, err
	}

	// Register mailbox exclusions
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.MailboxFilter {
		excluded := cfg.GetStringSlice("scan.excluded_mailboxes")
		return exclusions.NewChecker(excluded, logger)
	}); err != nil {
		return nil, err
	}

	// Register classifier
	if err := container.Provide(core.NewClassifier); err != nil {
		return nil, err
	}

	// Register scanner
	if err := container.Provide(func(
		provider core.MailProvider,
		state core.ScanStateRepository,
		filter core.MailboxFilter,
		classifier *core.Classifier,
		logger *zap.Logger,
		cfg *config.Config,
		stateFactory *factory.StateFactory,
	) (*core.Scanner, error) {
		throttle, err := cfg.GetDuration("scan.throttle_delay")
		if err != nil {
			return nil, err
		}
		stateTTL, err := stateFactory.GetStateTTL()
		if err != nil {
			return nil, err
		}
		return core.NewScanner(
			provider,
			state,
			filter,
			classifier,
			logger,
			cfg.GetInt("scan.page_size"),
			throttle,
			cfg.GetInt("scan.context_half_width"),
			stateFactory.IsStateEnabled(),
			stateTTL,
		), nil
	}); err != nil {
		return nil, err
	}

	// Register report sink
	if err := container.Provide(func(f *factory.ReportFactory) ports.ReportSink {
		return f.CreateReportSink()
	}); err != nil {
		return nil, err
	}

	// Register notifier
	if err := container.Provide(func(f *factory.NotifierFactory) ports.Notifier {
		return f.CreateNotifier()
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// scanConfigFromFlags builds a configuration from command line flags
func scanConfigFromFlags(flags *ScanFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("graph.base_url", flags.GraphBaseURL)
	if flags.AccessToken != "" {
		v.Set("graph.access_token", flags.AccessToken)
	}
	if flags.TokenExpiry != "" {
		v.Set("graph.token_expires_at", flags.TokenExpiry)
	}

	v.Set("scan.page_size", flags.PageSize)
	v.Set("scan.throttle_delay", flags.ThrottleDelay)
	v.Set("scan.context_half_width", flags.ContextHalfWidth)
	v.Set("scan.preview_max_bytes", flags.PreviewMaxBytes)
	if flags.Exclude != "" {
		v.Set("scan.excluded_mailboxes", splitAndTrim(flags.Exclude))
	}

	v.Set("report.output_path", flags.OutputPath)

	v.Set("state.type", flags.StateType)
	v.Set("state.enabled", flags.StateEnabled)

	return config.NewFromViper(v)
}

// splitAndTrim splits a comma-separated flag value into trimmed entries
func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
