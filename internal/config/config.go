package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/ssn-scanner/")
	v.AddConfigPath("$HOME/.ssn-scanner")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SSN_SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvPrefix("SSN_SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Graph provider defaults
	v.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("graph.access_token", "")
	v.SetDefault("graph.token_expires_at", "")
	v.SetDefault("graph.timeout", "30s")

	// Scan defaults
	v.SetDefault("scan.page_size", 100)
	v.SetDefault("scan.throttle_delay", "250ms")
	v.SetDefault("scan.context_half_width", 150)
	v.SetDefault("scan.preview_max_bytes", 1024)
	v.SetDefault("scan.excluded_mailboxes", []string{})

	// Report defaults
	v.SetDefault("report.output_path", "./ssn-scan-report.csv")

	// Deletion defaults
	v.SetDefault("delete.reviewed_path", "")
	v.SetDefault("delete.throttle_delay", "500ms")
	v.SetDefault("audit.log_path", "./ssn-deletion-log.txt")

	// Scan state defaults
	v.SetDefault("state.type", "memory")
	v.SetDefault("state.enabled", true)
	v.SetDefault("state.ttl", "720h")
	v.SetDefault("state.cleanup_frequency", "1h")
	v.SetDefault("state.sqlite_path", "/data/ssn_scan_state.db")
	v.SetDefault("state.mysql_dsn", "user:password@tcp(localhost:3306)/ssn_scanner")

	// Notification defaults
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.smtp_address", "localhost:25")
	v.SetDefault("notify.username", "")
	v.SetDefault("notify.password", "")
	v.SetDefault("notify.from", "ssn-scanner@localhost")
	v.SetDefault("notify.to", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
