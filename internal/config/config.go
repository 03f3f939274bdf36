package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment variable, e.g. FOOTPRINT_ENDPOINT.
const envPrefix = "FOOTPRINT"

// Configuration keys. Flags carry the same names.
const (
	KeyOutput      = "output"
	KeyLogFile     = "logfile"
	KeyVerbose     = "verbose"
	KeyLogFormat   = "log-format"
	KeyProvider    = "provider"
	KeyEndpoint    = "endpoint"
	KeyAPIKey      = "api-key"
	KeyUserAgent   = "user-agent"
	KeyWorkers     = "workers"
	KeyConnections = "connections"
	KeyTimeout     = "timeout"
	KeyMetricsFile = "metrics-file"
	KeyDatabaseURL = "database-url"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

const (
	defaultProvider    = "nominatim"
	defaultEndpoint    = "http://localhost:8088"
	defaultConnections = 100
)

// ErrMissingOutput is returned when no output path was configured.
var ErrMissingOutput = errors.New("output file is required")

// Config holds the configuration settings for one conversion run.
//
// Fields:
// - Input: Path of the GeoJSON FeatureCollection to read.
// - Output: Path of the CSV file to write.
// - LogFile: Optional log destination, stderr when empty.
// - Verbose: Enables debug logging and the run summary.
// - LogFormat: Log handler format, text or json.
// - Provider: Reverse geocoding provider (nominatim, google).
// - Endpoint: Base URL of the Nominatim service.
// - APIKey: API key for providers that need one.
// - UserAgent: User-Agent sent to the Nominatim service.
// - Workers: Maximum concurrent lookups, 0 for no limit.
// - Connections: Maximum pooled HTTP connections per host.
// - Timeout: Per-request timeout, 0 for none.
// - MetricsFile: Optional Prometheus textfile written after the run.
// - DatabaseURL: Optional Postgres DSN to persist resolved buildings.
type Config struct {
	Input       string
	Output      string
	LogFile     string
	Verbose     bool
	LogFormat   string
	Provider    string
	Endpoint    string
	APIKey      string
	UserAgent   string
	Workers     int
	Connections int
	Timeout     time.Duration
	MetricsFile string
	DatabaseURL string
}

// RegisterFlags defines every configuration flag on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP(KeyOutput, "o", "", "output file name")
	flags.StringP(KeyLogFile, "l", "", "output file for logging (not required, by default will log to stderr)")
	flags.BoolP(KeyVerbose, "v", false, "turn on to get profiling and other info logs")
	flags.String(KeyLogFormat, LogFormatText, "log format: text or json")
	flags.String(KeyProvider, defaultProvider, "reverse geocoding provider: nominatim or google")
	flags.String(KeyEndpoint, defaultEndpoint, "base URL of the Nominatim service")
	flags.String(KeyAPIKey, "", "API key for the google provider")
	flags.String(KeyUserAgent, "", "User-Agent sent to the Nominatim service")
	flags.Int(KeyWorkers, 0, "maximum concurrent lookups (0 = all at once)")
	flags.Int(KeyConnections, defaultConnections, "maximum pooled HTTP connections per host")
	flags.Duration(KeyTimeout, 0, "per-request timeout (0 = none)")
	flags.String(KeyMetricsFile, "", "write Prometheus metrics to this textfile after the run")
	flags.String(KeyDatabaseURL, "", "Postgres URL to also store resolved buildings in")
}

// Load builds the configuration from flags, FOOTPRINT_* environment
// variables (an optional .env file is loaded first) and defaults, in that
// order of precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyLogFormat, LogFormatText)
	v.SetDefault(KeyProvider, defaultProvider)
	v.SetDefault(KeyEndpoint, defaultEndpoint)
	v.SetDefault(KeyConnections, defaultConnections)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	cfg := &Config{
		Output:      v.GetString(KeyOutput),
		LogFile:     v.GetString(KeyLogFile),
		Verbose:     v.GetBool(KeyVerbose),
		LogFormat:   strings.ToLower(v.GetString(KeyLogFormat)),
		Provider:    strings.ToLower(v.GetString(KeyProvider)),
		Endpoint:    v.GetString(KeyEndpoint),
		APIKey:      v.GetString(KeyAPIKey),
		UserAgent:   v.GetString(KeyUserAgent),
		Workers:     v.GetInt(KeyWorkers),
		Connections: v.GetInt(KeyConnections),
		Timeout:     v.GetDuration(KeyTimeout),
		MetricsFile: v.GetString(KeyMetricsFile),
		DatabaseURL: v.GetString(KeyDatabaseURL),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the run cannot work with.
func (c *Config) Validate() error {
	if c.Output == "" {
		return ErrMissingOutput
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return fmt.Errorf("invalid log format: %s", c.LogFormat)
	}
	if c.Provider != "nominatim" && c.Provider != "google" {
		return fmt.Errorf("invalid provider: %s", c.Provider)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid number of workers: %d", c.Workers)
	}
	if c.Connections <= 0 {
		return fmt.Errorf("invalid number of connections: %d", c.Connections)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}

	return nil
}
