package config

import "time"

// Config holds runtime settings for the docproc CLI.
//
// Fields:
//   - ServerBaseURL: base origin of the REST API, including the /api prefix.
//   - DataDir: directory holding the local SQLite database.
//   - AuthFlow: "jwt" (token pair) or "legacy" (single token + user).
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: per-request HTTP timeout; zero means none.
//   - LogLevel: debug, info, warn or error.
//   - S3*, GCS*: settings for remote upload sources.
type Config struct {
	ServerBaseURL       string
	DataDir             string
	AuthFlow            string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LogLevel            string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	GCSEndpoint  string
	GCSAnonymous bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000/api"
	c.DataDir = "~/.docproc"
	c.AuthFlow = "jwt"
	c.OnlineCheckInterval = 5 * time.Second
	c.RequestTimeout = 0
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
