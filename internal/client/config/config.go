package config

import "time"

// Config holds runtime settings for the farm client.
//
// Units: every interval is a time.Duration (e.g. 60*time.Second).
type Config struct {
	// ServerBaseURL is the base URL of the backend HTTP API.
	ServerBaseURL string
	// DatabasePath is the SQLite file holding the local records.
	DatabasePath string
	// SyncInterval is how often a sync cycle runs on its own.
	SyncInterval time.Duration
	// ProbeInterval is how often the client probes server reachability.
	ProbeInterval time.Duration
	// RequestTimeout bounds every HTTP request.
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.DatabasePath = "granja.db"
	c.SyncInterval = 60 * time.Second
	c.ProbeInterval = 5 * time.Second
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
