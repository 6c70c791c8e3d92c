package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it.
//
// Recognized variables:
//
//	GRANJA_SERVER_URL       base URL of the backend
//	GRANJA_DATABASE_PATH    SQLite file path
//	GRANJA_SYNC_INTERVAL    Go duration, e.g. "60s"
//	GRANJA_PROBE_INTERVAL   Go duration
//	GRANJA_REQUEST_TIMEOUT  Go duration
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("GRANJA_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("GRANJA_DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	envDuration("GRANJA_SYNC_INTERVAL", &cfg.SyncInterval)
	envDuration("GRANJA_PROBE_INTERVAL", &cfg.ProbeInterval)
	envDuration("GRANJA_REQUEST_TIMEOUT", &cfg.RequestTimeout)
}

func envDuration(name string, dst *time.Duration) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
