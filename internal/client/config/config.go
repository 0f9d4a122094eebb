package config

import (
	"fmt"
	"os"
	"time"
)

const (
	TransportREST = "rest"
	TransportGRPC = "grpc"

	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// Config holds runtime settings for the fieldsync client.
type Config struct {
	ServerEndpointAddr  string
	Transport           string
	Tenant              string
	AccessToken         string
	DatabasePath        string
	StoreBackend        string
	OnlineCheckInterval time.Duration
	ProbeAttempts       int
	AutoSync            bool
	InitialMode         string
	MirrorTimeout       time.Duration
	PageSize            int
	LogLevel            string
	// MetricsAddr serves /metrics when set, e.g. "127.0.0.1:9464".
	MetricsAddr string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8443/fineract-provider/api/v1"
	c.Transport = TransportREST
	c.Tenant = "default"
	c.AccessToken = ""
	c.DatabasePath = "data/fieldsync.db"
	c.StoreBackend = BackendSQLite
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeAttempts = 3
	c.AutoSync = false
	c.InitialMode = "unknown"
	c.MirrorTimeout = 5 * time.Second
	c.PageSize = 100
	c.LogLevel = "info"
	c.MetricsAddr = ""
}

// Validate rejects values the client cannot start with.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportREST, TransportGRPC:
	default:
		return fmt.Errorf("unsupported transport %q", c.Transport)
	}
	switch c.StoreBackend {
	case BackendSQLite, BackendPebble:
	default:
		return fmt.Errorf("unsupported store backend %q", c.StoreBackend)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.ProbeAttempts < 1 {
		return fmt.Errorf("probe attempts must be at least 1, got %d", c.ProbeAttempts)
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1, got %d", c.PageSize)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	if err := parseEnv(cfg, os.Args[1:], os.LookupEnv); err != nil {
		panic(err)
	}
	parseFlags(cfg, os.Args[1:])
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
