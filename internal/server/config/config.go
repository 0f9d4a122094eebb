// Package config handles configuration for the gateway relay, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings for the gateway relay.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - UpstreamAddr: base URL of the REST API the relay forwards to.
//   - UpstreamTenant / UpstreamToken: credentials sent upstream.
//   - AccessToken: shared token clients must present; empty disables the check.
//   - UpstreamTimeout: per-request timeout of the upstream HTTP client.
//   - LogLevel: zap level name.
type Config struct {
	EndpointAddrGRPC string
	UpstreamAddr     string
	UpstreamTenant   string
	UpstreamToken    string
	AccessToken      string
	UpstreamTimeout  time.Duration
	LogLevel         string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.UpstreamAddr = "http://127.0.0.1:8443/fineract-provider/api/v1"
	c.UpstreamTenant = "default"
	c.UpstreamToken = ""
	c.AccessToken = ""
	c.UpstreamTimeout = 30 * time.Second
	c.LogLevel = "info"
}

func (c *Config) Validate() error {
	if c.EndpointAddrGRPC == "" {
		return fmt.Errorf("gRPC endpoint address is required")
	}
	if c.UpstreamAddr == "" {
		return fmt.Errorf("upstream address is required")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("upstream timeout must be positive, got %s", c.UpstreamTimeout)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
