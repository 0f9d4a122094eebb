package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. args is
// filtered with flagx.FilterArgs first so flags handled elsewhere (-c, -e)
// do not break parsing. Parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-s", "-m", "-i", "-l", "-sync", "-metrics"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address of the remote service")
	fs.StringVar(&cfg.Transport, "t", cfg.Transport, "transport: rest or grpc")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local cache location")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "store backend: sqlite or pebble")
	fs.StringVar(&cfg.InitialMode, "m", cfg.InitialMode, "initial connectivity mode")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "address to serve /metrics on (empty disables)")
	fs.BoolVar(&cfg.AutoSync, "sync", cfg.AutoSync, "replay pending records on reconnect")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
