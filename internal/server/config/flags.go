package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-u string   upstream REST base URL
//	-n string   upstream tenant
//	-k string   upstream access token
//	-s string   token clients must present
//	-t int      upstream timeout, seconds
//	-l string   log level
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-n", "-k", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.UpstreamAddr, "u", config.UpstreamAddr, "upstream REST base URL")
	fs.StringVar(&config.UpstreamTenant, "n", config.UpstreamTenant, "upstream tenant")
	fs.StringVar(&config.UpstreamToken, "k", config.UpstreamToken, "upstream access token")
	fs.StringVar(&config.AccessToken, "s", config.AccessToken, "token clients must present")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	upstreamTimeout := fs.Int("t", int(config.UpstreamTimeout.Seconds()), "upstream timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.UpstreamTimeout = time.Duration(*upstreamTimeout) * time.Second
}
