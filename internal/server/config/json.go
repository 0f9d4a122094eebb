package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
	"github.com/dmitrijs2005/fieldsync/internal/timex"
)

// JsonConfig is the on-disk shape of Config. Absent fields leave the
// corresponding Config value untouched.
type JsonConfig struct {
	EndpointAddrGRPC string          `json:"endpoint_addr_grpc"`
	UpstreamAddr     string          `json:"upstream_addr"`
	UpstreamTenant   string          `json:"upstream_tenant"`
	UpstreamToken    string          `json:"upstream_token"`
	AccessToken      string          `json:"access_token"`
	UpstreamTimeout  *timex.Duration `json:"upstream_timeout"`
	LogLevel         string          `json:"log_level"`
}

// parseJson loads the file named by -c/-config in args into config. Without
// the flag nothing happens. Read or unmarshal errors panic.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.UpstreamAddr, c.UpstreamAddr)
	set(&config.UpstreamTenant, c.UpstreamTenant)
	set(&config.UpstreamToken, c.UpstreamToken)
	set(&config.AccessToken, c.AccessToken)
	set(&config.LogLevel, c.LogLevel)
	if c.UpstreamTimeout != nil {
		config.UpstreamTimeout = c.UpstreamTimeout.Duration
	}
}
