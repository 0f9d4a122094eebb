package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
	"github.com/dmitrijs2005/fieldsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields that are absent from the file leave the Config untouched.
type JsonConfig struct {
	ServerEndpointAddr  string          `json:"server_endpoint_addr"`
	Transport           string          `json:"transport"`
	Tenant              string          `json:"tenant"`
	AccessToken         string          `json:"access_token"`
	DatabasePath        string          `json:"database_path"`
	StoreBackend        string          `json:"store_backend"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ProbeAttempts       int             `json:"probe_attempts"`
	AutoSync            *bool           `json:"auto_sync"`
	InitialMode         string          `json:"initial_mode"`
	MirrorTimeout       *timex.Duration `json:"mirror_timeout"`
	PageSize            int             `json:"page_size"`
	LogLevel            string          `json:"log_level"`
	MetricsAddr         string          `json:"metrics_addr"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without the flag nothing happens. Read or unmarshal errors panic.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.Transport, jc.Transport)
	setString(&cfg.Tenant, jc.Tenant)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.InitialMode, jc.InitialMode)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.MirrorTimeout != nil {
		cfg.MirrorTimeout = jc.MirrorTimeout.Duration
	}
	if jc.ProbeAttempts != 0 {
		cfg.ProbeAttempts = jc.ProbeAttempts
	}
	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.AutoSync != nil {
		cfg.AutoSync = *jc.AutoSync
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
