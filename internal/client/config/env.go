package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/fieldsync/internal/flagx"
)

const envPrefix = "FIELDSYNC_"

const defaultEnvFile = ".env"

// parseEnv overlays cfg with FIELDSYNC_* variables. Values come from the
// dotenv file named by -e/-env-file (or ./.env when present) and from
// lookup; lookup wins over the file.
func parseEnv(cfg *Config, args []string, lookup func(string) (string, bool)) error {
	file := flagx.EnvFileFlags(args)
	explicit := file != ""
	if !explicit {
		file = defaultEnvFile
	}

	fileVars, err := godotenv.Read(file)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", file, err)
		}
		fileVars = map[string]string{}
	}

	get := func(key string) (string, bool) {
		if v, ok := lookup(envPrefix + key); ok {
			return v, true
		}
		v, ok := fileVars[envPrefix+key]
		return v, ok
	}

	strs := map[string]*string{
		"SERVER_ADDR":   &cfg.ServerEndpointAddr,
		"TRANSPORT":     &cfg.Transport,
		"TENANT":        &cfg.Tenant,
		"ACCESS_TOKEN":  &cfg.AccessToken,
		"DATABASE_PATH": &cfg.DatabasePath,
		"STORE_BACKEND": &cfg.StoreBackend,
		"INITIAL_MODE":  &cfg.InitialMode,
		"LOG_LEVEL":     &cfg.LogLevel,
		"METRICS_ADDR":  &cfg.MetricsAddr,
	}
	for key, dst := range strs {
		if v, ok := get(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"ONLINE_CHECK_INTERVAL": &cfg.OnlineCheckInterval,
		"MIRROR_TIMEOUT":        &cfg.MirrorTimeout,
	}
	for key, dst := range durations {
		if v, ok := get(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"PROBE_ATTEMPTS": &cfg.ProbeAttempts,
		"PAGE_SIZE":      &cfg.PageSize,
	}
	for key, dst := range ints {
		if v, ok := get(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	if v, ok := get("AUTO_SYNC"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sAUTO_SYNC: %w", envPrefix, err)
		}
		cfg.AutoSync = b
	}

	return nil
}
