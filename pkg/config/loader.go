package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stepflow/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "STEPFLOW_"

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are command options, not configuration.
var flagKeys = map[string]string{
	"log-level":     "log_level",
	"strategy":      "layout.strategy",
	"cache-backend": "cache.backend",
	"cache-dir":     "cache.dir",
	"cache-ttl":     "cache.ttl",
	"redis-addr":    "cache.redis_addr",
	"mongo-uri":     "cache.mongo_uri",
	"addr":          "server.addr",
	"tracing":       "tracing.enabled",
	"otlp-endpoint": "tracing.otlp_endpoint",
}

// findConfigFile returns the explicit path, or stepflow.yaml if it exists
// in the working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(DefaultConfigFileName); err == nil {
		return DefaultConfigFileName
	}
	return ""
}

// envKey turns STEPFLOW_LAYOUT__INTER_RANK_GAP into layout.inter_rank_gap.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Load reads configuration from defaults, the config file, environment and
// flags. Precedence (highest to lowest): flags > env vars > config file >
// defaults. An explicit path that does not exist is an error; a missing
// stepflow.yaml is not.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "load defaults")
	}

	// 2. Config file
	used := findConfigFile(path)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "read config file %s", used)
		}
	}

	// 3. Environment (STEPFLOW_ prefix, __ for nesting)
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "load env vars")
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "decode config")
	}
	cfg.file = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
