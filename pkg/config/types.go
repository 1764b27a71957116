// Package config loads stepflow configuration.
//
// Values are layered, lowest precedence first:
//
//  1. compiled-in defaults
//  2. a YAML file (stepflow.yaml in the working directory, or --config)
//  3. environment variables with the STEPFLOW_ prefix, where a double
//     underscore separates nesting levels (STEPFLOW_LAYOUT__INTER_RANK_GAP)
//  4. command-line flags that were explicitly set
//
// Layout and route spacing are configuration only. Nothing in the engine
// derives them from content.
package config

import (
	"time"

	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/route"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Backends lists the accepted cache backend names.
var Backends = []string{BackendFile, BackendRedis, BackendMongo, BackendNone}

// Defaults for the non-engine sections.
const (
	DefaultLogLevel       = "info"
	DefaultAddr           = ":8080"
	DefaultReadTimeout    = 10 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxBodyBytes   = 1 << 20
	DefaultServiceName    = "stepflow"
	DefaultSampleRate     = 1.0
	DefaultRedisAddr      = "localhost:6379"
	DefaultMongoURI       = "mongodb://localhost:27017"
	DefaultConfigFileName = "stepflow.yaml"
)

// Config holds all stepflow configuration.
type Config struct {
	LogLevel string        `koanf:"log_level"`
	Layout   layout.Config `koanf:"layout"`
	Route    route.Config  `koanf:"route"`
	Cache    CacheConfig   `koanf:"cache"`
	Server   ServerConfig  `koanf:"server"`
	Tracing  TracingConfig `koanf:"tracing"`

	file string
}

// File returns the config file that was read, or "" if none was.
func (c *Config) File() string { return c.file }

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend         string        `koanf:"backend"`
	Dir             string        `koanf:"dir"`
	TTL             time.Duration `koanf:"ttl"`
	RedisAddr       string        `koanf:"redis_addr"`
	RedisPassword   string        `koanf:"redis_password"`
	RedisDB         int           `koanf:"redis_db"`
	RedisPrefix     string        `koanf:"redis_prefix"`
	MongoURI        string        `koanf:"mongo_uri"`
	MongoDatabase   string        `koanf:"mongo_database"`
	MongoCollection string        `koanf:"mongo_collection"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
}

// TracingConfig configures OpenTelemetry export.
type TracingConfig struct {
	Enabled      bool    `koanf:"enabled"`
	ServiceName  string  `koanf:"service_name"`
	OTLPEndpoint string  `koanf:"otlp_endpoint"`
	SampleRate   float64 `koanf:"sample_rate"`
}
