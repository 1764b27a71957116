package config

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/observability"
)

// Validate reports values that cannot be used. Spacing values that are
// zero or negative are not errors; they fall back to defaults.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.New(errors.ErrCodeConfig, "invalid log_level %q", c.LogLevel)
	}
	if err := c.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "layout")
	}
	if err := errors.ValidateOneOf(errors.ErrCodeConfig, "cache.backend", c.Cache.Backend, Backends...); err != nil {
		return err
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.New(errors.ErrCodeConfig, "tracing.sample_rate must be between 0 and 1, got %v", c.Tracing.SampleRate)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeConfig, "server.max_body_bytes must not be negative")
	}
	c.Layout.SetDefaults()
	c.Route.SetDefaults()
	return nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Open creates the configured cache backend. Network backends are pinged
// before they are returned.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect redis at %s", c.RedisAddr)
		}
		return rc, nil
	case BackendMongo:
		mc, err := cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect mongo")
		}
		return mc, nil
	}

	dir := c.Dir
	if dir == "" {
		d, err := DefaultCacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCache, err, "open cache dir %s", dir)
	}
	return fc, nil
}

// Observability converts the section to tracing settings. The endpoint is
// dropped when tracing is disabled, which makes InitTracing a no-op.
func (c TracingConfig) Observability(version string) observability.TracingConfig {
	tc := observability.TracingConfig{
		ServiceName:    c.ServiceName,
		ServiceVersion: version,
		SampleRate:     c.SampleRate,
	}
	if c.Enabled {
		tc.OTLPEndpoint = c.OTLPEndpoint
	}
	return tc
}
