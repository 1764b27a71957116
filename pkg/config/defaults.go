package config

import (
	"os"
	"path/filepath"

	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/route"
)

const appName = "stepflow"

// DefaultCacheDir returns the cache directory using the XDG standard
// (~/.cache/stepflow/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// defaultMap returns the defaults as a flat koanf map.
func defaultMap() map[string]any {
	l := layout.DefaultConfig()
	r := route.DefaultConfig()
	dir, _ := DefaultCacheDir()

	return map[string]any{
		"log_level": DefaultLogLevel,

		"layout.strategy":        string(l.Strategy),
		"layout.inter_rank_gap":  l.InterRankGap,
		"layout.intra_rank_gap":  l.IntraRankGap,
		"layout.top_margin":      l.TopMargin,
		"layout.left_margin":     l.LeftMargin,
		"layout.linear_spacing":  l.LinearSpacing,
		"layout.ordering_passes": l.OrderingPasses,
		"layout.dummy_width":     l.DummyWidth,

		"route.arrow_size":     r.ArrowSize,
		"route.branch_stub":    r.BranchStub,
		"route.channel_offset": r.ChannelOffset,
		"route.lane_spacing":   r.LaneSpacing,

		"cache.backend":          BackendFile,
		"cache.dir":              dir,
		"cache.ttl":              cache.TTLLayout.String(),
		"cache.redis_addr":       DefaultRedisAddr,
		"cache.redis_db":         0,
		"cache.redis_prefix":     appName + ":",
		"cache.mongo_uri":        DefaultMongoURI,
		"cache.mongo_database":   cache.DefaultMongoDatabase,
		"cache.mongo_collection": cache.DefaultMongoCollection,

		"server.addr":           DefaultAddr,
		"server.read_timeout":   DefaultReadTimeout.String(),
		"server.write_timeout":  DefaultWriteTimeout.String(),
		"server.max_body_bytes": DefaultMaxBodyBytes,

		"tracing.enabled":      false,
		"tracing.service_name": DefaultServiceName,
		"tracing.sample_rate":  DefaultSampleRate,
	}
}
