package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/stepflow/pkg/cache"
	"github.com/matzehuels/stepflow/pkg/errors"
	"github.com/matzehuels/stepflow/pkg/layout"
	"github.com/matzehuels/stepflow/pkg/route"
)

// chdir switches to a fresh temp dir so no stray stepflow.yaml is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
	if cfg.Route != route.DefaultConfig() {
		t.Errorf("Route = %+v, want defaults", cfg.Route)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Cache.Dir != filepath.Join("/tmp/xdg", "stepflow") {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != cache.TTLLayout {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, cache.TTLLayout)
	}
	if cfg.Server.Addr != DefaultAddr || cfg.Server.ReadTimeout != DefaultReadTimeout {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.File() != "" {
		t.Errorf("File() = %q, want none", cfg.File())
	}
	if cfg.Level() != log.InfoLevel {
		t.Errorf("Level() = %v, want info", cfg.Level())
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdir(t)
	writeFile(t, filepath.Join(dir, DefaultConfigFileName), `
log_level: debug
layout:
  strategy: linear
  inter_rank_gap: 100
route:
  arrow_size: 10
server:
  write_timeout: 1m
`)
	t.Setenv("STEPFLOW_LAYOUT__INTER_RANK_GAP", "120")
	t.Setenv("STEPFLOW_CACHE__BACKEND", "none")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("strategy", "", "")
	flags.String("output", "", "")
	if err := flags.Parse([]string{"--strategy", "layered", "--output", "x.svg"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.File() != DefaultConfigFileName {
		t.Errorf("File() = %q", cfg.File())
	}
	if cfg.Level() != log.DebugLevel {
		t.Errorf("Level() = %v, want debug from file", cfg.Level())
	}
	if cfg.Layout.Strategy != layout.StrategyLayered {
		t.Errorf("Strategy = %q, want flag value", cfg.Layout.Strategy)
	}
	if cfg.Layout.InterRankGap != 120 {
		t.Errorf("InterRankGap = %v, want env value", cfg.Layout.InterRankGap)
	}
	if cfg.Route.ArrowSize != 10 {
		t.Errorf("ArrowSize = %v, want file value", cfg.Route.ArrowSize)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("Backend = %q, want env value", cfg.Cache.Backend)
	}
	if cfg.Server.WriteTimeout != time.Minute {
		t.Errorf("WriteTimeout = %v, want 1m", cfg.Server.WriteTimeout)
	}
}

func TestLoad_UnchangedFlagsIgnored(t *testing.T) {
	chdir(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("strategy", "linear", "")
	_ = flags.Parse(nil)

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.Strategy != layout.StrategyAuto {
		t.Errorf("Strategy = %q, unset flag default leaked", cfg.Layout.Strategy)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "tracing:\n  enabled: true\n  otlp_endpoint: collector:4317\n")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	tc := cfg.Tracing.Observability("v1.0.0")
	if tc.OTLPEndpoint != "collector:4317" || tc.ServiceVersion != "v1.0.0" || tc.ServiceName != DefaultServiceName {
		t.Errorf("Observability() = %+v", tc)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil); !errors.Is(err, errors.ErrCodeConfig) {
		t.Errorf("Load(missing) = %v, want CONFIG error", err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"log level", map[string]string{"STEPFLOW_LOG_LEVEL": "loud"}},
		{"strategy", map[string]string{"STEPFLOW_LAYOUT__STRATEGY": "radial"}},
		{"backend", map[string]string{"STEPFLOW_CACHE__BACKEND": "memcached"}},
		{"sample rate", map[string]string{"STEPFLOW_TRACING__SAMPLE_RATE": "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load("", nil); !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("Load() = %v, want CONFIG error", err)
			}
		})
	}
}

func TestLoad_NonPositiveSpacingDefaults(t *testing.T) {
	chdir(t)
	t.Setenv("STEPFLOW_LAYOUT__INTRA_RANK_GAP", "-5")
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.IntraRankGap != layout.DefaultIntraRankGap {
		t.Errorf("IntraRankGap = %v, want default", cfg.Layout.IntraRankGap)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"STEPFLOW_LOG_LEVEL":              "log_level",
		"STEPFLOW_LAYOUT__INTER_RANK_GAP": "layout.inter_rank_gap",
		"STEPFLOW_CACHE__REDIS_ADDR":      "cache.redis_addr",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCacheConfigOpen(t *testing.T) {
	ctx := context.Background()

	c, err := CacheConfig{Backend: BackendNone}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(none) error = %v", err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("Open(none) = %T, want *cache.NullCache", c)
	}

	dir := t.TempDir()
	c, err = CacheConfig{Backend: BackendFile, Dir: dir}.Open(ctx)
	if err != nil {
		t.Fatalf("Open(file) error = %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("Open(file) = %T", c)
	}
}

func TestTracingDisabledDropsEndpoint(t *testing.T) {
	tc := TracingConfig{Enabled: false, OTLPEndpoint: "collector:4317"}.Observability("dev")
	if tc.OTLPEndpoint != "" {
		t.Errorf("OTLPEndpoint = %q, want empty when disabled", tc.OTLPEndpoint)
	}
}
