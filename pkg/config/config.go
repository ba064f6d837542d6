// Package config loads flowbench settings from flowbench.toml or
// flowbench.yaml.
//
// Every field has a default, so a missing config file is not an error. CLI
// flags override loaded values; the CLI applies them after [Load] and calls
// [Config.Validate] again.
//
//	# flowbench.toml
//	examples = "grid/examples.json"
//	output = "svgs"
//	backends = ["graphviz", "d2", "elk"]
//
//	[render]
//	direction = "RIGHT"
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[styles.d2.decision]
//	fill = "#FFA500"
package config

import (
	"time"

	"github.com/matzehuels/flowbench/pkg/render"
	"github.com/matzehuels/flowbench/pkg/retry"
)

// Default file names probed by [Find], in order.
var FileNames = []string{"flowbench.toml", "flowbench.yaml", "flowbench.yml"}

// Config is the root of a flowbench configuration file.
type Config struct {
	// Examples is the example collection to render.
	Examples string `toml:"examples" yaml:"examples" validate:"required"`
	// Output is the root under which each backend gets its directory.
	Output string `toml:"output" yaml:"output" validate:"required"`
	// Backends selects the comparison targets.
	Backends []string `toml:"backends" yaml:"backends" validate:"min=1,dive,backend"`
	// Concurrency bounds the render worker pool.
	Concurrency int `toml:"concurrency" yaml:"concurrency" validate:"gte=1,lte=64"`
	// CasesFrom optionally names a directory of reference *.svg files whose
	// stems select the cases to render.
	CasesFrom string `toml:"cases_from" yaml:"cases_from"`
	// ViewerConfig is the comparison viewer's config.json.
	ViewerConfig string `toml:"viewer_config" yaml:"viewer_config" validate:"required"`

	Render RenderConfig `toml:"render" yaml:"render"`
	Retry  RetryConfig  `toml:"retry" yaml:"retry"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Serve  ServeConfig  `toml:"serve" yaml:"serve"`

	// Styles holds partial style overrides keyed by format, then node type.
	Styles map[string]map[string]StyleOverride `toml:"styles" yaml:"styles"`
}

// RenderConfig configures converters and backends.
type RenderConfig struct {
	// Direction is the ELK flow direction.
	Direction string `toml:"direction" yaml:"direction" validate:"oneof=DOWN UP RIGHT LEFT"`
	// MergeEdges lets ELK bundle edges that share an endpoint.
	MergeEdges bool `toml:"merge_edges" yaml:"merge_edges"`
	// OmitEdgeLabels drops D2 edge labels for parity with older output.
	OmitEdgeLabels bool `toml:"omit_edge_labels" yaml:"omit_edge_labels"`
	// PNG rasterizes SVG artifacts with rsvg-convert.
	PNG   bool    `toml:"png" yaml:"png"`
	Scale float64 `toml:"scale" yaml:"scale" validate:"gt=0,lte=10"`

	D2Binary string `toml:"d2_binary" yaml:"d2_binary"`
	Chrome   string `toml:"chrome" yaml:"chrome"`

	Canvas  CanvasConfig  `toml:"canvas" yaml:"canvas"`
	Breaker BreakerConfig `toml:"breaker" yaml:"breaker"`
}

// CanvasConfig sizes the canvas and browser images.
type CanvasConfig struct {
	Width  int `toml:"width" yaml:"width" validate:"gte=100,lte=10000"`
	Height int `toml:"height" yaml:"height" validate:"gte=100,lte=10000"`
}

// BreakerConfig configures the circuit breaker around external tools.
type BreakerConfig struct {
	Failures uint32        `toml:"failures" yaml:"failures" validate:"gte=1"`
	Cooldown time.Duration `toml:"cooldown" yaml:"cooldown" validate:"gt=0"`
}

// RetryConfig configures headless page-load retries.
type RetryConfig struct {
	Attempts int           `toml:"attempts" yaml:"attempts" validate:"gte=1,lte=10"`
	Delay    time.Duration `toml:"delay" yaml:"delay" validate:"gte=0"`
	Timeout  time.Duration `toml:"timeout" yaml:"timeout" validate:"gt=0"`
}

// Policy returns the retry policy.
func (r RetryConfig) Policy() retry.Policy {
	return retry.Policy{Attempts: r.Attempts, Delay: r.Delay, Timeout: r.Timeout}
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// CacheConfig configures the artifact cache.
type CacheConfig struct {
	Backend string `toml:"backend" yaml:"backend" validate:"oneof=file redis none"`
	// Dir is the file cache root. Empty uses the user cache directory.
	Dir string        `toml:"dir" yaml:"dir"`
	TTL time.Duration `toml:"ttl" yaml:"ttl" validate:"gte=0"`

	Redis RedisConfig `toml:"redis" yaml:"redis"`
}

// RedisConfig locates the shared cache.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr" validate:"required_if=Enabled true"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db" validate:"gte=0,lte=15"`
	Prefix   string `toml:"prefix" yaml:"prefix"`

	// Enabled is set by ApplyDefaults when the redis backend is selected.
	Enabled bool `toml:"-" yaml:"-"`
}

// ServeConfig configures the playground host.
type ServeConfig struct {
	Addr string `toml:"addr" yaml:"addr" validate:"required,hostname_port"`
	// Dataset is the playground's initial dataset.
	Dataset string `toml:"dataset" yaml:"dataset"`
	// Layout is the playground's initial layout preset.
	Layout string `toml:"layout" yaml:"layout"`
}

// StyleOverride is a partial node style. Empty fields keep the built-in
// value.
type StyleOverride struct {
	Shape       string  `toml:"shape" yaml:"shape"`
	Fill        string  `toml:"fill" yaml:"fill" validate:"omitempty,hexcolor"`
	Stroke      string  `toml:"stroke" yaml:"stroke" validate:"omitempty,hexcolor"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width" validate:"gte=0"`
}

// Default returns a config with every default applied.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Examples == "" {
		c.Examples = "grid/examples.json"
	}
	if c.Output == "" {
		c.Output = "svgs"
	}
	if len(c.Backends) == 0 {
		c.Backends = append([]string(nil), render.Backends...)
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.ViewerConfig == "" {
		c.ViewerConfig = "config.json"
	}

	if c.Render.Direction == "" {
		c.Render.Direction = "DOWN"
	}
	if c.Render.Scale == 0 {
		c.Render.Scale = 1
	}
	if c.Render.Canvas.Width == 0 {
		c.Render.Canvas.Width = 1200
	}
	if c.Render.Canvas.Height == 0 {
		c.Render.Canvas.Height = 800
	}
	if c.Render.Breaker.Failures == 0 {
		c.Render.Breaker.Failures = 5
	}
	if c.Render.Breaker.Cooldown == 0 {
		c.Render.Breaker.Cooldown = 60 * time.Second
	}

	def := retry.Default()
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = def.Attempts
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = def.Delay
	}
	if c.Retry.Timeout == 0 {
		c.Retry.Timeout = def.Timeout
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	c.Cache.Redis.Enabled = c.Cache.Backend == CacheRedis

	if c.Serve.Addr == "" {
		c.Serve.Addr = "127.0.0.1:8080"
	}
	if c.Serve.Dataset == "" {
		c.Serve.Dataset = "workflow"
	}
	if c.Serve.Layout == "" {
		c.Serve.Layout = "dagre"
	}
}
