package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/vdom"
)

const (
	// BaseName is the configuration file name without extension.
	BaseName = "reconcile"

	// DefaultMirrorAddr is the default listen address for `reconcile serve`.
	DefaultMirrorAddr = ":8080"

	// DefaultInterval is the default delay between scenario steps when serving.
	DefaultInterval = "1s"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reconcile"

	// DefaultMetricsPath is the default path of the metrics endpoint.
	DefaultMetricsPath = "/metrics"
)

// Extensions lists the supported file extensions in lookup order.
var Extensions = []string{".json", ".toml", ".yaml", ".yml"}

// Config is the complete reconcile configuration.
type Config struct {
	// Strategy selects the keyed diff: "lis" or "forward".
	Strategy string `json:"strategy,omitempty" toml:"strategy" yaml:"strategy,omitempty"`

	// StrictKeys fails renders on duplicate sibling keys.
	StrictKeys bool `json:"strictKeys,omitempty" toml:"strict_keys" yaml:"strictKeys,omitempty"`

	// MaxDepth bounds tree depth. Zero means the engine default.
	MaxDepth int `json:"maxDepth,omitempty" toml:"max_depth" yaml:"maxDepth,omitempty"`

	Log      LogConfig      `json:"log" toml:"log" yaml:"log"`
	Mirror   MirrorConfig   `json:"mirror" toml:"mirror" yaml:"mirror"`
	Metrics  MetricsConfig  `json:"metrics" toml:"metrics" yaml:"metrics"`
	Snapshot SnapshotConfig `json:"snapshot" toml:"snapshot" yaml:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" toml:"level" yaml:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" toml:"format" yaml:"format,omitempty"`
}

// MirrorConfig configures `reconcile serve`.
type MirrorConfig struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr,omitempty" toml:"addr" yaml:"addr,omitempty"`

	// Interval is the delay between scenario steps, as a Go duration.
	Interval string `json:"interval,omitempty" toml:"interval" yaml:"interval,omitempty"`

	// AllowedOrigins restricts websocket origins. Empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" toml:"allowed_origins" yaml:"allowedOrigins,omitempty"`
}

// MetricsConfig configures Prometheus instrumentation.
type MetricsConfig struct {
	Namespace string `json:"namespace,omitempty" toml:"namespace" yaml:"namespace,omitempty"`
	Path      string `json:"path,omitempty" toml:"path" yaml:"path,omitempty"`
}

// SnapshotConfig configures where rendered HTML snapshots are written.
type SnapshotConfig struct {
	// Dir is a local directory for snapshots.
	Dir string `json:"dir,omitempty" toml:"dir" yaml:"dir,omitempty"`

	// S3 takes precedence over Dir when a bucket is set.
	S3 S3Config `json:"s3" toml:"s3" yaml:"s3"`
}

// S3Config locates an S3 snapshot store.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" toml:"bucket" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" toml:"prefix" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" toml:"region" yaml:"region,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Strategy: vdom.StrategyLIS.String(),
		MaxDepth: vdom.DefaultMaxDepth,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Mirror: MirrorConfig{
			Addr:     DefaultMirrorAddr,
			Interval: DefaultInterval,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
			Path:      DefaultMetricsPath,
		},
	}
}

// Find returns the first configuration file present in dir, or "" if none.
func Find(dir string) string {
	for _, ext := range Extensions {
		path := filepath.Join(dir, BaseName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Exists reports whether dir contains a configuration file.
func Exists(dir string) bool {
	return Find(dir) != ""
}

// Load loads the configuration file in dir. When dir has none, the
// defaults are returned.
func Load(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile loads the configuration at path, choosing the decoder from its
// extension, and validates the result.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E201").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := New()
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, errors.New("E202").
			WithDetailf("%s has extension %q", filepath.Base(path), ext)
	}
	if err != nil {
		return nil, errors.New("E201").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the path the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in values an explicit empty string cleared.
func (c *Config) applyDefaults() {
	d := New()
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = d.MaxDepth
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Mirror.Addr == "" {
		c.Mirror.Addr = d.Mirror.Addr
	}
	if c.Mirror.Interval == "" {
		c.Mirror.Interval = d.Mirror.Interval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = d.Metrics.Namespace
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := vdom.ParseStrategy(c.Strategy); err != nil {
		return errors.New("E201").
			WithDetailf("Unknown strategy %q", c.Strategy).
			WithSuggestion("Use \"lis\" or \"forward\".")
	}
	if c.MaxDepth < 0 {
		return errors.New("E201").
			WithDetailf("maxDepth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return errors.New("E201").
			WithDetailf("Unknown log level %q", c.Log.Level).
			WithSuggestion("Use debug, info, warn or error.")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E201").
			WithDetailf("Unknown log format %q", c.Log.Format).
			WithSuggestion("Use \"text\" or \"json\".")
	}
	if d, err := c.Mirror.StepInterval(); err != nil || d <= 0 {
		return errors.New("E201").
			WithDetailf("mirror.interval must be a positive duration, got %q", c.Mirror.Interval)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E201").
			WithDetailf("metrics.path must start with /, got %q", c.Metrics.Path)
	}
	return nil
}

// ToOptions maps the engine settings to vdom options.
func (c *Config) ToOptions(logger *slog.Logger) vdom.Options {
	strategy, _ := vdom.ParseStrategy(c.Strategy)
	return vdom.Options{
		Strategy:   strategy,
		StrictKeys: c.StrictKeys,
		MaxDepth:   c.MaxDepth,
		Logger:     logger,
	}
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}

// StepInterval parses Interval.
func (m MirrorConfig) StepInterval() (time.Duration, error) {
	return time.ParseDuration(m.Interval)
}

// CheckOrigin returns a websocket origin check for AllowedOrigins, or nil
// to accept every origin.
func (m MirrorConfig) CheckOrigin() func(r *http.Request) bool {
	if len(m.AllowedOrigins) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(m.AllowedOrigins))
	for _, o := range m.AllowedOrigins {
		allowed[strings.TrimSuffix(o, "/")] = true
	}
	return func(r *http.Request) bool {
		return allowed[strings.TrimSuffix(r.Header.Get("Origin"), "/")]
	}
}
