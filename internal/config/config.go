package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/element"
)

// File names searched by Find, in order.
var FileNames = []string{"livetree.json", "livetree.yaml", "livetree.yml"}

const (
	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = ":7070"

	// DefaultInspectInterval is the default demo tick of the inspect command.
	DefaultInspectInterval = "1s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "livetree"
)

// Config represents a livetree.json or livetree.yaml file.
type Config struct {
	// Log configures the slog logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Events adjusts the native event table.
	Events EventsConfig `json:"events" yaml:"events"`

	// Reconcile contains binding teardown settings.
	Reconcile ReconcileConfig `json:"reconcile" yaml:"reconcile"`

	// Inspect contains inspector server settings.
	Inspect InspectConfig `json:"inspect" yaml:"inspect"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json (default: text).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// EventsConfig adjusts the default native event table.
type EventsConfig struct {
	// Include adds event names to the table.
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`

	// Exclude removes event names from the table.
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// Passive marks additional event names as passive.
	Passive []string `json:"passive,omitempty" yaml:"passive,omitempty"`
}

// ReconcileConfig contains binding settings.
type ReconcileConfig struct {
	// DisposeOnRemove tears down bindings of nodes removed from a watched root.
	DisposeOnRemove bool `json:"disposeOnRemove,omitempty" yaml:"disposeOnRemove,omitempty"`
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Addr is the listen address (default: ":7070").
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Interval is the demo tick (e.g., "500ms").
	Interval string `json:"interval,omitempty" yaml:"interval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled registers the collectors.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace is the metrics namespace (default: "livetree").
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New creates a Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Find returns the first config file in dir or its parents, or "" when
// there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load finds and reads the configuration for dir. Without a config file it
// returns the defaults.
func Load(dir string) (*Config, error) {
	path := Find(dir)
	if path == "" {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. The format follows the
// extension: .yaml and .yml are YAML, anything else JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E201").
			Wrap(err).
			WithField("path", path).
			WithSuggestion("Check the --config flag or create livetree.json")
	}

	cfg := &Config{}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E202").
			Wrap(err).
			WithField("path", path).
			WithSuggestion("Check that " + filepath.Base(path) + " is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path in the format of its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E202").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E201").Wrap(err).WithField("path", path)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Inspect.Addr == "" {
		c.Inspect.Addr = DefaultInspectAddr
	}
	if c.Inspect.Interval == "" {
		c.Inspect.Interval = DefaultInspectInterval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E203").
			WithField("log.level", c.Log.Level).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E203").
			WithField("log.format", c.Log.Format).
			WithSuggestion("Use text or json")
	}
	if d, err := time.ParseDuration(c.Inspect.Interval); err != nil || d <= 0 {
		return errors.New("E203").
			WithField("inspect.interval", c.Inspect.Interval).
			WithSuggestion("Use a positive Go duration such as 500ms")
	}
	for _, group := range [][]string{c.Events.Include, c.Events.Exclude, c.Events.Passive} {
		for _, name := range group {
			if name == element.ReceiveEvent {
				return errors.New("E203").
					WithField("event", name).
					WithDetail("The receive channel is reserved and cannot be configured.")
			}
		}
	}
	return nil
}

// InspectInterval returns the parsed demo tick.
func (c *Config) InspectInterval() time.Duration {
	d, err := time.ParseDuration(c.Inspect.Interval)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultInspectInterval)
	}
	return d
}

// EventTable returns the default native event table with the configured
// inclusions, exclusions and passive flags applied.
func (c *Config) EventTable() []element.EventSpec {
	exclude := toSet(c.Events.Exclude)
	passive := toSet(c.Events.Passive)

	table := make([]element.EventSpec, 0, len(element.DefaultEventTable())+len(c.Events.Include))
	seen := make(map[string]bool)
	add := func(spec element.EventSpec) {
		if exclude[spec.Name] || seen[spec.Name] {
			return
		}
		seen[spec.Name] = true
		if passive[spec.Name] {
			spec.Passive = true
		}
		table = append(table, spec)
	}
	for _, spec := range element.DefaultEventTable() {
		add(spec)
	}
	for _, name := range c.Events.Include {
		add(element.EventSpec{Name: name, Passive: element.IsPassiveByDefault(name)})
	}
	return table
}

// GroupOptions turns the configuration into element options.
func (c *Config) GroupOptions() []element.Option {
	opts := []element.Option{element.WithEventTable(c.EventTable())}
	if c.Reconcile.DisposeOnRemove {
		opts = append(opts, element.WithDisposeOnRemove())
	}
	return opts
}

// Logger builds a slog logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
