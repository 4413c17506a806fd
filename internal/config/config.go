package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/imui/internal/errors"
	"github.com/vango-dev/imui/pkg/imui"
)

const (
	// ConfigFileName is the name of the configuration file written by
	// 'imui config --init'.
	ConfigFileName = "imui.json"

	// DefaultInspectAddress is the default inspector listen address.
	DefaultInspectAddress = "localhost:7070"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "imui"

	// DefaultTodoDB is the default todo demo database file.
	DefaultTodoDB = "todo.db"
)

// FileNames lists the configuration file names looked up in a directory,
// in order of preference.
var FileNames = []string{"imui.json", "imui.yaml", "imui.yml"}

// Config represents the complete imui configuration.
type Config struct {
	// Session configures reconciliation.
	Session SessionConfig `json:"session" yaml:"session"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Inspect configures the HTTP inspector.
	Inspect InspectConfig `json:"inspect" yaml:"inspect"`

	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Demo configures the bundled demo programs.
	Demo DemoConfig `json:"demo" yaml:"demo"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SessionConfig contains reconciliation settings.
type SessionConfig struct {
	// MaxDepth is the stack capacity, counting the root frame.
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`

	// Strategy is the sibling lookup strategy: scan, evict, index or auto.
	Strategy string `json:"strategy,omitempty" yaml:"strategy,omitempty"`

	// IndexThreshold is the container size at which auto switches to index.
	IndexThreshold int `json:"indexThreshold,omitempty" yaml:"indexThreshold,omitempty"`

	// Duplicates is the duplicate sibling ID policy: warn or reject.
	Duplicates string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled registers the session metrics.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Namespace is the metric name prefix.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// InspectConfig contains inspector settings.
type InspectConfig struct {
	// Enabled starts the inspector with 'imui run'.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Address is the listen address.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// DemoConfig contains demo program settings.
type DemoConfig struct {
	// TodoDB is the bbolt file backing the todo demo.
	TodoDB string `json:"todoDB,omitempty" yaml:"todoDB,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Session: SessionConfig{
			MaxDepth:       imui.DefaultMaxDepth,
			Strategy:       imui.StrategyScan.String(),
			IndexThreshold: imui.DefaultIndexThreshold,
			Duplicates:     imui.DuplicateWarn.String(),
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Inspect: InspectConfig{
			Address: DefaultInspectAddress,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Demo: DemoConfig{
			TodoDB: DefaultTodoDB,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for imui.json, imui.yaml and imui.yml in that order.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No imui.json or imui.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// SaveTo writes the configuration to the specified path, as YAML or JSON
// depending on its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E120").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
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
	// Session
	if c.Session.MaxDepth == 0 {
		c.Session.MaxDepth = imui.DefaultMaxDepth
	}
	if c.Session.Strategy == "" {
		c.Session.Strategy = imui.StrategyScan.String()
	}
	if c.Session.IndexThreshold == 0 {
		c.Session.IndexThreshold = imui.DefaultIndexThreshold
	}
	if c.Session.Duplicates == "" {
		c.Session.Duplicates = imui.DuplicateWarn.String()
	}

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Inspect.Address == "" {
		c.Inspect.Address = DefaultInspectAddress
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Demo.TodoDB == "" {
		c.Demo.TodoDB = DefaultTodoDB
	}
}

// TodoDBPath returns the todo database path, resolved against the
// directory of the config file.
func (c *Config) TodoDBPath() string {
	path := c.Demo.TodoDB
	if path == "" {
		path = DefaultTodoDB
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Session.MaxDepth < 1 {
		return errors.New("E122").
			WithDetail("session.maxDepth must be at least 1")
	}
	if c.Session.IndexThreshold < 1 {
		return errors.New("E122").
			WithDetail("session.indexThreshold must be at least 1")
	}
	if _, err := imui.ParseStrategy(c.Session.Strategy); err != nil {
		return errors.New("E122").
			WithDetail("session.strategy: " + err.Error()).
			WithSuggestion("Use one of scan, evict, index or auto")
	}
	if _, err := imui.ParseDuplicatePolicy(c.Session.Duplicates); err != nil {
		return errors.New("E122").
			WithDetail("session.duplicates: " + err.Error()).
			WithSuggestion("Use warn or reject")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("E122").
			WithDetail("log.level: " + err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E122").
			WithDetail("log.format must be text or json, got " + c.Log.Format)
	}
	return nil
}

// SessionOptions converts the session section into session options.
// The config must have been validated.
func (c *Config) SessionOptions() []imui.Option {
	strategy, _ := imui.ParseStrategy(c.Session.Strategy)
	duplicates, _ := imui.ParseDuplicatePolicy(c.Session.Duplicates)
	return []imui.Option{
		imui.WithMaxDepth(c.Session.MaxDepth),
		imui.WithStrategy(strategy),
		imui.WithIndexThreshold(c.Session.IndexThreshold),
		imui.WithDuplicatePolicy(duplicates),
	}
}

// LogLevel returns the configured slog level, or info when unset.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// Logger builds a logger writing to w in the configured format.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range FileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindRoot walks up directories to find one holding a config file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No imui.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding a config file.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
