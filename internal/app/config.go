package app

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/lowcode/compiler/gen"
)

// DefaultConfigFile is the configuration file read when none is given.
const DefaultConfigFile = "lowcode.yaml"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// Models are the .hcl files or directories holding them.
	Models []string `yaml:"models"`

	Target   string   `yaml:"target"`
	Package  string   `yaml:"package,omitempty"`
	Header   string   `yaml:"header,omitempty"`
	Workers  int      `yaml:"workers,omitempty"`
	Features []string `yaml:"features,omitempty"`

	LogLevel  string `yaml:"log_level,omitempty"`
	LogFormat string `yaml:"log_format,omitempty"`

	// Watch keeps the app running and rebuilds on model changes.
	Watch bool `yaml:"watch,omitempty"`
}

// LoadConfigFile reads a YAML configuration file. Unknown keys are errors.
// Relative model and target paths are relative to the file.
func LoadConfigFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i, m := range cfg.Models {
		cfg.Models[i] = relativeTo(dir, m)
	}
	if cfg.Target != "" {
		cfg.Target = relativeTo(dir, cfg.Target)
	}
	return &cfg, nil
}

func relativeTo(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Models) == 0 {
		return nil, errors.New("models is a required configuration field and cannot be empty")
	}
	if cfg.Target == "" {
		return nil, errors.New("target is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if _, err := cfg.genOptions(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// genOptions returns the generator options of the configuration.
func (c *Config) genOptions() ([]gen.Option, error) {
	opts := []gen.Option{gen.WithTarget(c.Target)}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	if len(c.Features) > 0 {
		opts = append(opts, gen.WithFeatureNames(c.Features...))
	}
	if _, err := gen.NewConfig(opts...); err != nil {
		return nil, err
	}
	return opts, nil
}
