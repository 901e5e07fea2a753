package gen

import (
	"errors"
	"runtime"
	"strings"
)

const defaultHeader = "Code generated by lowcode. DO NOT EDIT."

// Config holds the configuration of a generation run.
type Config struct {
	// Target is the directory generated packages are written to, one
	// sub-directory per module.
	Target string

	// Package is the import path of Target. Modules declared without an
	// explicit path are generated as Package/<module>.
	Package string

	// Header is the comment written at the top of every generated file.
	Header string

	// Workers bounds the number of files generated in parallel.
	Workers int

	// Features are the optional outputs enabled for the run.
	Features []Feature
}

// DefaultConfig returns a config with the default header and one worker per
// available CPU.
func DefaultConfig() *Config {
	return &Config{
		Header:  defaultHeader,
		Workers: runtime.GOMAXPROCS(0),
	}
}

// HasFeature reports if the feature is enabled, without validating its name.
func (c *Config) HasFeature(name string) bool {
	for _, f := range c.Features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Option configures code generation.
type Option func(*Config) error

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithPackage sets the import path of the output directory.
// For example: "github.com/org/project/model".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name, as read from configuration files
// and command line flags.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature; use one of: "+strings.Join(featureNames(), ", "))
			}
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// ApplyAll applies every option, including those following a failed one,
// and joins their errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config from the defaults and the given options.
// The target directory is required. Every invalid option is reported.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	if c.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
