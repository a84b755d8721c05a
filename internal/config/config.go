package config

import (
	"fmt"
	"net"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/projectdiscovery/sentix/common/classifier"
	"github.com/projectdiscovery/sentix/common/dataset"
	"github.com/projectdiscovery/sentix/common/vectorizer"
)

const (
	DefaultListen  = "127.0.0.1:5000"
	DefaultThreads = 10

	// EnvDataset provides the corpus path when neither the file nor a flag sets it
	EnvDataset = "SENTIX_DATASET"
)

type Server struct {
	Listen    string `yaml:"listen"`
	CacheSize int    `yaml:"cache-size"`
}

type Dataset struct {
	// Path to a CSV corpus; empty selects the embedded sample corpus
	Path        string  `yaml:"path"`
	TextColumn  string  `yaml:"text-column"`
	LabelColumn string  `yaml:"label-column"`
	TestRatio   float64 `yaml:"test-ratio"`
	Seed        int64   `yaml:"seed"`
}

type Model struct {
	MaxFeatures int             `yaml:"max-features"`
	Alpha       float64         `yaml:"alpha"`
	Norm        vectorizer.Norm `yaml:"norm"`
	Stem        bool            `yaml:"stem"`
	Evaluate    bool            `yaml:"evaluate"`
	Threads     int             `yaml:"threads"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	Dataset Dataset `yaml:"dataset"`
	Model   Model   `yaml:"model"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

func (c *Config) ApplyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}

	if c.Dataset.Path == "" {
		c.Dataset.Path = os.Getenv(EnvDataset)
	}

	if c.Dataset.TextColumn == "" {
		c.Dataset.TextColumn = dataset.DefaultTextColumn
	}

	if c.Dataset.LabelColumn == "" {
		c.Dataset.LabelColumn = dataset.DefaultLabelColumn
	}

	if c.Dataset.TestRatio == 0 {
		c.Dataset.TestRatio = dataset.DefaultTestRatio
	}

	if c.Dataset.Seed == 0 {
		c.Dataset.Seed = dataset.DefaultSeed
	}

	if c.Model.MaxFeatures == 0 {
		c.Model.MaxFeatures = vectorizer.DefaultMaxFeatures
	}

	if c.Model.Alpha == 0 {
		c.Model.Alpha = classifier.DefaultAlpha
	}

	if c.Model.Norm == "" {
		c.Model.Norm = vectorizer.NormL2
	}

	if c.Model.Threads <= 0 {
		c.Model.Threads = DefaultThreads
	}
}

// Validate reports every invalid field at once
func (c *Config) Validate() error {
	var errs error

	if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid listen address %q: %w", c.Server.Listen, err))
	}

	if c.Server.CacheSize < 0 {
		errs = multierr.Append(errs, fmt.Errorf("cache size must not be negative: %d", c.Server.CacheSize))
	}

	if c.Dataset.TestRatio < 0 || c.Dataset.TestRatio >= 1 {
		errs = multierr.Append(errs, fmt.Errorf("test ratio must be in [0, 1): %v", c.Dataset.TestRatio))
	}

	if c.Model.MaxFeatures < 0 {
		errs = multierr.Append(errs, fmt.Errorf("max features must not be negative: %d", c.Model.MaxFeatures))
	}

	if c.Model.Alpha <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("alpha must be positive: %v", c.Model.Alpha))
	}

	if !c.Model.Norm.IsValid() {
		errs = multierr.Append(errs, fmt.Errorf("invalid norm: %s (supported: %v)", c.Model.Norm, []vectorizer.Norm{vectorizer.NormL2, vectorizer.NormNone}))
	}

	return errs
}

func LoadConfigFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
