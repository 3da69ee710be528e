package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ufloat/internal/catalog"
	"github.com/san-kum/ufloat/internal/storage"
)

const (
	DefaultDataDir     = "data"
	DefaultPrecision   = 6
	DefaultPlotHeight  = 15
	DefaultPlotWidth   = 70
	DefaultHistorySize = 100
)

type Config struct {
	DataDir   string              `yaml:"data_dir"`
	Backend   storage.Backend     `yaml:"backend"`
	Precision int                 `yaml:"precision"`
	History   int                 `yaml:"history"`
	Plot      PlotConfig          `yaml:"plot"`
	Units     catalog.Definitions `yaml:"units,omitempty"`
}

type PlotConfig struct {
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		Backend:   storage.BackendFile,
		Precision: DefaultPrecision,
		History:   DefaultHistorySize,
		Plot: PlotConfig{
			Height: DefaultPlotHeight,
			Width:  DefaultPlotWidth,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Catalog returns the built-in catalog extended with the configured units.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	if err := cat.Apply(c.Units); err != nil {
		return nil, err
	}
	return cat, nil
}

// StorePath is where the configured backend keeps its data.
func (c *Config) StorePath() string {
	if c.Backend == storage.BackendBolt {
		return filepath.Join(c.DataDir, "ufloat.db")
	}
	return c.DataDir
}
