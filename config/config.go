// This file contains YAML configuration loading, grounded in the
// gopkg.in/yaml.v3 usage seen across the retrieval pack's CLI commands:
// a plain struct with `yaml:"..."` tags, loaded once at startup by
// cmd/tradecenterd. Fields absent from the file keep their Default values;
// no command-line flag overrides them.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the local trainer's identity and the adapters' settings.
type Config struct {
	Trainer struct {
		ID   uint16 `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"trainer"`

	Storage struct {
		Capacity int  `yaml:"capacity"`
		Evict    bool `yaml:"evict"`
	} `yaml:"storage"`

	Telemetry struct {
		Addr string `yaml:"addr"`
	} `yaml:"telemetry"`
}

// Default returns a Config with sane starting values, used when no config
// file is supplied.
func Default() *Config {
	c := &Config{}
	c.Trainer.ID = 1
	c.Trainer.Name = "RED"
	c.Storage.Capacity = 64
	c.Storage.Evict = false
	c.Telemetry.Addr = "127.0.0.1:8765"
	return c
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	c := Default()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return c, nil
}
