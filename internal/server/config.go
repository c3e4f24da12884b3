package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pnwamk/cryptol/internal/config"
)

// Config is the server configuration file.
type Config struct {
	// Address to listen on, host:port.
	Address string `yaml:"address"`

	// Backend selects the value representation: "concrete" or
	// "symbolic". Defaults to concrete.
	Backend string `yaml:"backend"`

	// ModuleDir is the directory module files are loaded from. Defaults
	// to the working directory.
	ModuleDir string `yaml:"module_dir"`
}

// LoadConfig reads a YAML config file. A missing path yields defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if cfg.Address == "" {
		cfg.Address = config.DefaultServerAddress
	}
	if cfg.Backend == "" {
		cfg.Backend = config.ConcreteBackendName
	}
	if cfg.ModuleDir == "" {
		cfg.ModuleDir = "."
	}
	return cfg, nil
}
