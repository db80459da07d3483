package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"sparsempt/internal/log"
)

// config represents the raw YAML structure of the oracle config file.
type config struct {
	Network string    `yaml:"network"`
	RPCURL  string    `yaml:"rpc_url"`
	Targets []*target `yaml:"targets"`
}

// target represents a raw YAML target account entry.
type target struct {
	Address string `yaml:"address"`
	Slot    string `yaml:"slot"`
}

// Loader reads and validates the oracle config file.
type Loader struct {
	log log.Logger
}

// NewLoader creates a new config Loader with the specified logging
// context attached.
func NewLoader(log log.Logger) *Loader {
	return &Loader{
		log: log.With("component", "config-loader"),
	}
}

// Load reads, validates and parses the config file at the specified
// path.
func (l *Loader) Load(path string) (*OracleConfig, error) {
	l.log.Info("load config", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw config
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err = newValidator(l.log).validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	parsed, err := newParser(l.log).parse(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return parsed, nil
}
