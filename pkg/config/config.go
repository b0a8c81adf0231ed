// Package config provides configuration loading for the converter.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the file or a field is absent.
const (
	DefaultMaxRoutingDepth = 1
	DefaultFlowsDir        = "flows"
	DefaultAPIPort         = 9090
	DefaultOpenAIKeyEnv    = "OPENAI_API_KEY"
)

// Config is the converter configuration file.
type Config struct {
	TemplateFlowPath string `yaml:"template_flow"`
	GateTemplatePath string `yaml:"gate_template"`
	MaxRoutingDepth  int    `yaml:"max_routing_depth"`
	FlowsDir         string `yaml:"flows_dir"`
	APIPort          int    `yaml:"api_port"`
	OpenAIKeyEnv     string `yaml:"openai_key_env"`
	LogLevel         string `yaml:"log_level"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		MaxRoutingDepth: DefaultMaxRoutingDepth,
		FlowsDir:        DefaultFlowsDir,
		APIPort:         DefaultAPIPort,
		OpenAIKeyEnv:    DefaultOpenAIKeyEnv,
		LogLevel:        "info",
	}
}

// Load reads a YAML configuration file and fills unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	if c.MaxRoutingDepth <= 0 {
		c.MaxRoutingDepth = DefaultMaxRoutingDepth
	}

	if c.FlowsDir == "" {
		c.FlowsDir = DefaultFlowsDir
	}

	if c.APIPort == 0 {
		c.APIPort = DefaultAPIPort
	}

	if c.OpenAIKeyEnv == "" {
		c.OpenAIKeyEnv = DefaultOpenAIKeyEnv
	}

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return c
}

// APIKey resolves the model credential from the configured environment
// variable. Empty when unset: keys are never stored in the file itself.
func (c Config) APIKey() string {
	return os.Getenv(c.OpenAIKeyEnv)
}
