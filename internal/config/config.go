// Package config holds the sim8086 settings shared by every output mode.
//
// Precedence, lowest first: defaults, JSON config file, environment,
// command line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Config represents configuration for the sim8086 tool
type Config struct {
	Debug     bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
	NoColor   bool   `json:"noColor" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	Lowercase bool   `json:"lowercase" jsonschema:"title=Lowercase,description=Print mnemonics and registers in lower case"`
	ShowBytes bool   `json:"showBytes" jsonschema:"title=Show Bytes,description=Annotate every line with its offset and encoding"`
	Header    bool   `json:"header" jsonschema:"title=Header,description=Start listings with a bits 16 directive,default=true"`
	LogLevel  string `json:"logLevel,omitempty" jsonschema:"title=Log Level,enum=debug,enum=info,enum=warn,enum=error"`
}

// Default returns the built in settings.
func Default() Config {
	return Config{Header: true, LogLevel: "info"}
}

// Load reads a JSON config file over the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SIM8086_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SIM8086_NO_COLOR"); v != "" {
		c.NoColor = true
	}
	if v := os.Getenv("SIM8086_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v, err := strconv.ParseBool(os.Getenv("SIM8086_DEBUG")); err == nil {
		c.Debug = v
	}
	if c.Debug {
		c.LogLevel = "debug"
	}
}

// Validate checks values the JSON decoder can't.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
		return nil
	}
	return errors.New("logLevel must be one of debug, info, warn, error")
}
