package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is the config file picked up from the working directory
const DefaultFile = "dotlite.toml"

// EnvPrefix prefixes environment overrides, e.g. DOTLITE_PORT=9090
const EnvPrefix = "DOTLITE_"

// Config holds all configuration for the application
type Config struct {
	Dir        string `koanf:"dir"`
	Port       int    `koanf:"port"`
	Watch      bool   `koanf:"watch"`
	Workers    int    `koanf:"workers"`
	JSON       bool   `koanf:"json"`
	Iterations int    `koanf:"iterations"`
	Verbosity  string `koanf:"verbosity"`
	VerboseCnt int    `koanf:"verbose"`
	LogJSON    bool   `koanf:"log-json"`
}

// Defaults returns the built-in configuration values
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"dir":        ".",
		"port":       8080,
		"watch":      false,
		"workers":    0,
		"json":       false,
		"iterations": 100,
		"verbosity":  "",
		"verbose":    0,
		"log-json":   false,
	}
}

// Load loads configuration from defaults, dotlite.toml, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	return load(DefaultFile, false, f)
}

// LoadFile is like Load but reads an explicit config file, which must exist
func LoadFile(path string, f *pflag.FlagSet) (*Config, error) {
	return load(path, true, f)
}

func load(path string, required bool, f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if required || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	// 3. Environment variables, DOTLITE_LOG_JSON -> log-json
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
