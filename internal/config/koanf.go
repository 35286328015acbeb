package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	// ENV_PREFIX marks the environment variables read by Load
	ENV_PREFIX = "LUMEN_"

	// ConfigPathEnvVar names a YAML file to load
	ConfigPathEnvVar = ENV_PREFIX + "CONFIG"
)

// DefaultConfigPaths are searched in order when ConfigPathEnvVar is unset
var DefaultConfigPaths = []string{
	"lumen.yaml",
	"config/lumen.yaml",
}

// Load reads configuration in three layers, later layers winning:
//  1. built-in defaults
//  2. the YAML file named by LUMEN_CONFIG or found in DefaultConfigPaths
//  3. LUMEN_* environment variables
func Load() (*Config, error) {
	return LoadFile(findConfigFile())
}

// LoadFile is Load with an explicit YAML path; an empty path skips the file layer
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, errors.Wrap(err, "load defaults")
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	// LUMEN_GLOBAL_PATH -> global_path
	// LUMEN_LOGGERS__DB__MODE -> loggers.db.mode
	if err := k.Load(env.Provider(ENV_PREFIX, ".", envTransformFunc), nil); err != nil {
		return nil, errors.Wrap(err, "load environment variables")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// envTransformFunc maps LUMEN_A__B_C to a.b_c; unrelated variables are skipped
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar || !strings.HasPrefix(key, ENV_PREFIX) {
		return ""
	}
	key = strings.ToLower(strings.TrimPrefix(key, ENV_PREFIX))
	return strings.ReplaceAll(key, "__", ".")
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
