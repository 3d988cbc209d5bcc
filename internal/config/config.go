package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPort is used when neither PORT nor the config file set one
	DefaultPort = 8080

	// UndefinedSecret is rendered in place of an unset secret
	UndefinedSecret = "undefined"
)

var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Config holds the server configuration
type Config struct {
	// Server settings
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// SecretVariable is nil when SECRET_VARIABLE is unset
	SecretVariable *string `yaml:"-"` // Never serialize secret

	ConfigFile string `yaml:"-"`
}

// Load loads the configuration from the optional config file and environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:       DefaultPort,
		LogLevel:   zerolog.LevelInfoValue,
		ConfigFile: os.Getenv("CONFIG_FILE"),
	}

	if cfg.ConfigFile != "" {
		if err := cfg.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfg.ConfigFile, err)
		}
	}

	// Environment overrides the file
	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := ParsePort(portStr)
		if err != nil {
			return nil, err
		}
		cfg.Port = port
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if secret, ok := os.LookupEnv("SECRET_VARIABLE"); ok {
		cfg.SecretVariable = &secret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads configuration from the config file. A missing file is not an error.
func (c *Config) loadFromFile() error {
	data, err := os.ReadFile(c.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	var fileCfg struct {
		Port     *int   `yaml:"port"`
		LogLevel string `yaml:"log_level"`
	}

	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return err
	}

	if fileCfg.Port != nil {
		c.Port = *fileCfg.Port
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}

	return nil
}

// ParsePort parses a decimal port number. Integral decimals such as "9090.0" are accepted.
func ParsePort(s string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidPort, s)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPort, s)
	}
	if f < 0 || f > 65535 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidPort, s)
	}
	return int(f), nil
}

// Validate checks values that may have come from the config file or a flag
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d is out of range", ErrInvalidPort, c.Port)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the parsed zerolog level
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	return level, nil
}

// SecretText returns the secret verbatim, or UndefinedSecret when it was never set
func (c *Config) SecretText() string {
	if c.SecretVariable == nil {
		return UndefinedSecret
	}
	return *c.SecretVariable
}
