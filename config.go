package ethsig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LogConfig selects the level and output format of the package loggers
type LogConfig struct {
	// Level is one of debug, info, warn or error
	Level string `toml:"level"`
	// Format is one of color, nocolor or json
	Format string `toml:"format"`
}

// Config holds the tunables of a Context
type Config struct {
	// HMAC names the HMAC-SHA256 provider, see LookupHMAC
	HMAC string `toml:"hmac"`
	// BaseWindow is the wNAF window of the generator table. The table is
	// built once per process, so only the first build picks the window.
	BaseWindow int `toml:"base_window"`
	// WarmBase builds the generator table when the Context is created
	WarmBase bool `toml:"warm_base"`

	Log LogConfig `toml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		HMAC:       HMACSimd,
		BaseWindow: DefaultBaseWindow,
		WarmBase:   true,
		Log: LogConfig{
			Level:  "info",
			Format: "color",
		},
	}
}

// Validate checks the configuration values
func (c Config) Validate() error {
	if !validWindow(c.BaseWindow) {
		return makeError(ErrInvalidConfig,
			fmt.Sprintf("base_window %d is not one of 1, 2, 4, 8", c.BaseWindow))
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return makeError(ErrInvalidConfig, "unknown log level "+c.Log.Level)
	}
	switch c.Log.Format {
	case "", "color", "nocolor", "json":
	default:
		return makeError(ErrInvalidConfig, "unknown log format "+c.Log.Format)
	}
	return nil
}

// ParseConfig decodes a TOML document on top of DefaultConfig and validates
// the result.
func ParseConfig(data string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, makeError(ErrInvalidConfig, "decode config: "+err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates the
// result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, makeError(ErrInvalidConfig, "load config "+path+": "+err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
