package main

import (
	logging "github.com/ipfs/go-log/v2"
	"github.com/pkg/errors"

	"ethsig.mleku.dev"
)

var log = logging.Logger("ethsig/cli")

// loadConfig returns the defaults when path is empty, otherwise the TOML file
// at path layered over the defaults.
func loadConfig(path string) (ethsig.Config, error) {
	if path == "" {
		return ethsig.DefaultConfig(), nil
	}
	cfg, err := ethsig.LoadConfig(path)
	if err != nil {
		return ethsig.Config{}, errors.WithMessage(err, "config")
	}
	return cfg, nil
}

// setupLogging applies the [log] section of the configuration
func setupLogging(cfg ethsig.LogConfig) error {
	level := logging.LevelInfo
	if cfg.Level != "" {
		lvl, err := logging.LevelFromString(cfg.Level)
		if err != nil {
			return errors.Wrapf(err, "log level %q", cfg.Level)
		}
		level = lvl
	}
	format := logging.ColorizedOutput
	switch cfg.Format {
	case "nocolor":
		format = logging.PlaintextOutput
	case "json":
		format = logging.JSONOutput
	}
	logging.SetupLogging(logging.Config{
		Format: format,
		Stderr: true,
		Level:  level,
	})
	return nil
}
