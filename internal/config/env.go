package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// RuntimeEnv holds deployment settings read from the environment. They
// seed the defaults of the command-line flags in cmd/inky.
type RuntimeEnv struct {
	ConfigPath  string `env:"INKY_CONFIG" envDefault:"config/tuning.defaults.json"`
	TouchDevice string `env:"INKY_TOUCH_DEVICE" envDefault:"/dev/input/event2"`
	SerialPort  string `env:"INKY_SERIAL_PORT"`
	DBPath      string `env:"INKY_DB_PATH" envDefault:"inky.db"`
	Listen      string `env:"INKY_LISTEN"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadRuntimeEnv parses RuntimeEnv from the process environment.
func LoadRuntimeEnv() (RuntimeEnv, error) {
	var r RuntimeEnv
	if err := ParseEnv(&r); err != nil {
		return RuntimeEnv{}, err
	}
	return r, nil
}
