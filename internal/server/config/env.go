package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays VALIDO_* environment variables onto the Config via the
// struct's env tags. Unset variables leave the current values untouched.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
