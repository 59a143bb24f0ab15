package config

import (
	"maplemetrics/core"

	configutil "github.com/fox-one/pkg/config"
)

// Load load config file
func Load(configFile string, config *core.Config) error {
	configutil.AutomaticLoadEnv("MAPLE")
	if err := configutil.LoadYaml(configFile, config); err != nil {
		return err
	}

	return config.Validate()
}
