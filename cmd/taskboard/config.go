// Config loading for the taskboard CLI. Settings come from an optional
// config file and TASKBOARD_* environment variables, with the file taking
// precedence over defaults and the environment over both.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

const (
	configFileName = "taskboard"
	configFileType = "yaml"
	envPrefix      = "TASKBOARD"
)

// Defaults mirror the service's documented behavior: a 20-connection pool
// with a 2-second acquisition timeout.
const (
	defaultEnvironment = types.EnvDevelopment
	defaultPort        = 8080
	defaultDBPath      = "taskboard.db"
	defaultMaxConns    = 20
	defaultConnTimeout = 2 * time.Second
)

// loadConfig reads configuration via Viper. A missing config file is not an
// error; defaults and environment variables suffice.
func loadConfig(configFile string) (types.Config, error) {
	v := viper.New()
	v.SetDefault("environment", defaultEnvironment)
	v.SetDefault("port", defaultPort)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("max_conns", defaultMaxConns)
	v.SetDefault("conn_timeout", defaultConnTimeout)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
