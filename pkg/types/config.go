package types

import (
	"errors"
	"time"
)

// Recognized environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config validation errors.
var (
	ErrEnvironmentUnknown = errors.New("unknown environment")
	ErrPortInvalid        = errors.New("port must be between 1 and 65535")
	ErrDBPathEmpty        = errors.New("db path must not be empty")
	ErrMaxConnsInvalid    = errors.New("max connections must be positive")
	ErrConnTimeoutInvalid = errors.New("connection timeout must be positive")
)

// Config holds service parameters. Loaded by the CLI via Viper and passed to
// the store and HTTP server at construction.
type Config struct {
	Environment string        `json:"environment" yaml:"environment" mapstructure:"environment"`
	Port        int           `json:"port" yaml:"port" mapstructure:"port"`
	DBPath      string        `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
	MaxConns    int           `json:"max_conns" yaml:"max_conns" mapstructure:"max_conns"`
	ConnTimeout time.Duration `json:"conn_timeout" yaml:"conn_timeout" mapstructure:"conn_timeout"`
	LogFile     string        `json:"log_file" yaml:"log_file" mapstructure:"log_file"`
}

// knownEnvironments lists the environments that Validate accepts.
var knownEnvironments = map[string]bool{
	EnvDevelopment: true,
	EnvProduction:  true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if !knownEnvironments[c.Environment] {
		return ErrEnvironmentUnknown
	}
	if c.Port < 1 || c.Port > 65535 {
		return ErrPortInvalid
	}
	if c.DBPath == "" {
		return ErrDBPathEmpty
	}
	if c.MaxConns < 1 {
		return ErrMaxConnsInvalid
	}
	if c.ConnTimeout <= 0 {
		return ErrConnTimeoutInvalid
	}
	return nil
}

// Production reports whether the service runs in production mode. Production
// mode hides internal error detail and switches gin to release mode.
func (c Config) Production() bool {
	return c.Environment == EnvProduction
}
