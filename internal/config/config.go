package config

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

const (
	sslModeDisable = "disable"
	sslModeRequire = "require"

	envPrefix = "BOOKMARKER"
)

var Module = fx.Provide(NewConfig)

type (
	Config struct {
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		GRPCPort string `mapstructure:"GRPC_PORT"`

		DBHost     string `mapstructure:"DB_HOST"`
		DBPort     string `mapstructure:"DB_PORT"`
		DBUser     string `mapstructure:"DB_USER"`
		DBPassword string `mapstructure:"DB_PASSWORD"`
		DBName     string `mapstructure:"DB_NAME"`
		DBSSLMode  string `mapstructure:"DB_SSL_MODE"`

		AccessTokenSecret  string        `mapstructure:"ACCESS_TOKEN_SECRET"`
		RefreshTokenSecret string        `mapstructure:"REFRESH_TOKEN_SECRET"`
		AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
		RefreshTokenTTL    time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`

		Argon2MemoryKiB   uint32 `mapstructure:"ARGON2_MEMORY_KIB"`
		Argon2Iterations  uint32 `mapstructure:"ARGON2_ITERATIONS"`
		Argon2Parallelism uint8  `mapstructure:"ARGON2_PARALLELISM"`

		LogLevel       string `mapstructure:"LOG_LEVEL"`
		LogDevelopment bool   `mapstructure:"LOG_DEVELOPMENT"`
	}
)

var defaults = map[string]interface{}{
	"HOST":      "0.0.0.0",
	"PORT":      "1323",
	"GRPC_PORT": "9000",

	"DB_HOST":     "0.0.0.0",
	"DB_PORT":     "5432",
	"DB_USER":     "user",
	"DB_PASSWORD": "password",
	"DB_NAME":     "db",
	"DB_SSL_MODE": sslModeDisable,

	"ACCESS_TOKEN_SECRET":  "",
	"REFRESH_TOKEN_SECRET": "",
	"ACCESS_TOKEN_TTL":     "10m",
	"REFRESH_TOKEN_TTL":    "168h",

	"ARGON2_MEMORY_KIB":  64 * 1024,
	"ARGON2_ITERATIONS":  3,
	"ARGON2_PARALLELISM": 4,

	"LOG_LEVEL":       "info",
	"LOG_DEVELOPMENT": false,
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)

	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// DSN returns the libpq connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func validate(cfg *Config) error {
	if err := validateSSLMode(cfg.DBSSLMode); err != nil {
		return err
	}
	if cfg.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.AccessTokenSecret == cfg.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if cfg.Argon2MemoryKiB == 0 || cfg.Argon2Iterations == 0 || cfg.Argon2Parallelism == 0 {
		return errors.New("argon2 parameters must be positive")
	}
	return nil
}

func validateSSLMode(mode string) error {
	validSSLValues := []string{sslModeDisable, sslModeRequire}
	for _, validValue := range validSSLValues {
		if mode == validValue {
			return nil
		}
	}
	return errors.New(fmt.Sprintf("DB SSL mode is invalid: %s", mode))
}
