// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Share   ShareConfig   `yaml:"share"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"NESTCARE_ADDR"             env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"NESTCARE_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"NESTCARE_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"NESTCARE_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig holds the single-blob persistence settings. Path is the one
// storage location the whole baby collection serializes under; injecting it
// here (rather than a package-level constant) keeps tests isolated on an
// in-memory blob of the same interface.
type StorageConfig struct {
	Path string `yaml:"path" env:"NESTCARE_STORAGE_PATH" env-default:"babycare_data.json"`
}

// ShareConfig holds settings for generated share links.
type ShareConfig struct {
	BaseURL string `yaml:"base_url" env:"NESTCARE_SHARE_BASE_URL" env-default:"http://localhost:8080"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"NESTCARE_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"NESTCARE_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from the environment so main stays lean.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env config: %w", err)
	}
	return cfg, nil
}
