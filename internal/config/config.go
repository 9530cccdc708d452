// Package config loads server configuration from an optional tasknest.yaml
// plus TASKNEST_* environment overrides.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Addr  string      `mapstructure:"addr"`
	Mongo MongoConfig `mapstructure:"mongo"`
}

// MongoConfig locates the document store.
type MongoConfig struct {
	URL      string        `mapstructure:"url"`
	Database string        `mapstructure:"database"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr: ":4000",
		Mongo: MongoConfig{
			URL:      "mongodb://localhost:27017",
			Database: "tasknest",
			Timeout:  10 * time.Second,
		},
	}
}

// Load reads tasknest.yaml from the working directory when present and
// applies environment overrides (TASKNEST_ADDR, TASKNEST_MONGO_URL, ...).
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("tasknest")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	def := Default()
	v.SetDefault("addr", def.Addr)
	v.SetDefault("mongo.url", def.Mongo.URL)
	v.SetDefault("mongo.database", def.Mongo.Database)
	v.SetDefault("mongo.timeout", def.Mongo.Timeout)

	v.SetEnvPrefix("TASKNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
