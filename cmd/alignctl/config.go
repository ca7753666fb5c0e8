package main

import (
	"align/internal"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the subset of the server environment the admin tool needs.
type Config struct {
	StorageBackend    string        `envconfig:"STORAGE_BACKEND" default:"badger"`
	BadgerFilepath    string        `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
	PostgresURL       string        `envconfig:"POSTGRES_URL"`
	PostgresMaxConns  int32         `envconfig:"POSTGRES_MAX_CONNS" default:"2"`
	AuthSecret        string        `envconfig:"AUTH_SECRET"`
	AuthTokenDuration time.Duration `envconfig:"AUTH_TOKEN_DURATION" default:"24h"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"WARN"`
	// ALIGNCTL_COLOURS enables colorized output
	Colours bool `envconfig:"ALIGNCTL_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

// storage maps the tool configuration onto the server's storage settings.
func (c Config) storage() internal.Config {
	return internal.Config{
		StorageBackend:   c.StorageBackend,
		BadgerFilepath:   c.BadgerFilepath,
		PostgresURL:      c.PostgresURL,
		PostgresMaxConns: c.PostgresMaxConns,
	}
}
