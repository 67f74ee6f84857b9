// Package config loads process configuration from struct defaults and
// environment variables, validated once at startup. Components receive the
// resulting Config explicitly; nothing reads ambient state after load.
package config

import "time"

// Config is the full process configuration.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"   validate:"required"`
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	OpenStates OpenStatesConfig `koanf:"openstates"`
	Slack      SlackConfig      `koanf:"slack"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

// DatabaseConfig mirrors the postgres driver settings. ConnString wins over
// the individual fields when set.
type DatabaseConfig struct {
	ConnString   string        `koanf:"conn_string"`
	Host         string        `koanf:"host"`
	Port         string        `koanf:"port"`
	User         string        `koanf:"user"`
	Password     string        `koanf:"password"`
	Name         string        `koanf:"name"`
	SSLMode      string        `koanf:"ssl_mode"`
	MaxOpenConns int           `koanf:"max_open_conns" validate:"gte=0"`
	PingTimeout  time.Duration `koanf:"ping_timeout"`
}

// ServerConfig addresses the read API.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port" validate:"gte=0,lte=65535"`
}

// OpenStatesConfig drives the OpenStates source. An empty APIKey disables
// the source.
type OpenStatesConfig struct {
	APIKey        string   `koanf:"api_key"`
	BaseURL       string   `koanf:"base_url"`
	Query         string   `koanf:"query"`
	Jurisdictions []string `koanf:"jurisdictions"`
	SinceDays     int      `koanf:"since_days" validate:"gte=0"`
	PerPage       int      `koanf:"per_page"   validate:"gte=0,lte=50"`
}

// SlackConfig points at the notification webhook. Empty means notifications
// are dropped with a log line.
type SlackConfig struct {
	WebhookURL string `koanf:"webhook_url"`
}

// IngestConfig shapes collection runs.
type IngestConfig struct {
	FeedsPath string `koanf:"feeds_path"`
	DryRun    bool   `koanf:"dry_run"`
}

func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			Name:         "policy_tracker",
			SSLMode:      "disable",
			MaxOpenConns: 10,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		OpenStates: OpenStatesConfig{
			Query:         "artificial intelligence OR generative OR privacy",
			Jurisdictions: []string{"CA", "NY"},
			SinceDays:     2,
			PerPage:       50,
		},
		Ingest: IngestConfig{
			FeedsPath: "feeds.yml",
		},
	}
}
