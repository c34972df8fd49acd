package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Config is the resolved CLI configuration.
type Config struct {
	Token     string
	TokenFile string
	Endpoint  string
	Timeout   time.Duration
	Output    string
	LogLevel  string

	OAuth    OAuthConfig
	Exporter ExporterConfig
	Influx   InfluxConfig
}

// OAuthConfig enables token refresh from a long-lived refresh token.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
}

// Enabled reports whether a refresh token flow is configured.
func (c OAuthConfig) Enabled() bool {
	return c.ClientID != "" && c.RefreshToken != ""
}

// ExporterConfig configures the metrics exporter.
type ExporterConfig struct {
	Listen   string
	Interval time.Duration
}

// InfluxConfig configures the optional InfluxDB sink. An empty Host
// disables it.
type InfluxConfig struct {
	Host   string
	Token  string
	Org    string
	Bucket string
}

var outputFormats = []string{"json", "yaml", "table"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token", "")
	v.SetDefault("token_file", "")
	v.SetDefault("endpoint", "")
	v.SetDefault("timeout", "30s")
	v.SetDefault("output", "table")
	v.SetDefault("log.level", "warn")
	v.SetDefault("oauth.client_id", "")
	v.SetDefault("oauth.client_secret", "")
	v.SetDefault("oauth.refresh_token", "")
	v.SetDefault("oauth.redirect_url", "http://localhost:8080/callback")
	v.SetDefault("exporter.listen", ":9123")
	v.SetDefault("exporter.interval", "30s")
	v.SetDefault("influxdb.host", "")
	v.SetDefault("influxdb.token", "")
	v.SetDefault("influxdb.org", "")
	v.SetDefault("influxdb.bucket", "")
}

// newViper returns a viper instance with defaults and YANDEXHOME_ env
// binding. Nested keys map to env names with "_", so exporter.listen is
// YANDEXHOME_EXPORTER_LISTEN.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("yandexhome")
	v.AutomaticEnv()
	v.SetConfigType("yaml")
	return v
}

// readConfigFile merges a YAML file into v. An empty path is a no-op.
func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := v.ReadConfig(bytes.NewBuffer(data)); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// loadConfig resolves the configuration from v.
func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Token:     strings.TrimSpace(v.GetString("token")),
		TokenFile: v.GetString("token_file"),
		Endpoint:  v.GetString("endpoint"),
		Timeout:   v.GetDuration("timeout"),
		Output:    strings.ToLower(v.GetString("output")),
		LogLevel:  v.GetString("log.level"),
		OAuth: OAuthConfig{
			ClientID:     v.GetString("oauth.client_id"),
			ClientSecret: v.GetString("oauth.client_secret"),
			RefreshToken: v.GetString("oauth.refresh_token"),
			RedirectURL:  v.GetString("oauth.redirect_url"),
		},
		Exporter: ExporterConfig{
			Listen:   v.GetString("exporter.listen"),
			Interval: v.GetDuration("exporter.interval"),
		},
		Influx: InfluxConfig{
			Host:   v.GetString("influxdb.host"),
			Token:  v.GetString("influxdb.token"),
			Org:    v.GetString("influxdb.org"),
			Bucket: v.GetString("influxdb.bucket"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if !slices.Contains(outputFormats, c.Output) {
		return fmt.Errorf("invalid output %q (want one of %s)", c.Output, strings.Join(outputFormats, ", "))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", c.Timeout)
	}
	if c.Exporter.Interval <= 0 {
		return fmt.Errorf("invalid exporter interval %s", c.Exporter.Interval)
	}
	if c.Influx.Host != "" && c.Influx.Bucket == "" {
		return fmt.Errorf("influxdb.bucket is required when influxdb.host is set")
	}
	return nil
}
