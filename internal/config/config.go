/**
 * Copyright (c) 2026, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

// Package config defines the runtime configuration of the bookshelf server.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to configuration keys to form environment variable names; for example,
// "log-level" is read from BOOKSHELF_LOG_LEVEL.
const EnvPrefix = "BOOKSHELF"

// Configuration keys. They double as command-line flag names and keys in config files.
const (
	KeyHost               = "host"
	KeyPort               = "port"
	KeyPath               = "path"
	KeyGraphiQL           = "graphiql"
	KeyCatalog            = "catalog"
	KeyMetrics            = "metrics"
	KeyLogLevel           = "log-level"
	KeyLogFormat          = "log-format"
	KeyMaxBodySize        = "max-body-size"
	KeyOperationCacheSize = "operation-cache-size"
	KeyReadTimeout        = "read-timeout"
	KeyWriteTimeout       = "write-timeout"
	KeyShutdownTimeout    = "shutdown-timeout"
)

// Config contains settings for running the server.
type Config struct {
	// Host and Port of the listener. An empty Host listens on all interfaces.
	Host string
	Port int

	// Path of the GraphQL endpoint
	Path string

	// GraphiQL enables the interactive UI for browsers
	GraphiQL bool

	// CatalogFile is a YAML or JSON seed file; the built-in books are served when it is empty.
	CatalogFile string

	// Metrics exposes Prometheus metrics at /metrics
	Metrics bool

	LogLevel  string
	LogFormat string

	MaxBodySize        uint
	OperationCacheSize uint

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Host:               "",
		Port:               4000,
		Path:               "/graphql",
		GraphiQL:           true,
		Metrics:            true,
		LogLevel:           "info",
		LogFormat:          "console",
		MaxBodySize:        10 << 20,
		OperationCacheSize: 512,
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
	}
}

// SetDefaults registers the values of Default in v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyHost, d.Host)
	v.SetDefault(KeyPort, d.Port)
	v.SetDefault(KeyPath, d.Path)
	v.SetDefault(KeyGraphiQL, d.GraphiQL)
	v.SetDefault(KeyCatalog, d.CatalogFile)
	v.SetDefault(KeyMetrics, d.Metrics)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
	v.SetDefault(KeyMaxBodySize, d.MaxBodySize)
	v.SetDefault(KeyOperationCacheSize, d.OperationCacheSize)
	v.SetDefault(KeyReadTimeout, d.ReadTimeout)
	v.SetDefault(KeyWriteTimeout, d.WriteTimeout)
	v.SetDefault(KeyShutdownTimeout, d.ShutdownTimeout)
}

// NewViper creates a viper instance with defaults and environment variables set up. Flags are bound
// by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from v. If file is not empty, it is read into v first; values in the
// file take precedence over defaults but are overridden by environment variables and flags.
func Load(v *viper.Viper, file string) (Config, error) {
	if len(file) > 0 {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "config: read %s", file)
		}
	}

	c := Config{
		Host:               v.GetString(KeyHost),
		Port:               v.GetInt(KeyPort),
		Path:               v.GetString(KeyPath),
		GraphiQL:           v.GetBool(KeyGraphiQL),
		CatalogFile:        v.GetString(KeyCatalog),
		Metrics:            v.GetBool(KeyMetrics),
		LogLevel:           v.GetString(KeyLogLevel),
		LogFormat:          v.GetString(KeyLogFormat),
		MaxBodySize:        v.GetUint(KeyMaxBodySize),
		OperationCacheSize: v.GetUint(KeyOperationCacheSize),
		ReadTimeout:        v.GetDuration(KeyReadTimeout),
		WriteTimeout:       v.GetDuration(KeyWriteTimeout),
		ShutdownTimeout:    v.GetDuration(KeyShutdownTimeout),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

func oneOf(s string, values []string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}

// Validate checks c for invalid settings.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("config: port %d out of range", c.Port)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.Errorf("config: path %q must start with /", c.Path)
	}
	if c.Path == "/health" || c.Path == "/metrics" {
		return errors.Errorf("config: path %q is reserved", c.Path)
	}
	if !oneOf(c.LogLevel, logLevels) {
		return errors.Errorf("config: unknown log level %q (want one of %s)",
			c.LogLevel, strings.Join(logLevels, ", "))
	}
	if !oneOf(c.LogFormat, logFormats) {
		return errors.Errorf("config: unknown log format %q (want one of %s)",
			c.LogFormat, strings.Join(logFormats, ", "))
	}
	if c.MaxBodySize == 0 {
		return errors.New("config: max body size must be positive")
	}
	if c.OperationCacheSize == 0 {
		return errors.New("config: operation cache size must be positive")
	}
	for _, timeout := range []struct {
		name  string
		value time.Duration
	}{
		{KeyReadTimeout, c.ReadTimeout},
		{KeyWriteTimeout, c.WriteTimeout},
		{KeyShutdownTimeout, c.ShutdownTimeout},
	} {
		if timeout.value <= 0 {
			return errors.Errorf("config: %s must be positive", timeout.name)
		}
	}
	return nil
}

// Addr returns the address to listen on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL returns the URL of the GraphQL endpoint for display. Unspecified hosts are shown as localhost.
func (c *Config) URL() string {
	host := c.Host
	if len(host) == 0 || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(host, strconv.Itoa(c.Port)), c.Path)
}
