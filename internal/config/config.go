// Package config provides bridge configuration loaded from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/kelseyhightower/envconfig"
)

const logPrefix = "config:LoadConfig"

// MCP transports accepted by MCP_TRANSPORT.
const (
	TransportStdio = "stdio"
	TransportNone  = "none"
)

// Config holds siyuan-bridge configuration.
type Config struct {
	// SiYuan kernel
	SiYuanURL            string        `envconfig:"SIYUAN_API_URL" default:"http://localhost:6806"`
	SiYuanToken          string        `envconfig:"SIYUAN_TOKEN"`
	SiYuanRequestTimeout time.Duration `envconfig:"SIYUAN_REQUEST_TIMEOUT" default:"30s"`
	SiYuanMinVersion     string        `envconfig:"SIYUAN_MIN_VERSION" default:">=2.10.0"`

	// Extra operations declared in a catalog file (empty = default paths)
	CatalogFile string `envconfig:"CATALOG_FILE"`

	// MCP
	MCPTransport string `envconfig:"MCP_TRANSPORT" default:"stdio"`

	// COMMS: empty COMMSURL disables the request/reply binding and change events.
	COMMSURL           string        `envconfig:"COMMS_URL"`
	COMMSName          string        `envconfig:"SERVICE_NAME" default:"siyuan-bridge"`
	DispatchSubject    string        `envconfig:"DISPATCH_SUBJECT"`
	ChangeEventSubject string        `envconfig:"CHANGE_EVENT_SUBJECT"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"25s"`

	// HTTP docs and health server (empty = disabled, e.g. "0.0.0.0:8080")
	HTTPAddr           string        `envconfig:"BRIDGE_HTTP_ADDR"`
	HealthCheckTimeout time.Duration `envconfig:"HEALTH_CHECK_TIMEOUT" default:"5s"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ValidateForServe checks required config when running the bridge server.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForClient(); err != nil {
		return err
	}
	switch c.MCPTransport {
	case TransportStdio, TransportNone:
	default:
		return fmt.Errorf("%s - MCP_TRANSPORT must be %q or %q, got %q", logPrefix, TransportStdio, TransportNone, c.MCPTransport)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s - REQUEST_TIMEOUT must be positive", logPrefix)
	}
	if c.HealthCheckTimeout <= 0 {
		return fmt.Errorf("%s - HEALTH_CHECK_TIMEOUT must be positive", logPrefix)
	}
	if c.SiYuanMinVersion != "" {
		if _, err := semver.NewConstraint(c.SiYuanMinVersion); err != nil {
			return fmt.Errorf("%s - SIYUAN_MIN_VERSION %q is not a semver constraint: %w", logPrefix, c.SiYuanMinVersion, err)
		}
	}
	return nil
}

// ValidateForClient checks the config needed to talk to the kernel (list, man, exec, check).
func (c *Config) ValidateForClient() error {
	u, err := url.Parse(c.SiYuanURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%s - SIYUAN_API_URL must be an http(s) URL, got %q", logPrefix, c.SiYuanURL)
	}
	if c.SiYuanRequestTimeout <= 0 {
		return fmt.Errorf("%s - SIYUAN_REQUEST_TIMEOUT must be positive", logPrefix)
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level. Unknown values are info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
