// Package config
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigurationError marks a missing or invalid required setting.
// These are fatal at startup; no tool can run without a connection.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Setting, e.Reason)
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

type Config struct {
	Zabbix  ZabbixConfig  `yaml:"zabbix"`
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	CORS    CORSConfig    `yaml:"cors"`
	Logging LoggingConfig `yaml:"logging"`
}

// ZabbixConfig describes the remote API connection.
type ZabbixConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	HTTPS     bool   `yaml:"https"`
	VerifySSL *bool  `yaml:"verify_ssl"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// ServerConfig configures the optional HTTP serving surface.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadTimeoutMS  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMS int    `yaml:"write_timeout_ms"`
}

type AuthConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
	JWTSecret         string `yaml:"jwt_secret"`
	JWTExpiryHours    int    `yaml:"jwt_expiry_hours"`
}

type CORSConfig struct {
	Enabled        bool     `yaml:"enabled"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
	MaxAgeSeconds  int      `yaml:"max_age_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from an optional file and applies
// environment variable overrides. A missing file is not an error as
// long as the environment supplies the required settings.
func Load(configPath string) (*Config, error) {
	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Zabbix: ZabbixConfig{
			Port:      80,
			Username:  "Admin",
			TimeoutMS: 10000,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			ReadTimeoutMS:  15000,
			WriteTimeoutMS: 30000,
		},
		Auth: AuthConfig{
			AdminUsername:  "admin",
			JWTExpiryHours: 24,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Validate ensures all required configuration values are set.
func (c *Config) Validate() error {
	if c.Zabbix.Host == "" {
		return &ConfigurationError{Setting: "ZBX_HOST", Reason: "zabbix host is required"}
	}
	if c.Zabbix.Username == "" {
		return &ConfigurationError{Setting: "ZBX_USERNAME", Reason: "zabbix username is required"}
	}
	if c.Zabbix.Password == "" {
		return &ConfigurationError{Setting: "ZBX_PASSWORD", Reason: "zabbix password is required"}
	}
	if !c.Logging.IsLogLevelValid() {
		return &ConfigurationError{Setting: "ZBX_LOG_LEVEL", Reason: fmt.Sprintf("invalid log level %q", c.Logging.Level)}
	}
	// The HTTP surface needs a usable JWT secret; stdio mode does not.
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		return &ConfigurationError{Setting: "ZBX_AUTH_JWT_SECRET", Reason: "jwt secret must be at least 32 characters"}
	}
	return nil
}

// applyEnvOverrides checks for environment variables with ZBX_ prefix.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZBX_HOST"); v != "" {
		cfg.Zabbix.Host = v
	}
	if v := os.Getenv("ZBX_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Zabbix.Port)
	}
	if v := os.Getenv("ZBX_USERNAME"); v != "" {
		cfg.Zabbix.Username = v
	}
	if v := os.Getenv("ZBX_PASSWORD"); v != "" {
		cfg.Zabbix.Password = v
	}
	if v := os.Getenv("ZBX_HTTPS"); v != "" {
		cfg.Zabbix.HTTPS = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ZBX_VERIFY_SSL"); v != "" {
		verify := strings.EqualFold(v, "true")
		cfg.Zabbix.VerifySSL = &verify
	}
	if v := os.Getenv("ZBX_TIMEOUT_MS"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Zabbix.TimeoutMS)
	}

	if v := os.Getenv("ZBX_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ZBX_SERVER_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &cfg.Server.Port)
	}

	if v := os.Getenv("ZBX_AUTH_ADMIN_USERNAME"); v != "" {
		cfg.Auth.AdminUsername = v
	}
	if v := os.Getenv("ZBX_AUTH_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Auth.AdminPasswordHash = v
	}
	if v := os.Getenv("ZBX_AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}

	if v := os.Getenv("ZBX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ZBX_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// BaseURL builds the scheme://host:port root of the Zabbix frontend.
// The client appends the API path itself.
func (z *ZabbixConfig) BaseURL() string {
	scheme := "http"
	if z.HTTPS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, z.Host, z.Port)
}

// SkipVerifySSL reports whether certificate verification is disabled.
// Verification defaults to on.
func (z *ZabbixConfig) SkipVerifySSL() bool {
	return z.VerifySSL != nil && !*z.VerifySSL
}

// GetTimeout returns the per-call timeout as a duration.
func (z *ZabbixConfig) GetTimeout() time.Duration {
	return time.Duration(z.TimeoutMS) * time.Millisecond
}

// GetReadTimeout returns the read timeout as a duration.
func (s *ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutMS) * time.Millisecond
}

// GetWriteTimeout returns the write timeout as a duration.
func (s *ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutMS) * time.Millisecond
}

// GetJWTExpiry returns JWT expiry as duration.
func (a *AuthConfig) GetJWTExpiry() time.Duration {
	return time.Duration(a.JWTExpiryHours) * time.Hour
}

// IsLogLevelValid checks if the log level is valid.
func (l *LoggingConfig) IsLogLevelValid() bool {
	validLevels := []string{"debug", "info", "warn", "error"}
	return slices.Contains(validLevels, strings.ToLower(l.Level))
}
