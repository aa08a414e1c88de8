// Package config loads gateway settings from defaults, an optional YAML file,
// a .env file and the process environment.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds process configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string `koanf:"port" validate:"required,numeric"`

	// DBUser and DBPassword are the Atlas credentials interpolated into the
	// connection string when URI is empty.
	DBUser     string `koanf:"db_user" validate:"required_without=URI"`
	DBPassword string `koanf:"db_password" validate:"required_without=URI"`
	DBCluster  string `koanf:"db_cluster" validate:"required_without=URI"`
	DBName     string `koanf:"db_name" validate:"required"`

	// URI overrides the credential-built connection string, e.g. for a local mongod.
	URI string `koanf:"mongodb_uri"`

	LogLevel       string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`

	// RedisAddr enables the cycle cache when set.
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gt=0"`

	// AdminJWTSecret enables the bearer token guard on role escalation.
	AdminJWTSecret string `koanf:"admin_jwt_secret"`

	SlackWebhookURL string `koanf:"slack_webhook_url" validate:"omitempty,url"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:           "5000",
		DBCluster:      "cluster0.zwnyjff.mongodb.net",
		DBName:         "cycleHubDB",
		LogLevel:       "info",
		RequestTimeout: 15 * time.Second,
		CacheTTL:       5 * time.Minute,
	}
}

// Addr is the listen address for http.Server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// MongoURI returns the connection string used by the driver.
func (c *Config) MongoURI() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf(
		"mongodb+srv://%s@%s/?retryWrites=true&w=majority&appName=Cluster0",
		url.UserPassword(c.DBUser, c.DBPassword).String(),
		c.DBCluster,
	)
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// AdminGuardEnabled reports whether role escalation requires an admin token.
func (c *Config) AdminGuardEnabled() bool {
	return c.AdminJWTSecret != ""
}
