package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the variable pointing at an optional YAML config file.
const FileEnv = "CYCLEHUB_CONFIG"

// envKeys maps the recognised environment variables to koanf keys. The names
// are unprefixed so existing deployments keep working.
var envKeys = map[string]string{
	"PORT":              "port",
	"DB_USER":           "db_user",
	"DB_PASSWORD":       "db_password",
	"DB_CLUSTER":        "db_cluster",
	"DB_NAME":           "db_name",
	"MONGODB_URI":       "mongodb_uri",
	"LOG_LEVEL":         "log_level",
	"REQUEST_TIMEOUT":   "request_timeout",
	"REDIS_ADDR":        "redis_addr",
	"REDIS_PASSWORD":    "redis_password",
	"CACHE_TTL":         "cache_ttl",
	"ADMIN_JWT_SECRET":  "admin_jwt_secret",
	"SLACK_WEBHOOK_URL": "slack_webhook_url",
}

// EnvNames lists the environment variables Load reads.
func EnvNames() []string {
	names := make([]string, 0, len(envKeys)+1)
	for name := range envKeys {
		names = append(names, name)
	}
	return append(names, FileEnv)
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. YAML file if CYCLEHUB_CONFIG is set
//  3. .env in the working directory (ignored when absent)
//  4. environment variables
func Load() (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// godotenv never overrides variables already present in the environment.
	_ = godotenv.Load()

	envProvider := env.Provider("", ".", func(s string) string {
		return envKeys[s]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &cfg, nil
}
