// Package config handles configuration for the userkeeper boundary binary,
// including defaults, environment overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings.
//
// Fields:
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     the test default in prod.
//   - AccessTokenValidityDuration: session token lifetime.
//   - UsersFile: optional path to a batch-import file, one serialized user
//     record per line.
//   - AdminFullName / AdminEmail / AdminPassword: optional bootstrap admin
//     account registered at startup when absent.
type Config struct {
	SecretKey                   string        `env:"USERKEEPER_SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `env:"USERKEEPER_ACCESS_TOKEN_VALIDITY"`
	UsersFile                   string        `env:"USERKEEPER_USERS_FILE"`
	AdminFullName               string        `env:"USERKEEPER_ADMIN_FULL_NAME"`
	AdminEmail                  string        `env:"USERKEEPER_ADMIN_EMAIL"`
	AdminPassword               string        `env:"USERKEEPER_ADMIN_PASSWORD"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.UsersFile = ""
	c.AdminFullName = "Admin"
	c.AdminEmail = ""
	c.AdminPassword = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
