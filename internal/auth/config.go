package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Token lifetime defaults
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Config holds authentication configuration
type Config struct {
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	Issuer          string        `mapstructure:"JWT_ISSUER"`
}

// LoadConfig loads authentication configuration from environment
// variables with sensible defaults. Access tokens are short-lived; the
// refresh token window is a week.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL)
	v.SetDefault("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL)
	v.SetDefault("JWT_ISSUER", "taskboard-backend")

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling auth config: %w", err)
	}

	// Override with environment variable for the secret
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.JWTSecret = jwtSecret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL must exceed access token TTL")
	}
	return nil
}
