package auth

import (
	"fmt"
	"time"

	"gearguard-backend/internal/config"
)

const defaultTokenTTL = 8 * time.Hour

// AuthConfig holds the token signing settings
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" json:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl" json:"token_ttl"`
	Issuer    string        `yaml:"issuer" json:"issuer"`
}

// NewAuthConfig derives the auth settings from the application config
func NewAuthConfig(cfg *config.Config) *AuthConfig {
	ttl := time.Duration(cfg.JWTTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  ttl,
		Issuer:    "gearguard-backend",
	}
}

// ValidateConfig validates the auth configuration
func (c *AuthConfig) ValidateConfig() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	return nil
}
