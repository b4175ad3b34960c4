package authgate

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the raw environment values for the gateway configuration.
type envConfig struct {
	CredentialLimit   int           `env:"AUTHGATE_RATE_CREDENTIAL_LIMIT"  envDefault:"5"`
	CredentialWindow  time.Duration `env:"AUTHGATE_RATE_CREDENTIAL_WINDOW" envDefault:"1m"`
	ResetLimit        int           `env:"AUTHGATE_RATE_RESET_LIMIT"       envDefault:"10"`
	ResetWindow       time.Duration `env:"AUTHGATE_RATE_RESET_WINDOW"      envDefault:"5m"`
	OAuthProviders    []string      `env:"AUTHGATE_OAUTH_PROVIDERS"        envSeparator:"," envDefault:"google,github"`
	PasswordMinLength int           `env:"AUTHGATE_PASSWORD_MIN_LENGTH"    envDefault:"8"`
	AuditEnabled      bool          `env:"AUTHGATE_AUDIT_ENABLED"          envDefault:"false"`
	AuditBufferSize   int           `env:"AUTHGATE_AUDIT_BUFFER"           envDefault:"256"`
}

// LoadConfigFromEnv builds a Config from AUTHGATE_* environment variables,
// falling back to the documented defaults for anything unset.
func LoadConfigFromEnv() (Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg := DefaultConfig()
	cfg.RateLimit.Credential = RatePreset{Limit: raw.CredentialLimit, Window: raw.CredentialWindow}
	cfg.RateLimit.Reset = RatePreset{Limit: raw.ResetLimit, Window: raw.ResetWindow}
	cfg.Registration.PasswordMinLength = raw.PasswordMinLength
	cfg.Audit.Enabled = raw.AuditEnabled
	cfg.Audit.BufferSize = raw.AuditBufferSize

	providers := make([]OAuthProviderEntry, 0, len(raw.OAuthProviders))
	for _, id := range raw.OAuthProviders {
		if id == "" {
			continue
		}
		providers = append(providers, OAuthProviderEntry{ID: id, DisplayName: displayName(id)})
	}
	cfg.OAuth.Providers = providers

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
