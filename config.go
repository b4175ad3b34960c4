package authgate

import (
	"errors"
	"fmt"
	"time"
	"unicode"
)

// RatePreset is the budget one action grants each client identifier:
// Limit requests per fixed Window.
type RatePreset struct {
	Limit  int
	Window time.Duration
}

// RateLimitConfig holds the per-action presets. Login, registration and
// OAuth initiation share the Credential preset because credential guessing
// is the shared threat; Reset is deliberately looser so repeated
// forgot-password taps from one household do not lock legitimate users out.
type RateLimitConfig struct {
	Credential RatePreset
	Reset      RatePreset
}

// OAuthProviderEntry declares one enabled OAuth provider.
type OAuthProviderEntry struct {
	ID          string
	DisplayName string
}

// OAuthConfig is the gateway's provider catalog. Provider ids outside it
// fail validation before any provider call.
type OAuthConfig struct {
	Providers []OAuthProviderEntry
}

// RegistrationConfig holds registration policy enforced at validation time.
type RegistrationConfig struct {
	PasswordMinLength int
}

// Config is the gateway configuration. Treat it as immutable once an
// Engine is built from it.
type Config struct {
	RateLimit    RateLimitConfig
	OAuth        OAuthConfig
	Registration RegistrationConfig
	Audit        AuditConfig
}

// DefaultConfig returns the production defaults: 5 requests per minute for
// credential actions, 10 per five minutes for password reset, Google and
// GitHub in the OAuth catalog, 8-character password minimum.
func DefaultConfig() Config {
	return Config{
		RateLimit: RateLimitConfig{
			Credential: RatePreset{Limit: 5, Window: time.Minute},
			Reset:      RatePreset{Limit: 10, Window: 5 * time.Minute},
		},
		OAuth: OAuthConfig{
			Providers: []OAuthProviderEntry{
				{ID: "google", DisplayName: "Google"},
				{ID: "github", DisplayName: "GitHub"},
			},
		},
		Registration: RegistrationConfig{
			PasswordMinLength: 8,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if err := c.RateLimit.Credential.validate("credential"); err != nil {
		return err
	}
	if err := c.RateLimit.Reset.validate("reset"); err != nil {
		return err
	}
	if c.Registration.PasswordMinLength < 1 {
		return errors.New("registration password minimum length must be positive")
	}

	seen := make(map[string]struct{}, len(c.OAuth.Providers))
	for _, p := range c.OAuth.Providers {
		if p.ID == "" {
			return errors.New("oauth provider id must not be empty")
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("oauth provider %q declared twice", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	return nil
}

func (p RatePreset) validate(name string) error {
	if p.Limit < 1 {
		return fmt.Errorf("%s rate limit must be positive", name)
	}
	if p.Window < time.Second {
		return fmt.Errorf("%s rate window must be at least one second", name)
	}
	return nil
}

func displayName(id string) string {
	if id == "" {
		return ""
	}
	r := []rune(id)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
