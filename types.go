package authgate

import "github.com/kardia-labs/authgate/provider"

// Action names one of the four gateway flows. It scopes rate-limit keys,
// log lines and audit events.
type Action string

const (
	ActionLogin    Action = "login"
	ActionRegister Action = "register"
	ActionOAuth    Action = "oauth"
	ActionReset    Action = "reset_password"
)

// RequestContext is the per-request identity of one pipeline pass. Built
// once at entry, immutable, discarded at response time, never persisted.
type RequestContext struct {
	CorrelationID string
	ClientID      string
	Action        Action
}

// ErrorKind classifies a failed request for the wire-level envelope.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindRateLimited  ErrorKind = "RATE_LIMITED"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindConflict     ErrorKind = "CONFLICT"
	KindBadRequest   ErrorKind = "BAD_REQUEST"
	KindInternal     ErrorKind = "INTERNAL"
)

// ErrorEnvelope is the stable error shape every failed request produces,
// regardless of which stage failed.
type ErrorEnvelope struct {
	Kind          ErrorKind      `json:"kind"`
	Message       string         `json:"message"`
	Details       map[string]any `json:"details,omitempty"`
	CorrelationID string         `json:"correlationId"`
}

// Reply is the transport-agnostic result of one engine operation.
// RetryAfter is whole seconds and only set on rate-limited replies.
type Reply struct {
	Status     int
	Body       any
	RetryAfter int
}

// UserSummary is the client-facing account shape. It never carries
// credentials or raw provider payloads.
type UserSummary struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	EmailVerified bool   `json:"emailVerified"`
}

func summarize(u *provider.User) UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		EmailVerified: u.EmailConfirmed,
	}
}

// Session is the client-facing token material. ExpiresAt is RFC 3339.
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    string `json:"expiresAt"`
}

// LoginResponse is the login success body.
type LoginResponse struct {
	User          UserSummary `json:"user"`
	Session       Session     `json:"session"`
	CorrelationID string      `json:"correlationId"`
}

// RegisterResponse is the registration success body. Session is present
// only when the provider issued one immediately.
type RegisterResponse struct {
	Message           string      `json:"message"`
	User              UserSummary `json:"user"`
	NeedsVerification bool        `json:"needsVerification"`
	Session           *Session    `json:"session,omitempty"`
	CorrelationID     string      `json:"correlationId"`
}

// OAuthResponse is the OAuth initiation success body.
type OAuthResponse struct {
	Provider      string `json:"provider"`
	AuthURL       string `json:"authUrl"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId"`
}

// ResetResponse is the uniform password reset body. Its shape never reveals
// whether the account exists.
type ResetResponse struct {
	Message       string `json:"message"`
	Email         string `json:"email"`
	Timestamp     string `json:"timestamp"`
	CorrelationID string `json:"correlationId"`
}

// OAuthProviderInfo describes one enabled OAuth provider in the catalog.
type OAuthProviderInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ProviderCatalog is the static, side-effect-free OAuth catalog body. It
// deliberately omits the correlation ID so repeated reads are byte-identical;
// the ID still travels in the response header.
type ProviderCatalog struct {
	Providers []OAuthProviderInfo `json:"providers"`
}

// PasswordRequirements is the password section of the registration
// requirements descriptor.
type PasswordRequirements struct {
	MinLength int `json:"minLength"`
}

// RegistrationRequirements is the static registration requirements body.
type RegistrationRequirements struct {
	Password       PasswordRequirements `json:"password"`
	RequiredFields []string             `json:"requiredFields"`
	OptionalFields []string             `json:"optionalFields"`
	TermsRequired  bool                 `json:"termsRequired"`
}
