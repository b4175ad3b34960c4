package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Authenticate when the provider
// rejects the email/password pair. The gateway translates it into a single
// generic denial; callers must never learn whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Machine-readable provider error codes the gateway knows how to map.
const (
	CodeAccountExists       = "ACCOUNT_EXISTS"
	CodeUserAlreadyExists   = "USER_ALREADY_EXISTS"
	CodeWeakPassword        = "WEAK_PASSWORD"
	CodeRegistrationFailed  = "REGISTRATION_FAILED"
	CodeUnsupportedProvider = "UNSUPPORTED_PROVIDER"
	CodeUserNotFound        = "USER_NOT_FOUND"
)

// Error is a coded provider failure. Code carries the machine-readable
// classification; Message is the provider's human-readable detail and is
// only ever logged, never surfaced verbatim to clients.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the provider error code from err, or "" when err is not
// a coded provider error.
func CodeOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// User is the account summary the provider returns. It never carries
// credentials or raw provider internals.
type User struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	EmailConfirmed bool
}

// Session is the token material issued by the provider. ExpiresAt is epoch
// seconds as reported on the wire; the gateway converts it to RFC 3339
// before it reaches a client.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Profile is the registration input forwarded to the provider.
type Profile struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	AcceptTerms     bool
	AcceptMarketing bool
	ReferralCode    string
}

// Registration is the provider's answer to a successful Register call.
// Session is nil when the account still needs email verification.
type Registration struct {
	User              User
	NeedsVerification bool
	Session           *Session
}

// Identity is the external identity provider the gateway orchestrates.
// Every flow performs at most one call through this interface.
//
// Authenticate returns ErrInvalidCredentials for bad credentials. A nil
// session alongside a non-nil user means the account authenticated but is
// not yet usable (unverified email).
//
// BeginOAuth returns the authorization URL to redirect the client to.
// SendReset's error is advisory only; the reset flow swallows it.
type Identity interface {
	Authenticate(ctx context.Context, email, password string) (*User, *Session, error)
	Register(ctx context.Context, profile Profile) (*Registration, error)
	BeginOAuth(ctx context.Context, providerID, redirectTo string) (string, error)
	SendReset(ctx context.Context, email, redirectTo string) error
}
