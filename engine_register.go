package authgate

import (
	"context"
	"net/http"

	"github.com/kardia-labs/authgate/internal/flows"
)

// Registration success messages; which one applies depends on whether the
// provider still expects email verification.
const (
	msgRegistered       = "Registration successful"
	msgRegisteredVerify = "Registration successful. Please check your email to verify your account"
)

// Register runs the registration pipeline: 201 on success (reporting
// whether verification is still pending and only including a session when
// the provider issued one), 409 for duplicate accounts, 400 for provider
// policy rejections, 500 for unrecognized provider codes.
func (e *Engine) Register(ctx context.Context, body []byte) *Reply {
	if e == nil {
		return notReady()
	}
	rc := e.newRequestContext(ctx, ActionRegister)

	out := flows.RunRegister(ctx, body, flows.RegisterDeps{
		CheckRate:         e.checkRate(rc, e.config.RateLimit.Credential),
		Register:          e.provider.Register,
		PasswordMinLength: e.config.Registration.PasswordMinLength,
	})
	if !out.Failure.OK() {
		return e.fail(ctx, rc, out.Failure)
	}

	msg := msgRegistered
	if out.NeedsVerification {
		msg = msgRegisteredVerify
	}

	resp := RegisterResponse{
		Message:           msg,
		User:              summarize(out.User),
		NeedsVerification: out.NeedsVerification,
		CorrelationID:     rc.CorrelationID,
	}
	if out.Session != nil {
		resp.Session = &Session{
			AccessToken:  out.Session.AccessToken,
			RefreshToken: out.Session.RefreshToken,
			ExpiresAt:    out.Session.ExpiresAt,
		}
	}

	return e.succeed(ctx, rc, http.StatusCreated, resp, "registration succeeded", out.User.Email, Fields{
		"user_id":            out.User.ID,
		"needs_verification": out.NeedsVerification,
	})
}

// Requirements returns the static registration requirements descriptor.
// Read-only: no limiter, no validator, no provider call, no logging.
func (e *Engine) Requirements() RegistrationRequirements {
	return e.requirements
}
