package authgate

import (
	"context"
	"net/http"

	"github.com/kardia-labs/authgate/internal/flows"
)

// Login runs the login pipeline against a raw request body and returns the
// shaped reply: 200 with user and session on success, 401 on bad
// credentials (single generic message, no cause disclosure), 403 when the
// provider authenticated the account but issued no session, 422/429/500 for
// the shared pipeline failures.
func (e *Engine) Login(ctx context.Context, body []byte) *Reply {
	if e == nil {
		return notReady()
	}
	rc := e.newRequestContext(ctx, ActionLogin)

	out := flows.RunLogin(ctx, body, flows.LoginDeps{
		CheckRate:    e.checkRate(rc, e.config.RateLimit.Credential),
		Authenticate: e.provider.Authenticate,
	})
	if !out.Failure.OK() {
		return e.fail(ctx, rc, out.Failure)
	}

	resp := LoginResponse{
		User: summarize(out.User),
		Session: Session{
			AccessToken:  out.Session.AccessToken,
			RefreshToken: out.Session.RefreshToken,
			ExpiresAt:    out.Session.ExpiresAt,
		},
		CorrelationID: rc.CorrelationID,
	}

	return e.succeed(ctx, rc, http.StatusOK, resp, "login succeeded", out.User.Email, Fields{
		"user_id":     out.User.ID,
		"remember_me": out.RememberMe,
	})
}
