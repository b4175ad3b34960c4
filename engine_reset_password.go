package authgate

import (
	"context"
	"net/http"
	"time"

	"github.com/kardia-labs/authgate/internal/flows"
)

// ResetPassword runs the password reset pipeline. Only the limiter and the
// validator can fail it; every provider error is downgraded to the uniform
// 200 body so the endpoint cannot confirm whether an account exists. The
// suppressed error is logged with full context and goes no further.
func (e *Engine) ResetPassword(ctx context.Context, body []byte) *Reply {
	if e == nil {
		return notReady()
	}
	rc := e.newRequestContext(ctx, ActionReset)

	out := flows.RunReset(ctx, body, flows.ResetDeps{
		CheckRate: e.checkRate(rc, e.config.RateLimit.Reset),
		SendReset: e.provider.SendReset,
	})
	if !out.Failure.OK() {
		return e.fail(ctx, rc, out.Failure)
	}

	if out.Suppressed != nil {
		e.log(LevelWarn, "password reset provider error suppressed", Fields{
			"correlation_id": rc.CorrelationID,
			"action":         string(rc.Action),
			"client":         rc.ClientID,
			"error":          out.Suppressed.Error(),
		})
	}

	resp := ResetResponse{
		Message:       flows.MsgResetSent,
		Email:         out.Email,
		Timestamp:     e.now().UTC().Format(time.RFC3339),
		CorrelationID: rc.CorrelationID,
	}

	return e.succeed(ctx, rc, http.StatusOK, resp, "password reset requested", out.Email, nil)
}
