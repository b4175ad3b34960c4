package flows

import (
	"context"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/internal/schema"
)

// MsgResetSent is the uniform reset response. It is sent whether or not the
// account exists so the endpoint cannot be used for account enumeration.
const MsgResetSent = "If an account exists for this email, a password reset link has been sent"

// ResetDeps captures the password reset pipeline dependencies.
type ResetDeps struct {
	CheckRate func(ctx context.Context) (rate.Decision, error)
	SendReset func(ctx context.Context, email, redirectTo string) error
}

// ResetOutcome is the password reset pipeline result. Suppressed carries a
// provider failure that was deliberately downgraded to success; the host
// logs it and nothing else.
type ResetOutcome struct {
	Failure    Failure
	Email      string
	Suppressed error
}

func resetSchema() schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "email", Kind: schema.String, Required: true, MaxLen: 255, Email: true},
			{Name: "redirectTo", Kind: schema.String, MaxLen: 2048},
		},
	}
}

// RunReset executes the password reset pipeline. Only the limiter and the
// validator can fail it; every provider error is swallowed into Suppressed
// and the outcome still reads as success.
func RunReset(ctx context.Context, raw []byte, deps ResetDeps) ResetOutcome {
	doc, fail := gate(ctx, raw, deps.CheckRate, resetSchema())
	if !fail.OK() {
		return ResetOutcome{Failure: fail}
	}

	email := schema.Str(doc, "email")
	err := deps.SendReset(ctx, email, schema.Str(doc, "redirectTo"))

	return ResetOutcome{Email: email, Suppressed: err}
}
