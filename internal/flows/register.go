package flows

import (
	"context"
	"fmt"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/internal/schema"
	"github.com/kardia-labs/authgate/provider"
)

// Client-facing registration messages.
const (
	MsgAccountExists      = "An account with this email already exists"
	MsgWeakPassword       = "Password does not meet the security requirements"
	MsgRegistrationFailed = "Registration failed. Please check your details and try again"
	MsgAcceptTerms        = "acceptTerms must be accepted"
)

// RegisterDeps captures the registration pipeline dependencies.
type RegisterDeps struct {
	CheckRate         func(ctx context.Context) (rate.Decision, error)
	Register          func(ctx context.Context, profile provider.Profile) (*provider.Registration, error)
	PasswordMinLength int
}

// RegisterOutcome is the registration pipeline result.
type RegisterOutcome struct {
	Failure           Failure
	User              *provider.User
	NeedsVerification bool
	Session           *SessionView
}

func registerSchema(passwordMin int) schema.Schema {
	return schema.Schema{
		Fields: []schema.Field{
			{Name: "email", Kind: schema.String, Required: true, MaxLen: 255, Email: true},
			{Name: "password", Kind: schema.String, Required: true, MinLen: passwordMin, MaxLen: 1024},
			{Name: "firstName", Kind: schema.String, Required: true, MaxLen: 100},
			{Name: "lastName", Kind: schema.String, Required: true, MaxLen: 100},
			{Name: "acceptTerms", Kind: schema.Bool, Required: true},
			{Name: "acceptMarketing", Kind: schema.Bool, Default: false},
			{Name: "referralCode", Kind: schema.String, MaxLen: 64},
		},
		Rules: []schema.Rule{
			{
				Field:   "acceptTerms",
				Message: MsgAcceptTerms,
				Check: func(doc map[string]any) bool {
					return schema.BoolVal(doc, "acceptTerms")
				},
			},
		},
	}
}

// RunRegister executes the registration pipeline. Known provider error
// codes translate to client-facing denials; anything unrecognized is an
// internal failure.
func RunRegister(ctx context.Context, raw []byte, deps RegisterDeps) RegisterOutcome {
	doc, fail := gate(ctx, raw, deps.CheckRate, registerSchema(deps.PasswordMinLength))
	if !fail.OK() {
		return RegisterOutcome{Failure: fail}
	}

	reg, err := deps.Register(ctx, provider.Profile{
		Email:           schema.Str(doc, "email"),
		Password:        schema.Str(doc, "password"),
		FirstName:       schema.Str(doc, "firstName"),
		LastName:        schema.Str(doc, "lastName"),
		AcceptTerms:     schema.BoolVal(doc, "acceptTerms"),
		AcceptMarketing: schema.BoolVal(doc, "acceptMarketing"),
		ReferralCode:    schema.Str(doc, "referralCode"),
	})
	if err != nil {
		return RegisterOutcome{Failure: classifyRegisterError(err)}
	}
	if reg == nil {
		return RegisterOutcome{Failure: Failure{
			Kind: KindInternal,
			Err:  fmt.Errorf("provider reported success without a registration"),
		}}
	}

	user := reg.User
	return RegisterOutcome{
		User:              &user,
		NeedsVerification: reg.NeedsVerification,
		Session:           viewSession(reg.Session),
	}
}

func classifyRegisterError(err error) Failure {
	switch provider.CodeOf(err) {
	case provider.CodeAccountExists, provider.CodeUserAlreadyExists:
		return Failure{Kind: KindConflict, Message: MsgAccountExists, Err: err}
	case provider.CodeWeakPassword:
		return Failure{Kind: KindBadRequest, Message: MsgWeakPassword, Err: err}
	case provider.CodeRegistrationFailed:
		return Failure{Kind: KindBadRequest, Message: MsgRegistrationFailed, Err: err}
	default:
		return Failure{Kind: KindInternal, Err: err}
	}
}
